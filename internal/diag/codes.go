package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Фид внешнего парсера
	FeedInfo       Code = 1000
	FeedBadNode    Code = 1001
	FeedBadType    Code = 1002
	FeedBadSpan    Code = 1003
	FeedUnknownRef Code = 1004

	// Линковка модулей
	LinkDanglingEdge   Code = 2001
	LinkImportCycle    Code = 2002
	LinkSelfInclude    Code = 2003
	LinkUntypedModule  Code = 2004
	LinkMainSynthesize Code = 2005

	// Плагины
	PluginArity         Code = 3001
	PluginResolution    Code = 3002
	PluginShape         Code = 3003
	PluginUnknownAction Code = 3004
	PluginPanic         Code = 3005
	PluginLoad          Code = 3006
	PluginFailed        Code = 3007
	PluginResultShape   Code = 3008

	// IO
	IOLoadFileError Code = 4001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:         "Unknown error",
		FeedInfo:            "Feed information",
		FeedBadNode:         "Malformed declaration in feed",
		FeedBadType:         "Malformed type in feed",
		FeedBadSpan:         "Invalid source location in feed",
		FeedUnknownRef:      "Reference to unknown declaration",
		LinkDanglingEdge:    "Include edge points to no module",
		LinkImportCycle:     "Modules include each other",
		LinkSelfInclude:     "Module includes itself",
		LinkUntypedModule:   "Module path yields no name",
		LinkMainSynthesize:  "Main module synthesized",
		PluginArity:         "Wrong number of action arguments",
		PluginResolution:    "Action argument does not resolve",
		PluginShape:         "Action argument has the wrong shape",
		PluginUnknownAction: "Unknown plugin action",
		PluginPanic:         "Plugin action panicked",
		PluginLoad:          "Plugin could not be loaded",
		PluginFailed:        "Plugin action failed",
		PluginResultShape:   "Action result does not fit its slot",
		IOLoadFileError:     "I/O load file error",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("FED%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("LNK%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("PLG%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
