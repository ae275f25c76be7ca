package diagfmt

import (
	"path"

	"loom/internal/source"
)

func formatPath(fs *source.FileSet, id source.FileID, mode PathMode) string {
	if fs == nil {
		return "<unknown>"
	}
	p := fs.Path(id)
	if p == "" {
		return "<unknown>"
	}
	if mode == PathModeBasename {
		return path.Base(p)
	}
	return p
}
