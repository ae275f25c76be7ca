package source

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
)

type (
	// FileID identifies a file inside a FileSet. NoFileID is never assigned.
	FileID uint32
	// FileFlags encodes where a file came from.
	FileFlags uint8
)

const NoFileID FileID = 0

const (
	// FileForeign marks headers reported by the foreign parser.
	FileForeign FileFlags = 1 << iota
	// FileVirtual marks files that never existed on disk (tests, synthesized main).
	FileVirtual
	// FileMain marks the designated main module path.
	FileMain
)

type File struct {
	ID      FileID
	Path    string
	Flags   FileFlags
	Content []byte
	lines   []uint32
}

// FileSet maps normalized paths to stable FileIDs. Registering the same
// path twice yields the same ID.
type FileSet struct {
	files []File // files[0] is the NoFileID placeholder
	index map[string]FileID
}

func NewFileSet() *FileSet {
	return &FileSet{
		files: []File{{}},
		index: make(map[string]FileID),
	}
}

// Register returns the FileID for p, creating it on first use. Flags are
// OR-ed into the existing entry.
func (fs *FileSet) Register(p string, flags FileFlags) FileID {
	norm := NormalizePath(p)
	if id, ok := fs.index[norm]; ok {
		fs.files[id].Flags |= flags
		return id
	}
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	id := FileID(n)
	fs.files = append(fs.files, File{ID: id, Path: norm, Flags: flags})
	fs.index[norm] = id
	return id
}

// SetContent attaches source text so diagnostics can show a snippet.
func (fs *FileSet) SetContent(id FileID, content []byte) {
	f := fs.Get(id)
	if f == nil {
		return
	}
	f.Content = content
	f.lines = buildLineIndex(content)
}

// Get returns nil for NoFileID or unknown IDs.
func (fs *FileSet) Get(id FileID) *File {
	if id == NoFileID || int(id) >= len(fs.files) {
		return nil
	}
	return &fs.files[id]
}

func (fs *FileSet) Lookup(p string) (FileID, bool) {
	id, ok := fs.index[NormalizePath(p)]
	return id, ok
}

// Path returns "" for unknown IDs.
func (fs *FileSet) Path(id FileID) string {
	if f := fs.Get(id); f != nil {
		return f.Path
	}
	return ""
}

func (fs *FileSet) Len() int {
	return len(fs.files) - 1
}

// Files returns all registered files in registration order.
func (fs *FileSet) Files() []*File {
	out := make([]*File, 0, fs.Len())
	for i := 1; i < len(fs.files); i++ {
		out = append(out, &fs.files[i])
	}
	return out
}

// Line returns line n (1-based) without the trailing newline, or "" when the
// file has no content attached.
func (f *File) Line(n uint32) string {
	if f == nil || n == 0 || len(f.Content) == 0 {
		return ""
	}
	var start uint32
	if n > 1 {
		if int(n-2) >= len(f.lines) {
			return ""
		}
		start = f.lines[n-2] + 1
	}
	end := uint32(len(f.Content))
	if int(n-1) < len(f.lines) {
		end = f.lines[n-1]
	}
	if start > end {
		return ""
	}
	return strings.TrimSuffix(string(f.Content[start:end]), "\r")
}

// NormalizePath cleans p and converts it to forward slashes so the same
// header reached through different spellings maps to one FileID.
func NormalizePath(p string) string {
	if p == "" {
		return ""
	}
	return path.Clean(filepath.ToSlash(p))
}

// BaseName returns the final path component without its extension.
func BaseName(p string) string {
	base := path.Base(NormalizePath(p))
	if base == "." || base == "/" {
		return ""
	}
	if ext := path.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, len(content)/32)
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i)) //nolint:gosec // bounded by content length
		}
	}
	return out
}
