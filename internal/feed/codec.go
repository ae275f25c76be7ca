package feed

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// Decode reads one document from r and checks its schema.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	dec := msgpack.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	if doc.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSchema, doc.Schema, SchemaVersion)
	}
	return &doc, nil
}

// Encode writes doc to w, stamping the current schema.
func Encode(w io.Writer, doc *Document) error {
	doc.Schema = SchemaVersion
	enc := msgpack.NewEncoder(w)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode feed: %w", err)
	}
	return nil
}

// ReadFile decodes the feed stored at path.
func ReadFile(path string) (doc *Document, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	doc, err = Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// WriteFile stores doc at path, replacing it atomically.
func WriteFile(path string, doc *Document) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "feed-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp) //nolint:errcheck // уже переименован при успехе

	w := bufio.NewWriter(f)
	if err := Encode(w, doc); err != nil {
		f.Close() //nolint:errcheck,gosec
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close() //nolint:errcheck,gosec
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
