// Package sceneio reads and writes scene files as YAML.
package sceneio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bethropolis/prism/internal/scene"
)

// ErrVersion is returned for files written by a newer format.
var ErrVersion = errors.New("sceneio: unsupported format version")

// FormatError reports a structurally invalid scene file.
type FormatError struct {
	Path string // node path inside the scene
	Msg  string
	Err  error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sceneio: %s: %s: %v", e.Path, e.Msg, e.Err)
	}
	return fmt.Sprintf("sceneio: %s: %s", e.Path, e.Msg)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Encode writes s to w. Engine context or async lock only.
func Encode(w io.Writer, s *scene.Scene) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toDoc(s)); err != nil {
		return fmt.Errorf("sceneio: encode: %w", err)
	}
	return enc.Close()
}

// Decode reads a scene from r.
func Decode(r io.Reader) (*scene.Scene, error) {
	var doc sceneDoc
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("sceneio: decode: %w", err)
	}
	if doc.Version > FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrVersion, doc.Version)
	}
	if doc.Root.Name == "" {
		return nil, &FormatError{Path: "/", Msg: "missing root node"}
	}
	return fromDoc(doc)
}

// Load reads the scene file at path.
func Load(path string) (*scene.Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return s, nil
}
