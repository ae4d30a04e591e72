package scene

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/smartstep/pkg/errors"
)

// Format is a scene document encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFromPath infers the format from a file extension. Unknown extensions
// default to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// Read decodes a JSON scene from r and validates it.
func Read(r io.Reader) (*Scene, error) {
	var s Scene
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode scene")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Write encodes s as indented JSON.
func Write(w io.Writer, s *Scene) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode scene")
	}
	return nil
}

// tomlScene mirrors Scene for TOML, which only allows string table keys.
// Offsets are hoisted into a table keyed by connector ID.
type tomlScene struct {
	Scene
	Offsets map[string]map[string]float64 `toml:"offsets,omitempty"`
}

// ReadTOML decodes a TOML scene from r and validates it.
func ReadTOML(r io.Reader) (*Scene, error) {
	var doc tomlScene
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode scene")
	}
	s := doc.Scene
	for i := range s.Connectors {
		raw, ok := doc.Offsets[s.Connectors[i].ID]
		if !ok {
			continue
		}
		s.Connectors[i].Offsets = fromStringMap(raw, func(v float64) (float64, bool) { return v, true })
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// WriteTOML encodes s as TOML.
func WriteTOML(w io.Writer, s *Scene) error {
	doc := tomlScene{Scene: *s}
	for _, c := range s.Connectors {
		if len(c.Offsets) == 0 {
			continue
		}
		if doc.Offsets == nil {
			doc.Offsets = make(map[string]map[string]float64)
		}
		doc.Offsets[c.ID] = c.Offsets.stringMap()
	}
	if err := toml.NewEncoder(w).Encode(doc); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode scene")
	}
	return nil
}

// Decode reads a scene in the given format.
func Decode(r io.Reader, f Format) (*Scene, error) {
	if f == FormatTOML {
		return ReadTOML(r)
	}
	return Read(r)
}

// Encode writes a scene in the given format.
func Encode(w io.Writer, s *Scene, f Format) error {
	if f == FormatTOML {
		return WriteTOML(w, s)
	}
	return Write(w, s)
}

// ReadFile loads a scene, choosing the codec by extension.
func ReadFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeSceneNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	s, err := Decode(f, FormatFromPath(path))
	if err != nil {
		return nil, errors.Wrap(errors.CodeOf(err), err, "%s", path)
	}
	return s, nil
}

// WriteFile saves a scene, choosing the codec by extension.
func WriteFile(path string, s *Scene) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "create %s", path)
	}
	if err := Encode(f, s, FormatFromPath(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
