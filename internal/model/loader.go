package model

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// decodeStrategy attempts to decode raw artifact bytes into a Spec.
type decodeStrategy struct {
	name   string
	decode func(data []byte) (Spec, error)
}

// strategies are tried in order; the first success short-circuits.
var strategies = []decodeStrategy{
	{name: "gob", decode: decodeGob},
	{name: "json", decode: decodeJSON},
}

// Loader reads artifact files and builds capability-bearing model values.
// Each Load reads the file fresh; nothing is cached across requests.
type Loader struct{}

// NewLoader creates a Loader.
func NewLoader() *Loader { return &Loader{} }

// Load reads and decodes an artifact. Every decode strategy is attempted
// before giving up; the joined error reports each attempt.
func (l *Loader) Load(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}

	var errs []error
	for _, s := range strategies {
		spec, err := s.decode(data)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
			continue
		}
		return Build(spec)
	}
	return nil, fmt.Errorf("decode artifact %s: %w", path, errors.Join(errs...))
}

func decodeGob(data []byte) (Spec, error) {
	var spec Spec
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&spec); err != nil {
		return Spec{}, err
	}
	return spec, nil
}

func decodeJSON(data []byte) (Spec, error) {
	var spec Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		return Spec{}, err
	}
	if spec.Kind == "" {
		return Spec{}, errors.New("artifact JSON has no kind")
	}
	return spec, nil
}

// EncodeGob serializes a spec in the primary artifact format.
func EncodeGob(spec Spec) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(spec); err != nil {
		return nil, fmt.Errorf("encode artifact: %w", err)
	}
	return buf.Bytes(), nil
}
