package keymap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dimchansky/utfbom"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a keymap file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned for files whose extension has no decoder.
var ErrUnknownFormat = errors.New("unknown keymap format")

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// LoadFile loads a keymap from a JSON, TOML or YAML file. The source of the
// keymap is set to the path and the name defaults to the file's base name.
func LoadFile(path string) (*Keymap, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening keymap file: %w", err)
	}
	defer f.Close()

	km, err := Load(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if km.Name == "" {
		km.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if km.Source == "" {
		km.Source = path
	}
	return km, nil
}

// Load decodes a keymap and checks its bindings. A UTF-8 byte order mark is
// skipped.
func Load(r io.Reader, format Format) (*Keymap, error) {
	data, err := io.ReadAll(utfbom.SkipOnly(r))
	if err != nil {
		return nil, fmt.Errorf("reading keymap: %w", err)
	}

	km := NewKeymap("")
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, km)
	case FormatTOML:
		err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(km)
	case FormatYAML:
		err = yaml.Unmarshal(data, km)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding keymap: %w", err)
	}
	if err := km.Validate(); err != nil {
		return nil, err
	}
	return km, nil
}

// Save writes the keymap in the given format.
func (k *Keymap) Save(w io.Writer, format Format) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatJSON:
		data, err = json.MarshalIndent(k, "", "  ")
	case FormatTOML:
		data, err = toml.Marshal(k)
	case FormatYAML:
		data, err = yaml.Marshal(k)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	if err != nil {
		return fmt.Errorf("marshaling keymap: %w", err)
	}
	_, err = w.Write(data)
	return err
}
