package keymap

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for keymap files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported keymap format")

// fileKeymap is the on-disk schema shared by all formats.
type fileKeymap struct {
	Name     string        `toml:"name" yaml:"name" json:"name"`
	Bindings []fileBinding `toml:"bindings" yaml:"bindings" json:"bindings"`
}

type fileBinding struct {
	Mode    string `toml:"mode" yaml:"mode" json:"mode"`
	Keys    string `toml:"keys" yaml:"keys" json:"keys"`
	Command string `toml:"command" yaml:"command" json:"command"`
}

// LoadFile loads a keymap from path. The format is chosen by extension:
// .toml, .yaml, .yml or .json.
func LoadFile(path string) (*Keymap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading keymap %s: %w", path, err)
	}

	var km *Keymap
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		km, err = ParseTOML(data)
	case ".yaml", ".yml":
		km, err = ParseYAML(data)
	case ".json":
		km, err = ParseJSON(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("loading keymap %s: %w", path, err)
	}
	if km.Name == "" {
		km.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return km, nil
}

// ParseTOML parses a keymap in TOML format.
func ParseTOML(data []byte) (*Keymap, error) {
	var fk fileKeymap
	if err := toml.Unmarshal(data, &fk); err != nil {
		return nil, fmt.Errorf("parse toml: %w", err)
	}
	return fk.build()
}

// ParseYAML parses a keymap in YAML format.
func ParseYAML(data []byte) (*Keymap, error) {
	var fk fileKeymap
	if err := yaml.Unmarshal(data, &fk); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return fk.build()
}

// ParseJSON parses a keymap in JSON format.
func ParseJSON(data []byte) (*Keymap, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("parse json: invalid document")
	}

	doc := gjson.ParseBytes(data)
	fk := fileKeymap{Name: doc.Get("name").String()}
	doc.Get("bindings").ForEach(func(_, b gjson.Result) bool {
		fk.Bindings = append(fk.Bindings, fileBinding{
			Mode:    b.Get("mode").String(),
			Keys:    b.Get("keys").String(),
			Command: b.Get("command").String(),
		})
		return true
	})
	return fk.build()
}

func (fk fileKeymap) build() (*Keymap, error) {
	km := New(fk.Name)
	for i, b := range fk.Bindings {
		if err := km.Bind(b.Mode, b.Keys, Command(b.Command)); err != nil {
			return nil, fmt.Errorf("binding %d: %w", i, err)
		}
	}
	return km, nil
}
