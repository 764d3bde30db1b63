package keymap

import (
	"fmt"

	"github.com/tidwall/sjson"
)

// ExportJSON encodes the keymap in the JSON keymap format.
// Bindings are ordered by mode and key.
func (k *Keymap) ExportJSON() ([]byte, error) {
	doc, err := sjson.SetBytes([]byte(`{"name":"","bindings":[]}`), "name", k.Name)
	if err != nil {
		return nil, fmt.Errorf("export keymap: %w", err)
	}

	for _, b := range k.All() {
		doc, err = sjson.SetBytes(doc, "bindings.-1", map[string]string{
			"mode":    b.Mode,
			"keys":    b.Keys,
			"command": string(b.Command),
		})
		if err != nil {
			return nil, fmt.Errorf("export binding %s %q: %w", b.Mode, b.Keys, err)
		}
	}
	return doc, nil
}
