package parser

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"shift-calendar/models"
)

// ParseTemplate decodes a shift template from YAML or JSON. Unknown fields
// are rejected so typos in field names surface instead of being ignored.
// The template is not validated here; call Validate before using it.
func ParseTemplate(r io.Reader) (models.ShiftTemplate, error) {
	var t models.ShiftTemplate
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&t); err != nil {
		if errors.Is(err, io.EOF) {
			return models.ShiftTemplate{}, fmt.Errorf("decode template: empty document")
		}
		return models.ShiftTemplate{}, fmt.Errorf("decode template: %w", err)
	}
	return t, nil
}

// LoadTemplate reads a template file.
func LoadTemplate(path string) (models.ShiftTemplate, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.ShiftTemplate{}, fmt.Errorf("open template: %w", err)
	}
	defer f.Close()
	return ParseTemplate(f)
}
