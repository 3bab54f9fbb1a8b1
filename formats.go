package fsentry

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// ReadJSON decodes the file's JSON content into v.
func (e *Entry) ReadJSON(v any) error {
	data, err := e.ReadBytes()
	if err != nil {
		return err
	}
	if err := sonic.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode json %q: %w", e.path, err)
	}
	return nil
}

// WriteJSON encodes v as indented JSON and replaces the file content.
func (e *Entry) WriteJSON(v any) error {
	data, err := sonic.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json %q: %w", e.path, err)
	}
	return e.WriteBytes(append(data, '\n'))
}

// ReadYAML decodes the file's YAML content into v.
func (e *Entry) ReadYAML(v any) error {
	data, err := e.ReadBytes()
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode yaml %q: %w", e.path, err)
	}
	return nil
}

// WriteYAML encodes v as YAML and replaces the file content.
func (e *Entry) WriteYAML(v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode yaml %q: %w", e.path, err)
	}
	return e.WriteBytes(data)
}

// ReadTOML decodes the file's TOML content into v.
func (e *Entry) ReadTOML(v any) error {
	data, err := e.ReadBytes()
	if err != nil {
		return err
	}
	if err := toml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode toml %q: %w", e.path, err)
	}
	return nil
}

// WriteTOML encodes v as TOML and replaces the file content.
func (e *Entry) WriteTOML(v any) error {
	data, err := toml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode toml %q: %w", e.path, err)
	}
	return e.WriteBytes(data)
}

// ReadCSV parses the file as CSV and returns its records.
func (e *Entry) ReadCSV() ([][]string, error) {
	data, err := e.ReadBytes()
	if err != nil {
		return nil, err
	}
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv %q: %w", e.path, err)
	}
	return records, nil
}

// WriteCSV replaces the file content with the records in CSV form.
func (e *Entry) WriteCSV(records [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("encode csv %q: %w", e.path, err)
	}
	return e.WriteBytes(buf.Bytes())
}
