package errorset

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	gojson "github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

// Format identifies the encoding of an errorset document.
type Format string

const (
	FormatUnknown Format = ""
	FormatYAML    Format = "yaml"
	FormatJSON    Format = "json"
	FormatTOML    Format = "toml"
)

// DetectFormat resolves the document encoding from the location's
// extension, falling back to content probing for extensionless sources.
func DetectFormat(location string, raw []byte) Format {
	switch strings.ToLower(filepath.Ext(location)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return FormatUnknown
	}
	if trimmed[0] == '{' {
		return FormatJSON
	}
	// TOML before YAML: YAML happily parses TOML text as a scalar, the
	// reverse fails cleanly.
	if doc, err := Decode(FormatTOML, trimmed); err == nil && len(doc) > 0 {
		return FormatTOML
	}
	if doc, err := Decode(FormatYAML, trimmed); err == nil && len(doc) > 0 {
		return FormatYAML
	}
	return FormatUnknown
}

// Detect reports whether raw parses in a known encoding and carries the
// errorset document shape: an errors key and no OpenAPI markers.
func Detect(location string, raw []byte) bool {
	format := DetectFormat(location, raw)
	if format == FormatUnknown {
		return false
	}
	doc, err := Decode(format, raw)
	if err != nil || doc == nil {
		return false
	}
	if _, ok := doc["openapi"]; ok {
		return false
	}
	if _, ok := doc["swagger"]; ok {
		return false
	}
	_, ok := doc["errors"]
	return ok
}

// Decode unmarshals raw into its generic mapping form for the given format.
func Decode(format Format, raw []byte) (map[string]any, error) {
	var doc map[string]any
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(raw, &doc)
	case FormatJSON:
		err = gojson.Unmarshal(raw, &doc)
	case FormatTOML:
		err = toml.Unmarshal(raw, &doc)
	default:
		return nil, errors.New("errorset: unknown format")
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}
