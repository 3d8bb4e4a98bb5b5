// Package project reads the .myerror.yaml manifest that supplies
// per-repository defaults for the CLI. Flags always win over manifest
// values.
package project

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ManifestName is the file the CLI looks for, starting in the working
// directory and walking toward the filesystem root.
const ManifestName = ".myerror.yaml"

// Manifest collects the defaults a repository can pin for generation runs.
type Manifest struct {
	// Inputs are errorset documents, relative to the manifest directory.
	Inputs []string `yaml:"inputs"`
	// Out is the default output directory.
	Out string `yaml:"out"`
	// Targets are the default generation targets.
	Targets []string `yaml:"targets"`
	// Jobs bounds document-level parallelism.
	Jobs int `yaml:"jobs"`
}

// Load reads and strictly decodes the manifest at path. Unknown keys are an
// error so typos surface instead of silently changing behaviour.
func Load(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, err
	}
	return Parse(data, path)
}

// Parse strictly decodes manifest bytes. name is used in error messages.
func Parse(data []byte, name string) (Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return Manifest{}, nil
		}
		return Manifest{}, fmt.Errorf("%s: %w", name, err)
	}
	if m.Jobs < 0 {
		return Manifest{}, fmt.Errorf("%s: jobs must not be negative", name)
	}
	return m, nil
}

// Locate walks from dir toward the filesystem root looking for a manifest.
// The empty string and false come back when none exists.
func Locate(dir string) (string, bool) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		candidate := filepath.Join(current, ManifestName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}

// LoadNearest locates and loads the manifest governing dir. A missing
// manifest is not an error; the zero Manifest comes back.
func LoadNearest(dir string) (Manifest, string, error) {
	path, ok := Locate(dir)
	if !ok {
		return Manifest{}, "", nil
	}
	m, err := Load(path)
	if err != nil {
		return Manifest{}, path, err
	}
	// Inputs are recorded relative to the manifest so runs behave the same
	// from any subdirectory.
	base := filepath.Dir(path)
	for i, input := range m.Inputs {
		if !filepath.IsAbs(input) {
			m.Inputs[i] = filepath.Join(base, input)
		}
	}
	if m.Out != "" && !filepath.IsAbs(m.Out) {
		m.Out = filepath.Join(base, m.Out)
	}
	return m, path, nil
}
