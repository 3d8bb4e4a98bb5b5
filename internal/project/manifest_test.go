package project_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shepmaster/my-error/internal/project"
)

func TestParse(t *testing.T) {
	m, err := project.Parse([]byte(`inputs:
  - errors/store.errors.yaml
out: gen
targets: [go, docs]
jobs: 4
`), ".myerror.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(m.Inputs) != 1 || m.Inputs[0] != "errors/store.errors.yaml" {
		t.Errorf("inputs = %v", m.Inputs)
	}
	if m.Out != "gen" || m.Jobs != 4 {
		t.Errorf("out = %q, jobs = %d", m.Out, m.Jobs)
	}
	if len(m.Targets) != 2 {
		t.Errorf("targets = %v", m.Targets)
	}
}

func TestParse_UnknownKey(t *testing.T) {
	_, err := project.Parse([]byte("output: gen\n"), ".myerror.yaml")
	if err == nil {
		t.Fatal("expected an error for an unknown key")
	}
	if !strings.Contains(err.Error(), ".myerror.yaml") {
		t.Errorf("error should name the manifest: %v", err)
	}
}

func TestParse_Empty(t *testing.T) {
	m, err := project.Parse(nil, ".myerror.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(m.Inputs) != 0 {
		t.Errorf("inputs = %v", m.Inputs)
	}
}

func TestParse_NegativeJobs(t *testing.T) {
	if _, err := project.Parse([]byte("jobs: -1\n"), ".myerror.yaml"); err == nil {
		t.Fatal("expected an error for negative jobs")
	}
}

func TestLoadNearest_WalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "pkg", "store")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	manifest := "inputs:\n  - errors/store.errors.yaml\nout: gen\n"
	if err := os.WriteFile(filepath.Join(root, project.ManifestName), []byte(manifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	m, path, err := project.LoadNearest(nested)
	if err != nil {
		t.Fatalf("load nearest: %v", err)
	}
	if path != filepath.Join(root, project.ManifestName) {
		t.Errorf("path = %q", path)
	}
	if want := filepath.Join(root, "errors", "store.errors.yaml"); len(m.Inputs) != 1 || m.Inputs[0] != want {
		t.Errorf("inputs = %v, want [%s]", m.Inputs, want)
	}
	if want := filepath.Join(root, "gen"); m.Out != want {
		t.Errorf("out = %q, want %q", m.Out, want)
	}
}

func TestLoadNearest_Absent(t *testing.T) {
	m, path, err := project.LoadNearest(t.TempDir())
	if err != nil {
		t.Fatalf("load nearest: %v", err)
	}
	if path != "" || len(m.Inputs) != 0 {
		t.Errorf("expected a zero manifest, got %+v at %q", m, path)
	}
}
