package golang_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/shepmaster/my-error/pkg/gen"
	"github.com/shepmaster/my-error/pkg/generators/golang"
	"github.com/shepmaster/my-error/pkg/testsupport"
)

const roundtripDoc = `package: main
errors:
  - name: Error
    kind: enum
    variants:
      - name: Missing
        attrs: ['display("stored item {id} missing")']
        fields:
          - name: id
            type: int
      - name: Fetch
        attrs: ['display("fetch of {id} failed: {source}")']
        fields:
          - name: id
            type: int
          - name: source
            type: error
`

const roundtripHarness = `package main

import (
	"errors"
	"fmt"

	myerror "github.com/shepmaster/my-error"
)

func main() {
	first := missingContext{Id: 7}.Build()
	second := fetchContext{Id: 9}.Wrap(errors.New("boom"))
	fmt.Println(first.Error())
	fmt.Println(second.Error())
	fmt.Println(myerror.KindOf(second))
}
`

// Compiles and executes a generated selector: the message produced by a
// built error value must match the display template evaluated against the
// same field values.
func TestTarget_GeneratedSelectorsRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping compile-and-run round trip in short mode")
	}
	goBin, err := exec.LookPath("go")
	if err != nil {
		t.Skip("go binary not available")
	}

	set := testsupport.BuildSet(t, testsupport.InlineDocument(t, "roundtrip.errors.yaml", roundtripDoc))
	files, err := golang.New().Generate(context.Background(), set, gen.Options{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected one artifact, got %d", len(files))
	}

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("caller lookup failed")
	}
	moduleRoot, err := filepath.Abs(filepath.Join(filepath.Dir(thisFile), "..", "..", ".."))
	if err != nil {
		t.Fatalf("resolve module root: %v", err)
	}

	dir := t.TempDir()
	goMod := fmt.Sprintf(`module example.com/roundtrip

go 1.21

require github.com/shepmaster/my-error v0.0.0

replace github.com/shepmaster/my-error => %s
`, moduleRoot)
	writeHarnessFile(t, dir, "go.mod", goMod)
	writeHarnessFile(t, dir, files[0].Name, string(files[0].Content))
	writeHarnessFile(t, dir, "main.go", roundtripHarness)

	cmd := exec.Command(goBin, "run", ".")
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GOWORK=off", "GOFLAGS=-mod=mod")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("go run: %v\n%s", err, out)
	}

	want := []string{
		"stored item 7 missing",
		"fetch of 9 failed: boom",
		"Error.Fetch",
	}
	got := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(got) != len(want) {
		t.Fatalf("output = %q, want %d lines", out, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func writeHarnessFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}
