package errorset_test

import (
	"testing"

	"github.com/shepmaster/my-error/pkg/errorset"
)

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		name     string
		location string
		raw      string
		want     errorset.Format
	}{
		{"yaml extension", "store.errors.yaml", "", errorset.FormatYAML},
		{"yml extension", "store.errors.yml", "", errorset.FormatYAML},
		{"json extension", "store.errors.json", "", errorset.FormatJSON},
		{"toml extension", "store.errors.toml", "", errorset.FormatTOML},
		{"json content", "inline", `{"package": "store"}`, errorset.FormatJSON},
		{"toml content", "inline", "package = \"store\"\n", errorset.FormatTOML},
		{"yaml content", "inline", "package: store\n", errorset.FormatYAML},
		{"empty", "inline", "", errorset.FormatUnknown},
		{"plain text", "inline", "hello world", errorset.FormatUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := errorset.DetectFormat(tc.location, []byte(tc.raw))
			if got != tc.want {
				t.Fatalf("DetectFormat(%q) = %q, want %q", tc.location, got, tc.want)
			}
		})
	}
}

func TestDetect(t *testing.T) {
	cases := []struct {
		name     string
		location string
		raw      string
		want     bool
	}{
		{
			name:     "yaml errorset",
			location: "store.errors.yaml",
			raw:      "package: store\nerrors:\n  - name: Error\n    kind: enum\n",
			want:     true,
		},
		{
			name:     "json errorset",
			location: "store.errors.json",
			raw:      `{"package": "store", "errors": []}`,
			want:     true,
		},
		{
			name:     "toml errorset",
			location: "store.errors.toml",
			raw:      "package = \"store\"\n\n[[errors]]\nname = \"Error\"\n",
			want:     true,
		},
		{
			name:     "extensionless yaml errorset",
			location: "inline",
			raw:      "package: store\nerrors: []\n",
			want:     true,
		},
		{
			name:     "openapi document",
			location: "api.yaml",
			raw:      "openapi: 3.0.0\nerrors: []\n",
			want:     false,
		},
		{
			name:     "yaml without errors key",
			location: "config.yaml",
			raw:      "package: store\n",
			want:     false,
		},
		{
			name:     "yaml extension with broken content",
			location: "store.errors.yaml",
			raw:      "[: nope",
			want:     false,
		},
		{
			name:     "empty payload",
			location: "store.errors.yaml",
			raw:      "",
			want:     false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := errorset.Detect(tc.location, []byte(tc.raw))
			if got != tc.want {
				t.Fatalf("Detect(%q) = %t, want %t", tc.name, got, tc.want)
			}
		})
	}
}
