package golang

import "testing"

func TestExportIdent(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"error", "Error"},
		{"open_file", "OpenFile"},
		{"parse-error", "ParseError"},
		{"über_limit", "ÜberLimit"},
	}

	for _, tc := range cases {
		if got := exportIdent(tc.in); got != tc.want {
			t.Errorf("exportIdent(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
