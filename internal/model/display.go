package model

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shepmaster/my-error/internal/attr"
	"github.com/shepmaster/my-error/pkg/diag"
	"github.com/shepmaster/my-error/pkg/schema"
)

// displayVerb is the accepted shape of an explicit placeholder verb: fmt
// flags, optional width and precision, one verb letter.
var displayVerb = regexp.MustCompile(`^[-+# 0]*\d*(\.\d+)?[a-zA-Z]$`)

// compileDisplay turns a display occurrence into a template. The single
// string-literal form compiles {field} placeholders against the container's
// declared fields; every other form passes through verbatim with the
// receiver in scope as e. fields maps document field names to receiver
// expressions.
func compileDisplay(occ attr.Display, fields map[string]string, bag *diag.Bag) *DisplayTemplate {
	if len(occ.Args) == 0 {
		return nil
	}
	if len(occ.Args) == 1 {
		if lit, ok := stringLiteral(occ.Args[0]); ok {
			return compileTemplate(lit, occ, fields, bag)
		}
	}
	return &DisplayTemplate{Verbatim: occ.Args, Pos: occ.At}
}

func stringLiteral(tok schema.Token) (string, bool) {
	text := tok.Text
	if len(text) < 2 || text[0] != '"' || text[len(text)-1] != '"' {
		return "", false
	}
	lit, err := strconv.Unquote(text)
	if err != nil {
		return "", false
	}
	return lit, true
}

func compileTemplate(lit string, occ attr.Display, fields map[string]string, bag *diag.Bag) *DisplayTemplate {
	var format strings.Builder
	var args []string

	for i := 0; i < len(lit); {
		c := lit[i]
		switch {
		case c == '{' && i+1 < len(lit) && lit[i+1] == '{':
			format.WriteByte('{')
			i += 2
		case c == '}' && i+1 < len(lit) && lit[i+1] == '}':
			format.WriteByte('}')
			i += 2
		case c == '{':
			end := strings.IndexByte(lit[i:], '}')
			if end < 0 {
				bag.Add(occ.At, "Unclosed `{` in display template")
				return &DisplayTemplate{Verbatim: occ.Args, Pos: occ.At}
			}
			name, verb := splitPlaceholder(lit[i+1 : i+end])
			if !displayVerb.MatchString(verb) {
				bag.Addf(occ.At, "Invalid verb `%%%s` in display template", verb)
				verb = "v"
			}
			expr, ok := fields[name]
			if !ok {
				bag.Addf(occ.At, "Unknown field `%s` in display template", name)
				expr = "e." + exportedName(name)
			}
			format.WriteByte('%')
			format.WriteString(verb)
			args = append(args, expr)
			i += end + 1
		case c == '%':
			format.WriteString("%%")
			i++
		default:
			format.WriteByte(c)
			i++
		}
	}

	return &DisplayTemplate{Format: format.String(), Args: args, Pos: occ.At}
}

func splitPlaceholder(placeholder string) (name, verb string) {
	name, verb = placeholder, "v"
	if colon := strings.IndexByte(placeholder, ':'); colon >= 0 {
		name = placeholder[:colon]
		if spec := placeholder[colon+1:]; spec != "" {
			verb = spec
		}
	}
	return name, verb
}
