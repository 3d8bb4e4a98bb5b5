package attr

import (
	"strings"

	"github.com/shepmaster/my-error/pkg/diag"
	"github.com/shepmaster/my-error/pkg/schema"
)

// ParseList parses the attribute lines and doc lines attached to one scope
// into a flat, ordered occurrence list. Doc lines always parse; grammar
// errors in attribute lines are fatal for the whole scope, and every bad
// line is reported, not just the first.
func ParseList(attrs []schema.AttrLine, docs []schema.DocLine) ([]Occurrence, diag.List) {
	var (
		occs []Occurrence
		errs diag.List
	)

	for _, doc := range docs {
		occs = append(occs, Doc{Text: doc.Text, At: doc.Pos})
	}

	for _, line := range attrs {
		parsed, lineErrs := parseLine(line)
		if len(lineErrs) > 0 {
			errs = append(errs, lineErrs...)
			continue
		}
		occs = append(occs, parsed...)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return occs, nil
}

type parser struct {
	src  string
	i    int
	base schema.Pos
}

func parseLine(line schema.AttrLine) ([]Occurrence, diag.List) {
	p := &parser{src: line.Text, base: line.Pos}

	var occs []Occurrence
	for {
		p.skipSpace()
		if p.eof() {
			break
		}

		start := p.i
		name := p.ident()
		if name == "" {
			return nil, p.errorf(p.i, "expected an attribute name, found %q", p.rest())
		}

		attrOccs, errs := p.parseAttribute(name, start)
		if errs != nil {
			return nil, errs
		}
		occs = append(occs, attrOccs...)

		p.skipSpace()
		if p.eof() {
			break
		}
		if p.peek() != ',' {
			return nil, p.errorf(p.i, "expected `,` between attributes, found %q", p.rest())
		}
		p.next()
	}

	return occs, nil
}

func (p *parser) parseAttribute(name string, start int) ([]Occurrence, diag.List) {
	at := p.at(start)

	switch name {
	case "display":
		args, errs := p.parenArgs(name)
		if errs != nil {
			return nil, errs
		}
		if len(args) == 0 {
			return nil, diag.Errorf(at, "`display` expects at least one argument")
		}
		return []Occurrence{Display{Args: args, At: at}}, nil

	case "source":
		return p.parseSource(at)

	case "backtrace":
		if !p.openParen() {
			return []Occurrence{Backtrace{Value: true, At: at}}, nil
		}
		var occs []Occurrence
		for {
			p.skipSpace()
			argStart := p.i
			value, ok := p.boolArg()
			if !ok {
				return nil, p.errorf(argStart, "`backtrace` expects `true` or `false`")
			}
			occs = append(occs, Backtrace{Value: value, At: p.at(argStart)})
			more, errs := p.argSeparator(name)
			if errs != nil {
				return nil, errs
			}
			if !more {
				return occs, nil
			}
		}

	case "context":
		return p.parseContext(at)

	case "whatever":
		if p.openParen() {
			return nil, diag.Errorf(at, "`whatever` takes no arguments")
		}
		return []Occurrence{Whatever{At: at}}, nil

	case "visibility":
		if !p.openParen() {
			return []Occurrence{Visibility{At: at}}, nil
		}
		p.skipSpace()
		argStart := p.i
		text := p.opaque()
		if errs := p.closeParen(name); errs != nil {
			return nil, errs
		}
		if text == "" {
			return []Occurrence{Visibility{At: at}}, nil
		}
		return []Occurrence{Visibility{Arg: schema.Token{Text: text, Pos: p.at(argStart)}, At: at}}, nil

	case "module":
		if !p.openParen() {
			return []Occurrence{Module{At: at}}, nil
		}
		p.skipSpace()
		argStart := p.i
		ident := p.ident()
		if ident == "" {
			return nil, p.errorf(argStart, "`module` expects an identifier")
		}
		if errs := p.closeParen(name); errs != nil {
			return nil, errs
		}
		return []Occurrence{Module{Name: ident, At: at}}, nil

	case "runtime":
		if !p.openParen() {
			return nil, diag.Errorf(at, "`runtime` expects an import path")
		}
		p.skipSpace()
		argStart := p.i
		text := p.opaque()
		if errs := p.closeParen(name); errs != nil {
			return nil, errs
		}
		if text == "" {
			return nil, p.errorf(argStart, "`runtime` expects an import path")
		}
		return []Occurrence{Runtime{Path: schema.Token{Text: text, Pos: p.at(argStart)}, At: at}}, nil

	default:
		return nil, diag.Errorf(at, "`%s` is not a recognized attribute", name)
	}
}

// parseSource handles source, source(bool), and source(from(type, expr)),
// with comma-separated argument lists expanding to one occurrence each.
func (p *parser) parseSource(at schema.Pos) ([]Occurrence, diag.List) {
	if !p.openParen() {
		return []Occurrence{SourceFlag{Value: true, At: at}}, nil
	}

	var occs []Occurrence
	for {
		p.skipSpace()
		argStart := p.i

		if value, ok := p.boolArg(); ok {
			occs = append(occs, SourceFlag{Value: value, At: p.at(argStart)})
		} else if p.keyword("from") {
			occ, errs := p.parseFrom(p.at(argStart))
			if errs != nil {
				return nil, errs
			}
			occs = append(occs, occ)
		} else {
			return nil, p.errorf(argStart, "`source` expects `true`, `false`, or `from(type, expression)`")
		}

		more, errs := p.argSeparator("source")
		if errs != nil {
			return nil, errs
		}
		if !more {
			return occs, nil
		}
	}
}

func (p *parser) parseFrom(at schema.Pos) (Occurrence, diag.List) {
	if !p.openParen() {
		return nil, diag.Errorf(at, "`from` expects a type and an expression")
	}
	p.skipSpace()
	typeStart := p.i
	typeText := p.opaque()
	if typeText == "" {
		return nil, p.errorf(typeStart, "`from` expects a type and an expression")
	}
	p.skipSpace()
	if p.peek() != ',' {
		return nil, p.errorf(p.i, "`from` expects a type and an expression")
	}
	p.next()
	p.skipSpace()
	exprStart := p.i
	exprText := p.opaque()
	if exprText == "" {
		return nil, p.errorf(exprStart, "`from` expects a type and an expression")
	}
	if errs := p.closeParen("from"); errs != nil {
		return nil, errs
	}
	return SourceFrom{
		Type: schema.Token{Text: typeText, Pos: p.at(typeStart)},
		Expr: schema.Token{Text: exprText, Pos: p.at(exprStart)},
		At:   at,
	}, nil
}

// parseContext handles context, context(bool), and context(suffix(...)).
func (p *parser) parseContext(at schema.Pos) ([]Occurrence, diag.List) {
	if !p.openParen() {
		return []Occurrence{Context{Enabled: true, Suffix: Suffix{Kind: SuffixNone}, At: at}}, nil
	}

	p.skipSpace()
	argStart := p.i

	if value, ok := p.boolArg(); ok {
		if errs := p.closeParen("context"); errs != nil {
			return nil, errs
		}
		return []Occurrence{Context{Enabled: value, Suffix: Suffix{Kind: SuffixNone}, At: at}}, nil
	}

	if !p.keyword("suffix") {
		return nil, p.errorf(argStart, "`context` expects `true`, `false`, or `suffix(...)`")
	}
	if !p.openParen() {
		return nil, p.errorf(p.i, "`suffix` expects `true`, `false`, or an identifier")
	}
	p.skipSpace()
	suffixStart := p.i

	var suffix Suffix
	if value, ok := p.boolArg(); ok {
		if value {
			suffix = Suffix{Kind: SuffixDefault}
		} else {
			suffix = Suffix{Kind: SuffixNone}
		}
	} else if ident := p.ident(); ident != "" {
		suffix = Suffix{Kind: SuffixCustom, Name: ident}
	} else {
		return nil, p.errorf(suffixStart, "`suffix` expects `true`, `false`, or an identifier")
	}
	if errs := p.closeParen("suffix"); errs != nil {
		return nil, errs
	}
	if errs := p.closeParen("context"); errs != nil {
		return nil, errs
	}
	return []Occurrence{Context{Enabled: true, Suffix: suffix, At: at}}, nil
}

// argSeparator consumes either a comma (more arguments follow) or the
// closing paren of an argument list.
func (p *parser) argSeparator(attr string) (more bool, errs diag.List) {
	p.skipSpace()
	switch p.peek() {
	case ',':
		p.next()
		return true, nil
	case ')':
		p.next()
		return false, nil
	default:
		return false, p.errorf(p.i, "expected `,` or `)` in `%s` arguments, found %q", attr, p.rest())
	}
}

func (p *parser) eof() bool {
	return p.i >= len(p.src)
}

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.i]
}

func (p *parser) next() byte {
	if p.eof() {
		return 0
	}
	ch := p.src[p.i]
	p.i++
	return ch
}

func (p *parser) skipSpace() {
	for !p.eof() {
		switch p.src[p.i] {
		case ' ', '\t', '\n', '\r':
			p.i++
		default:
			return
		}
	}
}

// ident consumes an identifier run. Identifiers in the grammar are ASCII
// letters, digits, and underscores, never starting with a digit.
func (p *parser) ident() string {
	start := p.i
	for !p.eof() {
		c := p.src[p.i]
		isAlpha := c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		isDigit := c >= '0' && c <= '9'
		if !isAlpha && !(isDigit && p.i > start) {
			break
		}
		p.i++
	}
	return p.src[start:p.i]
}

// keyword consumes the identifier only when it matches word exactly.
func (p *parser) keyword(word string) bool {
	save := p.i
	if p.ident() == word {
		return true
	}
	p.i = save
	return false
}

// boolArg consumes a literal true or false.
func (p *parser) boolArg() (value, ok bool) {
	save := p.i
	switch p.ident() {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		p.i = save
		return false, false
	}
}

// openParen consumes an opening paren, tolerating leading space.
func (p *parser) openParen() bool {
	save := p.i
	p.skipSpace()
	if p.peek() == '(' {
		p.next()
		return true
	}
	p.i = save
	return false
}

func (p *parser) closeParen(attr string) diag.List {
	p.skipSpace()
	if p.peek() != ')' {
		return p.errorf(p.i, "missing closing `)` in `%s`", attr)
	}
	p.next()
	return nil
}

// opaque captures a verbatim fragment up to the next top-level `,` or `)`,
// respecting bracket nesting and string, rune, and raw-string literals. The
// fragment is stored untouched apart from surrounding whitespace.
func (p *parser) opaque() string {
	start := p.i
	depth := 0
	for !p.eof() {
		switch c := p.src[p.i]; c {
		case '(', '[', '{':
			depth++
			p.i++
		case ')', ']', '}':
			if depth == 0 {
				return strings.TrimSpace(p.src[start:p.i])
			}
			depth--
			p.i++
		case ',':
			if depth == 0 {
				return strings.TrimSpace(p.src[start:p.i])
			}
			p.i++
		case '"', '\'':
			p.literal(c)
		case '`':
			p.i++
			for !p.eof() && p.src[p.i] != '`' {
				p.i++
			}
			if !p.eof() {
				p.i++
			}
		default:
			p.i++
		}
	}
	return strings.TrimSpace(p.src[start:p.i])
}

// literal consumes a quoted literal with backslash escapes.
func (p *parser) literal(quote byte) {
	p.i++
	for !p.eof() {
		switch p.src[p.i] {
		case '\\':
			p.i += 2
		case quote:
			p.i++
			return
		default:
			p.i++
		}
	}
}

// parenArgs parses a required parenthesized, comma-separated opaque
// argument list.
func (p *parser) parenArgs(attr string) ([]schema.Token, diag.List) {
	if !p.openParen() {
		return nil, p.errorf(p.i, "`%s` expects arguments", attr)
	}
	var args []schema.Token
	for {
		p.skipSpace()
		if p.peek() == ')' {
			p.next()
			return args, nil
		}
		argStart := p.i
		text := p.opaque()
		if text == "" {
			return nil, p.errorf(argStart, "empty argument in `%s`", attr)
		}
		args = append(args, schema.Token{Text: text, Pos: p.at(argStart)})
		more, errs := p.argSeparator(attr)
		if errs != nil {
			return nil, errs
		}
		if !more {
			return args, nil
		}
	}
}

// at converts a byte offset in the attribute string into a document
// position. Attribute strings are single lines, so only the column moves.
func (p *parser) at(offset int) schema.Pos {
	pos := p.base
	if pos.Column > 0 {
		pos.Column += offset
	}
	return pos
}

func (p *parser) errorf(offset int, format string, args ...any) diag.List {
	return diag.Errorf(p.at(offset), format, args...)
}

// rest returns a short preview of the unconsumed input for error messages.
func (p *parser) rest() string {
	rest := strings.TrimSpace(p.src[min(p.i, len(p.src)):])
	if len(rest) > 20 {
		rest = rest[:20] + "..."
	}
	if rest == "" {
		rest = "end of attribute"
	}
	return rest
}
