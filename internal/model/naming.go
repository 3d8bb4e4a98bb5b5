package model

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var nameSeparators = regexp.MustCompile(`[_\-\s]+`)

// exportedName converts a document name into an exported Go identifier. It
// splits on underscores, dashes, and spaces, upper-cases the first rune of
// each segment, and leaves interior casing alone so acronyms survive.
func exportedName(name string) string {
	var out strings.Builder
	for _, segment := range nameSeparators.Split(name, -1) {
		if segment == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(segment)
		out.WriteRune(unicode.ToUpper(r))
		out.WriteString(segment[size:])
	}
	return out.String()
}

// unexportedName converts a document name into an unexported Go identifier.
// A leading run of upper-case letters is lowered as a unit so a name like
// HTTPError becomes httpError rather than hTTPError.
func unexportedName(name string) string {
	runes := []rune(exportedName(name))
	if len(runes) == 0 {
		return ""
	}
	run := 0
	for run < len(runes) && unicode.IsUpper(runes[run]) {
		run++
	}
	switch {
	case run == 0:
		return string(runes)
	case run == len(runes):
		return strings.ToLower(string(runes))
	case run == 1:
		runes[0] = unicode.ToLower(runes[0])
		return string(runes)
	default:
		// Keep the last upper of the run: it starts the next word.
		for i := 0; i < run-1; i++ {
			runes[i] = unicode.ToLower(runes[i])
		}
		return string(runes)
	}
}

// selectorBase strips one trailing "Error" from a container name, unless
// stripping would leave nothing to name the selector after.
func selectorBase(name string) string {
	trimmed := strings.TrimSuffix(name, "Error")
	if trimmed == "" {
		return name
	}
	return trimmed
}

// variantTypeName composes the generated struct identifier for a variant:
// the variant name followed by the container name, except when the variant
// already ends with the container name.
func variantTypeName(variant, container string) string {
	variant = exportedName(variant)
	container = exportedName(container)
	if strings.HasSuffix(variant, container) {
		return variant
	}
	return variant + container
}

// derivedModule lower-cases a container name into a package-style module
// name for bare module attributes.
func derivedModule(name string) string {
	return strings.ToLower(nameSeparators.ReplaceAllString(name, ""))
}
