package parser

import (
	"errors"

	gojson "github.com/goccy/go-json"

	"github.com/shepmaster/my-error/pkg/diag"
	"github.com/shepmaster/my-error/pkg/schema"
)

func decomposeJSON(src schema.Source, raw []byte, bag *diag.Bag) (schema.Set, bool) {
	var doc rawDocument
	if err := gojson.Unmarshal(raw, &doc); err != nil {
		bag.Addf(jsonErrorPos(src.Location(), raw, err), "Document is not valid JSON: %v", err)
		return schema.Set{}, false
	}
	return doc.decompose(src, bag), true
}

// jsonErrorPos upgrades the decoder's byte offset into a line and column so
// JSON parse errors still point somewhere useful.
func jsonErrorPos(file string, raw []byte, err error) schema.Pos {
	var offset int64 = -1
	var syntaxErr *gojson.SyntaxError
	var typeErr *gojson.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case errors.As(err, &typeErr):
		offset = typeErr.Offset
	}
	if offset < 0 || offset > int64(len(raw)) {
		return schema.Pos{File: file}
	}

	line, col := 1, 1
	for _, b := range raw[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return schema.Pos{File: file, Line: line, Column: col}
}
