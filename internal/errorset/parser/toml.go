package parser

import (
	"errors"

	"github.com/BurntSushi/toml"

	"github.com/shepmaster/my-error/pkg/diag"
	"github.com/shepmaster/my-error/pkg/schema"
)

func decomposeTOML(src schema.Source, raw []byte, bag *diag.Bag) (schema.Set, bool) {
	var doc rawDocument
	if err := toml.Unmarshal(raw, &doc); err != nil {
		bag.Addf(tomlErrorPos(src.Location(), err), "Document is not valid TOML: %v", err)
		return schema.Set{}, false
	}
	return doc.decompose(src, bag), true
}

func tomlErrorPos(file string, err error) schema.Pos {
	var parseErr toml.ParseError
	if errors.As(err, &parseErr) && parseErr.Position.Line > 0 {
		return schema.Pos{File: file, Line: parseErr.Position.Line}
	}
	return schema.Pos{File: file}
}
