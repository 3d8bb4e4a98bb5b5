// Package parser decomposes errorset documents into raw type definitions.
// YAML documents go through the goccy AST so every attribute line, field,
// and name keeps its line and column; JSON and TOML decode through plain
// structs and degrade to document-level positions.
package parser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shepmaster/my-error/pkg/diag"
	pkgerrorset "github.com/shepmaster/my-error/pkg/errorset"
	"github.com/shepmaster/my-error/pkg/schema"
)

// Parser implements pkgerrorset.Decomposer for the three accepted
// encodings.
type Parser struct{}

// Ensure the implementation satisfies the public interface.
var _ pkgerrorset.Decomposer = (*Parser)(nil)

// New constructs a Parser.
func New() pkgerrorset.Decomposer {
	return &Parser{}
}

// Decompose parses the document into a Set. Structural problems come back
// as a diag.List; the zero Set accompanies any error.
func (p *Parser) Decompose(ctx context.Context, doc schema.Document) (schema.Set, error) {
	if err := ctx.Err(); err != nil {
		return schema.Set{}, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return schema.Set{}, errors.New("errorset parser: document payload is empty")
	}

	var (
		bag diag.Bag
		set schema.Set
		ok  bool
	)
	switch format := pkgerrorset.DetectFormat(doc.Location(), raw); format {
	case pkgerrorset.FormatYAML:
		set, ok = decomposeYAML(doc.Source(), raw, &bag)
	case pkgerrorset.FormatJSON:
		set, ok = decomposeJSON(doc.Source(), raw, &bag)
	case pkgerrorset.FormatTOML:
		set, ok = decomposeTOML(doc.Source(), raw, &bag)
	default:
		return schema.Set{}, fmt.Errorf("errorset parser: cannot determine the format of %s", doc.Location())
	}

	if ok {
		verify(set, &bag)
	}
	if err := bag.Err(); err != nil {
		return schema.Set{}, err
	}
	return set, nil
}

// verify applies the structural checks shared by every encoding. The model
// builder assumes names are present; everything subtler stays its problem.
func verify(set schema.Set, bag *diag.Bag) {
	at := schema.Pos{File: set.Location()}

	if strings.TrimSpace(set.Package) == "" {
		bag.Add(at, "Document must declare a package")
	}
	if len(set.Types) == 0 {
		bag.Add(at, "Document declares no error types")
	}
	for _, td := range set.Types {
		if strings.TrimSpace(td.Name) == "" {
			bag.Add(td.Pos, "Error type must declare a name")
		}
		for _, vd := range td.Variants {
			if strings.TrimSpace(vd.Name) == "" {
				bag.Add(vd.Pos, "Variant must declare a name")
			}
			verifyFields(vd.Fields, bag)
		}
		verifyFields(td.Fields, bag)
	}
}

func verifyFields(fields []schema.FieldDef, bag *diag.Bag) {
	for _, fd := range fields {
		if !fd.Positional && strings.TrimSpace(fd.Name) == "" {
			bag.Add(fd.Pos, "Field entry must declare a name")
		}
	}
}
