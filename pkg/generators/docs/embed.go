package docs

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded template bundle for consumers that want
// the default catalog layout.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
