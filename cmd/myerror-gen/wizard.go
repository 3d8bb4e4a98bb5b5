package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"github.com/shepmaster/my-error/internal/project"
	"github.com/shepmaster/my-error/pkg/console"
)

const starterDocument = `package: %s
errors:
  - name: Error
    kind: enum
    variants:
      - name: OpenFile
        doc: Could not open the data file.
        attrs: ['display("could not open {path}")']
        fields:
          - name: path
            type: string
          - name: source
            type: error
      - name: Timeout
`

// runInit asks for the essentials and scaffolds a starter errorset
// document plus the project manifest.
func runInit() error {
	var pkg string
	if err := survey.AskOne(&survey.Input{
		Message: "Package name for the generated code:",
		Default: "apperrors",
	}, &pkg, survey.WithValidator(survey.Required)); err != nil {
		return err
	}

	var targets []string
	if err := survey.AskOne(&survey.MultiSelect{
		Message: "Generation targets:",
		Options: []string{"go", "docs"},
		Default: []string{"go"},
	}, &targets); err != nil {
		return err
	}

	var out string
	if err := survey.AskOne(&survey.Input{
		Message: "Output directory:",
		Default: ".",
	}, &out); err != nil {
		return err
	}

	docName := pkg + ".errors.yaml"
	var confirm bool
	if err := survey.AskOne(&survey.Confirm{
		Message: fmt.Sprintf("Write %s and %s?", docName, project.ManifestName),
		Default: true,
	}, &confirm); err != nil {
		return err
	}
	if !confirm {
		fmt.Println(console.FormatInfoMessage("nothing written"))
		return nil
	}

	if _, err := os.Stat(docName); err == nil {
		return fmt.Errorf("%s already exists", docName)
	}
	if err := os.WriteFile(docName, []byte(fmt.Sprintf(starterDocument, pkg)), 0o644); err != nil {
		return err
	}

	manifest := fmt.Sprintf("inputs:\n  - %s\nout: %s\ntargets: [%s]\n", docName, out, strings.Join(targets, ", "))
	if err := os.WriteFile(project.ManifestName, []byte(manifest), 0o644); err != nil {
		return err
	}

	fmt.Println(console.FormatSuccessMessage("wrote " + docName))
	fmt.Println(console.FormatSuccessMessage("wrote " + project.ManifestName))
	fmt.Println(console.FormatInfoMessage("run: myerror-gen generate"))
	return nil
}
