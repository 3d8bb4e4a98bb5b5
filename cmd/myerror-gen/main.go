package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shepmaster/my-error/internal/project"
	"github.com/shepmaster/my-error/pkg/console"
	"github.com/shepmaster/my-error/pkg/diag"
	"github.com/shepmaster/my-error/pkg/orchestrator"
)

// Build-time variable set by the release pipeline.
var version = "dev"

// Global flags
var (
	flagOut     string
	flagTargets []string
	flagDryRun  bool
	flagWatch   bool
	flagJobs    int
)

var rootCmd = &cobra.Command{
	Use:   "myerror-gen",
	Short: "Generate Go error types from errorset documents",
	Long: `myerror-gen compiles errorset documents (YAML, JSON, TOML, or OpenAPI
specs carrying an x-errorsets extension) into Go error types with context
selectors, trace capture, and a markdown catalog.`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate [flags] <inputs...>",
	Short: "Run the full pipeline and write generated artifacts",
	Run: func(cmd *cobra.Command, args []string) {
		run := func() int {
			return runPipeline(cmd, args, flagTargets, false)
		}
		if flagWatch {
			inputs, _, err := resolveInputs(cmd, args)
			if err != nil {
				fail(err)
			}
			if err := watchAndRun(inputs, run); err != nil {
				fail(err)
			}
			return
		}
		os.Exit(run())
	},
}

var checkCmd = &cobra.Command{
	Use:   "check <inputs...>",
	Short: "Validate documents and report diagnostics without generating",
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runPipeline(cmd, args, nil, true))
	},
}

var docsCmd = &cobra.Command{
	Use:   "docs <inputs...>",
	Short: "Generate the markdown error catalog only",
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runPipeline(cmd, args, []string{"docs"}, false))
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the myerror-gen version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("myerror-gen", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold a starter errorset document and project manifest",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runInit(); err != nil {
			fail(err)
		}
	},
}

func init() {
	generateCmd.Flags().StringVar(&flagOut, "out", "", "output directory for generated artifacts")
	generateCmd.Flags().StringSliceVar(&flagTargets, "target", nil, "generation target (repeatable; default go)")
	generateCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "compute artifacts without writing them")
	generateCmd.Flags().BoolVar(&flagWatch, "watch", false, "regenerate when the inputs change")
	generateCmd.Flags().IntVar(&flagJobs, "jobs", 0, "documents processed concurrently (default: number of CPUs)")

	docsCmd.Flags().StringVar(&flagOut, "out", "", "output directory for generated artifacts")
	docsCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "compute artifacts without writing them")
	docsCmd.Flags().IntVar(&flagJobs, "jobs", 0, "documents processed concurrently (default: number of CPUs)")

	checkCmd.Flags().IntVar(&flagJobs, "jobs", 0, "documents processed concurrently (default: number of CPUs)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveInputs merges CLI arguments with manifest defaults; explicit
// arguments win.
func resolveInputs(cmd *cobra.Command, args []string) ([]string, project.Manifest, error) {
	manifest, _, err := project.LoadNearest(".")
	if err != nil {
		return nil, project.Manifest{}, err
	}
	inputs := args
	if len(inputs) == 0 {
		inputs = manifest.Inputs
	}
	if len(inputs) == 0 {
		return nil, manifest, fmt.Errorf("no inputs: pass document paths or declare them in %s", project.ManifestName)
	}
	return inputs, manifest, nil
}

// runPipeline executes one generation or check run and returns the process
// exit code.
func runPipeline(cmd *cobra.Command, args []string, targets []string, checkOnly bool) int {
	inputs, manifest, err := resolveInputs(cmd, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
		return 1
	}

	out := flagOut
	if out == "" && !cmd.Flags().Changed("out") {
		out = manifest.Out
	}
	if len(targets) == 0 {
		targets = manifest.Targets
	}
	jobs := flagJobs
	if jobs == 0 {
		jobs = manifest.Jobs
	}

	o, err := orchestrator.New(orchestrator.WithJobs(jobs))
	if err != nil {
		fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
		return 1
	}

	req := orchestrator.Request{
		Inputs:  inputs,
		Targets: targets,
		OutDir:  out,
		DryRun:  flagDryRun,
	}

	spinner := console.NewSpinner(spinnerMessage(checkOnly))
	spinner.Start()
	var result orchestrator.Result
	if checkOnly {
		result, err = o.Check(context.Background(), req)
	} else {
		result, err = o.Generate(context.Background(), req)
	}
	spinner.Stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
		return 1
	}

	printDiagnostics(result.Diagnostics)
	if !result.Ok() {
		return 1
	}

	if checkOnly {
		fmt.Println(console.FormatSuccessMessage(fmt.Sprintf("%d document(s) checked", len(inputs))))
		return 0
	}
	for _, file := range result.Files {
		if flagDryRun {
			fmt.Println(console.FormatInfoMessage("would write " + file.Path))
		} else {
			fmt.Println(console.FormatSuccessMessage("wrote " + file.Path))
		}
	}
	return 0
}

func spinnerMessage(checkOnly bool) string {
	if checkOnly {
		return "Checking errorset documents..."
	}
	return "Generating error types..."
}

// printDiagnostics renders every diagnostic with source context where the
// referenced file is readable.
func printDiagnostics(list diag.List) {
	sources := make(map[string][]byte)
	for _, d := range list {
		var source []byte
		if d.Pos.File != "" {
			cached, ok := sources[d.Pos.File]
			if !ok {
				cached, _ = os.ReadFile(d.Pos.File)
				sources[d.Pos.File] = cached
			}
			source = cached
		}
		fmt.Fprint(os.Stderr, console.FormatDiagnostic(d, source))
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
	os.Exit(1)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
		os.Exit(1)
	}
}
