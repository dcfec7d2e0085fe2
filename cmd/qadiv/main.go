package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/urfave/cli/v2"
)

// UI contains the output streams for the application.
// Used for injecting buffers during testing.
type UI struct {
	Out io.Writer
	Err io.Writer
}

// errUsage is returned when the command line misses a required argument.
// The usage has already been printed.
var errUsage = errors.New("missing argument")

func main() {
	ui := UI{Out: os.Stdout, Err: os.Stderr}

	// Ctrl+C stops the run and reports the items finished so far
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newApp(ui).RunContext(ctx, os.Args)
	stop()

	if err != nil {
		if !errors.Is(err, errUsage) {
			fprintErr(ui.Err, err)
		}
		os.Exit(1)
	}
}

func fprintErr(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "qadiv: %v\n", err)
}

func newApp(ui UI) *cli.App {
	return &cli.App{
		Name:      "qadiv",
		Usage:     "syntactic divergence and lexical variation of a SQuAD-style QA dataset",
		UsageText: "qadiv [global options] <dataset.json>\n   qadiv command [command options] [arguments...]",
		Version:   fmt.Sprintf("%s (commit: %s)", BuildTag, BuildCommit),
		Writer:    ui.Out,
		ErrWriter: ui.Err,
		// errors are printed once, by main
		ExitErrHandler:  func(*cli.Context, error) {},
		HideHelpCommand: true,
		Flags:           append(append(globalFlags(), commonFlags()...), analyzeFlags()...),
		Before: func(c *cli.Context) error {
			return setupLogging(ui.Err, c.String("log-level"))
		},
		Action: func(c *cli.Context) error {
			return runAnalyze(c, ui, "")
		},
		Commands: []*cli.Command{
			{
				Name:      "analyze",
				Usage:     "Compute the divergences of a SQuAD dataset",
				ArgsUsage: "<dataset.json>",
				Flags:     append(commonFlags(), analyzeFlags()...),
				Action: func(c *cli.Context) error {
					return runAnalyze(c, ui, "analyze")
				},
			},
			{
				Name:      "import",
				Usage:     "Import the parses of a CoNLL-U file into a parse cache",
				ArgsUsage: "<file.conllu>",
				Flags:     importFlags(),
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return usage(ui, "import", "<file.conllu>")
					}
					return importCommand(c.Context, importOptions(c), ui)
				},
			},
			{
				Name:      "convert",
				Usage:     "Convert a PIAF annotation export to a SQuAD dataset",
				ArgsUsage: "<piaf.json>",
				Flags:     convertFlags(),
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return usage(ui, "convert", "<piaf.json>")
					}
					return convertCommand(convertOptions(c), ui)
				},
			},
			{
				Name:      "triples",
				Usage:     "Print the question, answer sentence and span triples of a dataset as TSV",
				ArgsUsage: "<dataset.json>",
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return usage(ui, "triples", "<dataset.json>")
					}
					return triplesCommand(c.Args().First(), ui)
				},
			},
			{
				Name:      "inspect",
				Usage:     "Inspect the divergence of single pairs, interactively or with --question",
				ArgsUsage: "[dataset.json]",
				Flags:     append(commonFlags(), inspectFlags()...),
				Action: func(c *cli.Context) error {
					return inspectCommand(c.Context, inspectOptions(c), ui)
				},
			},
			{
				Name:  "version",
				Usage: "Print the version",
				Action: func(c *cli.Context) error {
					return versionCommand(ui)
				},
			},
		},
	}
}

func runAnalyze(c *cli.Context, ui UI, cmd string) error {
	if c.NArg() < 1 {
		return usage(ui, cmd, "<dataset.json>")
	}
	return analyzeCommand(c.Context, analyzeOptions(c), ui)
}

// usage prints the usage line of the command on the error stream.
func usage(ui UI, cmd, args string) error {
	name := "qadiv"
	if cmd != "" {
		name += " " + cmd
	}
	_, _ = fmt.Fprintf(ui.Err, "Usage: %s [options] %s\n", name, args)
	_, _ = fmt.Fprintf(ui.Err, "Run '%s --help' for the options.\n", name)
	return errUsage
}
