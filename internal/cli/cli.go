// Package cli parses command-line arguments for the sosi command, merges
// them over the optional configuration file and maps failures to exit codes.
package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/BiteMyBucket/sosi/internal/config"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns the resolved Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*config.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("sosi", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
sosi - read SOSI geodata files.

Usage:
  sosi [options] FILE...

Arguments:
  FILE
    Path to a .sos file, or zip:///path/to/archive.zip!entry.sos.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to an HCL configuration file.")
	formatFlag := flagSet.String("format", config.FormatSummary, "Output format. Options: 'summary', 'geojson' or 'wkt'.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	objectTypeFlag := flagSet.String("object-type", "", "Comma-separated OBJTYPE values to keep.")
	skipUnknownFlag := flagSet.Bool("skip-unknown", false, "Drop groups with unrecognized keywords.")
	validateFlag := flagSet.Bool("validate", false, "Validate geometry and report failures as warnings.")
	workersFlag := flagSet.Int("workers", 0, "Number of files read concurrently. 0 uses one per CPU.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() == 0 {
		slog.Debug("No input files provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	cfg := config.Default()
	if *configFlag != "" {
		file, err := config.Load(*configFlag)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		cfg.Apply(file)
	}

	// Explicit flags win over the file.
	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "format":
			cfg.Format = strings.ToLower(*formatFlag)
		case "log-format":
			cfg.LogFormat = strings.ToLower(*logFormatFlag)
		case "log-level":
			cfg.LogLevel = strings.ToLower(*logLevelFlag)
		case "object-type":
			cfg.ObjectTypes = splitList(*objectTypeFlag)
		case "skip-unknown":
			cfg.SkipUnknown = *skipUnknownFlag
		case "validate":
			cfg.ValidateGeometry = *validateFlag
		case "workers":
			cfg.Workers = *workersFlag
		}
	})
	cfg.Paths = flagSet.Args()

	if err := cfg.Validate(); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", cfg)
	return cfg, false, nil
}

// splitList splits a comma-separated flag value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
