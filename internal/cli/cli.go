// Package cli parses command-line arguments into an app.Config.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/vk/vcdb/internal/app"
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

// propertyList collects repeated -p NAME=VALUE flags.
type propertyList []string

func (p *propertyList) String() string {
	return strings.Join(*p, ",")
}

func (p *propertyList) Set(value string) error {
	*p = append(*p, value)
	return nil
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("vcdb", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
vcdb - translate Visual C++ project descriptions into a compile-command database.

Usage:
  vcdb [options] [PROJECT_OR_SOLUTION_PATH]

Arguments:
  PROJECT_OR_SOLUTION_PATH
    Path to a project XML file, or to a .sln solution manifest.

Options:
`)
		flagSet.PrintDefaults()
	}

	projectFlag := flagSet.String("project", "", "Path to a project XML file.")
	solutionFlag := flagSet.String("solution", "", "Path to a solution manifest.")
	configFlag := flagSet.String("config", "", "Path to an HCL run configuration file.")
	outputFlag := flagSet.String("o", "", `Output path for the database. "-" writes to stdout.`)
	var properties propertyList
	flagSet.Var(&properties, "p", "Macro seed override, NAME=VALUE. Repeatable.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	projectPath := *projectFlag
	solutionPath := *solutionFlag
	if projectPath == "" && solutionPath == "" && flagSet.NArg() > 0 {
		// A bare path is a solution when it looks like one.
		if path := flagSet.Arg(0); strings.HasSuffix(strings.ToLower(path), ".sln") {
			solutionPath = path
		} else {
			projectPath = path
		}
	}

	if projectPath == "" && solutionPath == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		ProjectPath:  projectPath,
		SolutionPath: solutionPath,
		ConfigPath:   *configFlag,
		OutputPath:   *outputFlag,
		Properties:   properties,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}
