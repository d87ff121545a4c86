package app

import "errors"

// DefaultOutputPath is where the database lands unless -o says otherwise.
const DefaultOutputPath = "compile_commands.json"

// Config holds everything an App instance needs to run.
type Config struct {
	ProjectPath  string // single project description
	SolutionPath string // solution manifest; mutually exclusive with ProjectPath
	ConfigPath   string // optional HCL run configuration
	OutputPath   string // database destination; "-" writes to stdout
	Properties   []string

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and fills defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ProjectPath == "" && cfg.SolutionPath == "" {
		return nil, errors.New("either a project or a solution path is required")
	}
	if cfg.ProjectPath != "" && cfg.SolutionPath != "" {
		return nil, errors.New("project and solution paths are mutually exclusive")
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = DefaultOutputPath
	}
	return &cfg, nil
}
