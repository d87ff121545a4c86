package app

import (
	"io"
	"log/slog"

	"github.com/vk/vcdb/internal/fsutil"
	"github.com/vk/vcdb/internal/metadata"
	"github.com/vk/vcdb/internal/project"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle. Logs go to logW; the database goes to outW when the output path
// is "-", otherwise to the configured file.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	config  *Config
	fs      fsutil.FS
	builder *project.Builder
}

// NewApp returns a fully initialized App with its own isolated logger. The
// file system capability is injectable so tests can pin timestamps.
func NewApp(outW, logW io.Writer, config *Config, fs fsutil.FS) *App {
	logger := newLogger(config.LogLevel, config.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:    outW,
		logger:  logger,
		config:  config,
		fs:      fs,
		builder: project.NewBuilder(metadata.NewProvider(fs)),
	}
}
