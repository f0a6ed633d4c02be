// Package logging provides logger bindings for a mindi container.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"

	"github.com/djosix/mindi"
)

// Config controls the logger binding.
type Config struct {
	// Level is the minimum level to log.
	Level slog.Level
	// JSON switches from human-readable terminal output to JSON.
	JSON bool
	// Output defaults to os.Stdout.
	Output io.Writer
}

// New builds a logger for the given config: a tinted terminal handler by
// default, a JSON handler when requested.
func New(config Config) *slog.Logger {
	out := config.Output
	if out == nil {
		out = os.Stdout
	}
	var handler slog.Handler
	if config.JSON {
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{
			Level: config.Level,
		})
	} else {
		handler = tint.NewHandler(out, &tint.Options{
			Level:      config.Level,
			TimeFormat: "15:04:05",
		})
	}
	return slog.New(handler)
}

// Register binds *slog.Logger into c, constructed from an injected
// [Config]. If no Config is bound yet, an info-level terminal default is
// bound alongside it.
func Register(c *mindi.Container) error {
	if !c.Bound(mindi.For[Config]()) {
		err := c.Bind(mindi.For[Config](),
			mindi.WithProvider(mindi.Value(Config{Level: slog.LevelInfo})))
		if err != nil {
			return err
		}
	}
	return c.Bind(mindi.For[*slog.Logger](),
		mindi.WithProvider(New),
		mindi.WithParams(mindi.Inject("config", mindi.For[Config]())),
	)
}
