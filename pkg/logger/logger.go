// Package logger owns the process-wide zerolog logger for the console
// gateway. Call Init once during startup; components that cannot be handed
// a logger explicitly may fall back to Get.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options selects the output shape of the shared logger.
type Options struct {
	// Level names the minimum level: trace, debug, info, warn or error.
	// Anything else falls back to info.
	Level string
	// Pretty switches from JSON lines to a colourised console writer.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
}

var (
	shared zerolog.Logger
	setup  sync.Once
	ready  bool
)

// Init builds the shared logger. Subsequent calls return the logger from the
// first call unchanged.
func Init(opts Options) zerolog.Logger {
	setup.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano

		out := opts.Output
		if out == nil {
			out = os.Stdout
		}
		if opts.Pretty {
			out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		}

		level := levelFor(opts.Level)
		zerolog.SetGlobalLevel(level)

		shared = zerolog.New(out).
			Level(level).
			With().
			Timestamp().
			Caller().
			Logger()
		ready = true
	})
	return shared
}

// Get returns the shared logger and panics when Init has not run yet. The
// panic is deliberate: logging before startup wiring is a programming error.
func Get() zerolog.Logger {
	if !ready {
		panic("logger: Get called before Init")
	}
	return shared
}

// Reset discards the shared logger so the next Init rebuilds it. Test use only.
func Reset() {
	setup = sync.Once{}
	shared = zerolog.Logger{}
	ready = false
}

func levelFor(name string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
