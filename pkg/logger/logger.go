package logx

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Level        string `default:"info"`
	Debug        bool   `split_words:"true" default:"false"`
	PrettyFormat bool   `split_words:"true" default:"false"`
	Service      string `default:"persona-agent"`
}

var DefaultConfig = &Config{
	Level:   "info",
	Service: "persona-agent",
}

func safe(opts ...Config) *Config {
	if len(opts) == 0 {
		return DefaultConfig
	}
	return &opts[0]
}

// level resolves LOG_LEVEL, with LOG_DEBUG forcing debug.
func (c Config) level() zerolog.Level {
	if c.Debug {
		return zerolog.DebugLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(c.Level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// New builds a logger writing to w. Stdout is left to the chat REPL and the
// prompt command, so Init points this at stderr.
func New(w io.Writer, conf Config) zerolog.Logger {
	if conf.PrettyFormat {
		out := w
		w = zerolog.NewConsoleWriter(func(cw *zerolog.ConsoleWriter) {
			cw.Out = out
		})
	}

	ctx := zerolog.New(w).Level(conf.level()).With().Timestamp()
	if s := strings.TrimSpace(conf.Service); s != "" {
		ctx = ctx.Str("service", s)
	}
	return ctx.Caller().Logger()
}

func Init(opts ...Config) {
	log.Logger = New(os.Stderr, *safe(opts...))
}
