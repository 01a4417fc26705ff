// Package logging configures the zerolog loggers used by the CLI, the
// journal stores and the C library.
//
// Output goes to the provided console writer and, when a file path is
// configured, to a size-rotated file as JSON lines.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Format selects the console encoding.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config holds logger settings read from FREECIV_NOSTR_LOG_* variables.
type Config struct {
	Level      string `env:"LOG_LEVEL" envDefault:"info"`
	Format     string `env:"LOG_FORMAT" envDefault:"console"`
	FilePath   string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"10"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"5"`
	MaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"30"`
	Compress   bool   `env:"LOG_COMPRESS" envDefault:"true"`
}

// New builds a logger writing to out (and the rotated file, if configured).
// An unparseable level falls back to info.
func New(cfg Config, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var writers []io.Writer
	if out != nil {
		if strings.EqualFold(strings.TrimSpace(cfg.Format), FormatJSON) {
			writers = append(writers, out)
		} else {
			writers = append(writers, consoleWriter(out))
		}
	}
	if path := strings.TrimSpace(cfg.FilePath); path != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   path,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		})
	}

	var output io.Writer
	switch len(writers) {
	case 0:
		return zerolog.Nop()
	case 1:
		output = writers[0]
	default:
		output = zerolog.MultiLevelWriter(writers...)
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// Component returns a child logger tagged with the component name.
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}

func consoleWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.TimeOnly,
		PartsOrder: []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			"component",
			zerolog.MessageFieldName,
		},
		FieldsExclude: []string{"component"},
		FormatLevel: func(i any) string {
			return fmt.Sprintf("[ %-5s ]", strings.ToUpper(fmt.Sprint(i)))
		},
	}
}
