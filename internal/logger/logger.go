package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
)

var (
	ErrLoggerInvalidLogLevel  = fmt.Errorf("invalid log level")
	ErrLoggerInvalidLogFormat = fmt.Errorf("invalid log format")
)

type options struct {
	writer io.Writer
}

type Option func(*options)

// WithWriter redirects log output. Defaults to stdout.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		o.writer = w
	}
}

func NewLogger(logLevel, logFormat string, opts ...Option) (*slog.Logger, error) {
	o := &options{writer: os.Stdout}
	for _, opt := range opts {
		opt(o)
	}

	slogLevel, err := getSlogLevel(logLevel)
	if err != nil {
		return nil, err
	}

	switch logFormat {
	case "json":
		return slog.New(slog.NewJSONHandler(o.writer, &slog.HandlerOptions{Level: slogLevel})), nil
	case "text":
		return slog.New(slog.NewTextHandler(o.writer, &slog.HandlerOptions{Level: slogLevel})), nil
	case "tint":
		return slog.New(tint.NewHandler(o.writer, &tint.Options{Level: slogLevel})), nil
	}

	return nil, errors.Join(ErrLoggerInvalidLogFormat, fmt.Errorf("log format: %s", logFormat))
}

func getSlogLevel(logLevel string) (slog.Level, error) {
	switch strings.ToUpper(logLevel) {
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	case "DEBUG":
		return slog.LevelDebug, nil
	}

	return slog.LevelInfo, errors.Join(ErrLoggerInvalidLogLevel, fmt.Errorf("log level: %s", logLevel))
}
