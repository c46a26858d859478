package spe

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Direction tells an Observer which way a line travelled.
type Direction int

const (
	DirectionOut Direction = iota
	DirectionIn
)

func (d Direction) String() string {
	if d == DirectionIn {
		return "in"
	}
	return "out"
}

// Observer is called by the engine with every command it sends and every
// reply line it receives. It runs on the calling goroutine and must not
// block.
type Observer func(dir Direction, line string)

// LogObserver traces the wire traffic at debug level.
func LogObserver(logger logrus.FieldLogger) Observer {
	return func(dir Direction, line string) {
		logger.WithField("dir", dir.String()).Debugf("%s: %s", dir, line)
	}
}

// LogConfig selects the logger level, format and destination.
type LogConfig struct {
	Level  string `yaml:"level"`  // logrus level name, or off/none
	Format string `yaml:"format"` // text or json
	Output string `yaml:"output"` // stdout, stderr or file
	File   string `yaml:"file_path"`
}

// NewLogger builds a logrus logger from cfg. An unknown level falls back to
// info; a file that cannot be opened falls back to stderr.
func NewLogger(cfg LogConfig) *logrus.Logger {
	logger := logrus.New()

	if cfg.Level == "off" || cfg.Level == "none" {
		logger.SetOutput(io.Discard)
		return logger
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	switch cfg.Output {
	case "stdout":
		logger.SetOutput(os.Stdout)
	case "file":
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			logger.Warnf("open log file %q: %v, using stderr", cfg.File, err)
			break
		}
		logger.SetOutput(f)
	default:
		logger.SetOutput(os.Stderr)
	}

	return logger
}
