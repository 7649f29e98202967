package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. InitLogger replaces it; until then it is a
// plain logrus logger so packages can log during tests.
var Log = logrus.New()

// InitLogger configures Log from the logging config and returns it.
func InitLogger(cfg LoggingConfig) *logrus.Logger {
	Log = logrus.New()

	if cfg.Format == "text" {
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		Log.SetFormatter(&logrus.JSONFormatter{})
	}

	Log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
		Log.WithField("level", cfg.Level).Warn("Unknown log level, falling back to info")
	}
	Log.SetLevel(level)

	return Log
}
