// Package logging builds the logrus logger shared by engine components.
package logging

import (
	"io"
	"net"
	"os"

	"lamx12/nutri-plan/internal/config"

	logrustash "github.com/bshuster-repo/logrus-logstash-hook"
	"github.com/elastic/go-elasticsearch/v7"
	"github.com/sirupsen/logrus"
	"gopkg.in/go-extras/elogrus.v7"
)

const appName = "nutriai-engine"

// New creates a logger from the log section of the configuration.
// Hook failures are reported on the logger itself and never abort startup.
func New(cfg config.LogConfig) *logrus.Logger {
	logger := logrus.New()
	logger.Out = os.Stdout
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Elk.Enable {
		client, err := elasticsearch.NewClient(elasticsearch.Config{
			Addresses: []string{cfg.Elk.URL},
		})
		if err != nil {
			logger.WithError(err).Warn("elastic client not created")
		} else {
			hook, err := elogrus.NewAsyncElasticHook(client, appName, level, cfg.Elk.Index)
			if err != nil {
				logger.WithError(err).Warn("elastic hook not attached")
			} else {
				logger.Hooks.Add(hook)
			}
		}
	}

	if cfg.Logstash.Enable {
		conn, err := net.Dial("udp", cfg.Logstash.URL)
		if err != nil {
			logger.WithError(err).Warn("logstash hook not attached")
		} else {
			hook := logrustash.New(conn, logrustash.DefaultFormatter(logrus.Fields{"type": appName}))
			logger.Hooks.Add(hook)
		}
	}

	return logger
}

// Discard returns a logger that drops everything. Used by tests and by
// callers that embed the engine without wanting its output.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.Out = io.Discard
	return logger
}

// Component returns an entry tagged with the component name.
func Component(logger *logrus.Logger, name string) *logrus.Entry {
	if logger == nil {
		logger = Discard()
	}
	return logger.WithField("component", name)
}
