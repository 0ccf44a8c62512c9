package log

import (
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	logger     *logrus.Logger
	loggerOnce sync.Once
)

// get lazily initializes the shared logger writing to stderr.
func get() *logrus.Logger {
	loggerOnce.Do(func() {
		logger = logrus.New()
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
		logger.SetLevel(logrus.InfoLevel)
	})
	return logger
}

// SetDebug toggles debug-level output for the whole process.
func SetDebug(debug bool) {
	if debug {
		get().SetLevel(logrus.DebugLevel)
		return
	}
	get().SetLevel(logrus.InfoLevel)
}

func Debug(msg string, kv ...any) {
	get().WithFields(fields(kv...)).Debug(msg)
}

func Info(msg string, kv ...any) {
	get().WithFields(fields(kv...)).Info(msg)
}

func Error(msg string, err error, kv ...any) {
	get().WithFields(fields(kv...)).WithError(err).Error(msg)
}

// fields converts a flat key-value list into logrus fields.
// Keys must be strings; a trailing key without a value is ignored.
func fields(kv ...any) logrus.Fields {
	f := make(logrus.Fields, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		f[key] = kv[i+1]
	}
	return f
}
