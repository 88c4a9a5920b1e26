// Package logging is the structured logging facade used by the ingestion
// pipeline, the query engine and the CLI. Components receive a Logger through
// their constructors; only the adapter in this package touches logrus.
package logging

import "sync"

// Logger is the logging surface components depend on. The With* methods
// return a derived logger and leave the receiver untouched.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	WithError(err error) Logger
	WithField(key string, value interface{}) Logger
	WithFields(fields ...Field) Logger
}

// Field is one structured key/value pair. Keys should come from the Field*
// constants so log lines stay greppable across components.
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

var (
	fallbackOnce   sync.Once
	fallbackLogger Logger
)

// GetLogger returns a process-wide info/text logger for code paths that run
// before a container exists.
func GetLogger() Logger {
	fallbackOnce.Do(func() {
		fallbackLogger = NewLogrusAdapter("info", "text")
	})
	return fallbackLogger
}
