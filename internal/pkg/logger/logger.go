// Package logger provides structured JSON logging on top of logrus with
// optional PII redaction of email addresses.
package logger

import (
	"os"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options configures a logger.
type Options struct {
	Level     string
	RedactPII bool
}

var defaultLogger = New(Options{Level: "info", RedactPII: true})

// New builds a JSON logger writing to stderr.
func New(opts Options) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "time",
			logrus.FieldKeyMsg:  "msg",
		},
	})

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if opts.RedactPII {
		l.AddHook(RedactHook{})
	}
	return l
}

// Default returns the process-wide logger.
func Default() *logrus.Logger { return defaultLogger }

// SetDefault replaces the process-wide logger.
func SetDefault(l *logrus.Logger) {
	if l != nil {
		defaultLogger = l
	}
}

// OrDefault returns l, or the process-wide logger when l is nil.
func OrDefault(l logrus.FieldLogger) logrus.FieldLogger {
	if l == nil {
		return defaultLogger
	}
	return l
}

// Debug emits a DEBUG-level entry with key/value pairs.
func Debug(msg string, fields ...interface{}) { defaultLogger.WithFields(kv(fields)).Debug(msg) }

// Info emits an INFO-level entry with key/value pairs.
func Info(msg string, fields ...interface{}) { defaultLogger.WithFields(kv(fields)).Info(msg) }

// Warn emits a WARN-level entry with key/value pairs.
func Warn(msg string, fields ...interface{}) { defaultLogger.WithFields(kv(fields)).Warn(msg) }

// Error emits an ERROR-level entry with key/value pairs.
func Error(msg string, fields ...interface{}) { defaultLogger.WithFields(kv(fields)).Error(msg) }

func kv(fields []interface{}) logrus.Fields {
	out := logrus.Fields{}
	for i := 0; i < len(fields)-1; i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		out[key] = fields[i+1]
	}
	return out
}

// RedactHook masks email addresses in log fields and messages.
type RedactHook struct{}

// Levels implements logrus.Hook.
func (RedactHook) Levels() []logrus.Level { return logrus.AllLevels }

// Fire implements logrus.Hook.
func (RedactHook) Fire(e *logrus.Entry) error {
	for key, val := range e.Data {
		s, ok := val.(string)
		if !ok {
			continue
		}
		e.Data[key] = redactPIIValue(key, s)
	}
	e.Message = emailRegex.ReplaceAllStringFunc(e.Message, RedactEmail)
	return nil
}

var emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

func redactPIIValue(key, val string) string {
	key = strings.ToLower(key)
	if strings.Contains(key, "email") || strings.Contains(key, "subscriber") {
		return RedactEmail(val)
	}
	return emailRegex.ReplaceAllStringFunc(val, RedactEmail)
}
