package applog

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger wraps a logrus entry behind the teacher's structured-field idiom.
type Logger struct {
	entry *logrus.Entry
}

// Config configures a new Logger.
type Config struct {
	// Level is the minimum level to output; defaults to logrus.InfoLevel.
	Level logrus.Level
	// Output is where logs are written; defaults to os.Stderr.
	Output io.Writer
	// Component is the initial "component" field, equivalent to the
	// teacher's Prefix.
	Component string
}

// DefaultConfig returns the default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:     logrus.InfoLevel,
		Output:    os.Stderr,
		Component: "docsync",
	}
}

// New creates a Logger from cfg.
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	base := logrus.New()
	base.SetOutput(cfg.Output)
	base.SetLevel(cfg.Level)
	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	entry := logrus.NewEntry(base)
	if cfg.Component != "" {
		entry = entry.WithField("component", cfg.Component)
	}
	return &Logger{entry: entry}
}

// WithField returns a new Logger with key=value added to every message.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{entry: l.entry.WithField(key, value)}
}

// WithFields returns a new Logger with fields merged in.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	return &Logger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

// WithComponent returns a new Logger with the component field set.
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithField("component", component)
}

func (l *Logger) Debug(msg string, args ...any) { l.entry.Debugf(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.entry.Infof(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.entry.Warnf(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.entry.Errorf(msg, args...) }

var (
	defaultLogger     *Logger
	defaultLoggerOnce sync.Once
)

// Default returns the process-wide default logger, constructed once on
// first call.
func Default() *Logger {
	defaultLoggerOnce.Do(func() {
		defaultLogger = New(DefaultConfig())
	})
	return defaultLogger
}

// SetDefault replaces the process-wide default logger.
func SetDefault(l *Logger) {
	defaultLoggerOnce.Do(func() {})
	defaultLogger = l
}
