package context

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

const loggerKey = "logger"

// Logger provides a leveled-logging interface, satisfied by the
// logrus.Entry this package attaches to a Context.
type Logger interface {
	Print(args ...interface{})
	Printf(format string, args ...interface{})
	Println(args ...interface{})

	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
	Fatalln(args ...interface{})

	Panic(args ...interface{})
	Panicf(format string, args ...interface{})
	Panicln(args ...interface{})

	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Debugln(args ...interface{})

	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Errorln(args ...interface{})

	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Infoln(args ...interface{})

	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Warnln(args ...interface{})
}

// WithLogger attaches logger to ctx under the well-known logger key.
func WithLogger(ctx Context, logger Logger) Context {
	return WithValue(ctx, loggerKey, logger)
}

// GetLoggerWithField returns a logger with key/value added, without
// affecting ctx. Extra keys are resolved from ctx and included too.
func GetLoggerWithField(ctx Context, key, value interface{}, keys ...interface{}) Logger {
	return &entry{getLogrusLogger(ctx, keys...).WithField(fmt.Sprint(key), value)}
}

// GetLoggerWithFields is GetLoggerWithField for several fields at
// once.
func GetLoggerWithFields(ctx Context, fields map[string]interface{}, keys ...interface{}) Logger {
	return &entry{getLogrusLogger(ctx, keys...).WithFields(logrus.Fields(fields))}
}

// GetLogger returns the logger attached to ctx, or the standard
// logrus logger if none was attached. If keys are given, each is
// resolved on ctx and included as a field.
func GetLogger(ctx Context, keys ...interface{}) Logger {
	return &entry{getLogrusLogger(ctx, keys...)}
}

func getLogrusLogger(ctx Context, keys ...interface{}) *logrus.Entry {
	var logger *logrus.Entry

	if loggerInterface := ctx.Value(loggerKey); loggerInterface != nil {
		if e, ok := loggerInterface.(*entry); ok {
			logger = e.Entry
		} else if le, ok := loggerInterface.(*logrus.Entry); ok {
			logger = le
		}
	}

	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	for _, key := range keys {
		if v := ctx.Value(key); v != nil {
			logger = logger.WithField(fmt.Sprint(key), v)
		}
	}

	return logger
}

// entry adapts a *logrus.Entry to Logger.
type entry struct {
	*logrus.Entry
}

var _ Logger = &entry{}
