package logger

import "go.uber.org/zap"

var l *zap.Logger = zap.NewNop()

// Init builds the global logger. Development mode uses the console encoder.
func Init(isDev bool) error {
	var (
		log *zap.Logger
		err error
	)
	if isDev {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}
	l = log
	return nil
}

// L returns the global logger. Safe to call before Init (no-op logger).
func L() *zap.Logger { return l }

// Sync flushes buffered log entries.
func Sync() {
	_ = l.Sync()
}
