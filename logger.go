package wad

import "go.uber.org/zap"

var logger = zap.NewNop()

// SetLogger replaces the package logger. A nil logger silences output.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}
