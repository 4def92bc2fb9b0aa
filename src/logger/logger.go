// Package logger wraps a zap logger so that the rest of sigsub can log without passing one around.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var zapLog = zap.NewNop()

// InitLogger builds the package logger at the given level, writing to stderr and any extra paths
func InitLogger(level zapcore.Level, paths ...string) error {
	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.OutputPaths = append([]string{"stderr"}, paths...)

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("Jan _2 15:04:05.000")
	encoderConfig.StacktraceKey = "" // to hide stacktrace info
	config.EncoderConfig = encoderConfig

	l, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	zapLog = l
	return nil
}

func Info(message string, fields ...zap.Field) {
	zapLog.Info(message, fields...)
}

func Warn(message string, fields ...zap.Field) {
	zapLog.Warn(message, fields...)
}

func Debug(message string, fields ...zap.Field) {
	zapLog.Debug(message, fields...)
}

func Error(message string, fields ...zap.Field) {
	zapLog.Error(message, fields...)
}

// Sync flushes any buffered log entries
func Sync() error {
	return zapLog.Sync()
}
