package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"jarvis-core/internal/config"
)

// NewLogger builds the process logger from settings. Without a log
// directory it is a plain production (or development, in debug mode) zap
// logger; with one, JSON output goes to both stdout and a size/age-rotated
// file honoring the configured retention.
func NewLogger(settings config.Settings) (*zap.Logger, error) {
	if settings.LogDir == "" {
		if settings.Debug {
			return zap.NewDevelopment()
		}
		return zap.NewProduction()
	}

	level, err := zapcore.ParseLevel(settings.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	rotated := &lumberjack.Logger{
		Filename:   filepath.Join(settings.LogDir, "jarvis-core.log"),
		MaxSize:    100, // megabytes
		MaxBackups: 5,
		MaxAge:     settings.LogRetentionDays,
		Compress:   true,
	}

	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	core := zapcore.NewTee(
		zapcore.NewCore(encoder, zapcore.AddSync(rotated), level),
		zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level),
	)
	return zap.New(core), nil
}
