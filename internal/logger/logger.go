package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"findit/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log file names, one per level. Served by the /logs handlers.
const (
	InfoFile    = "info.log"
	WarningFile = "warning.log"
	ErrorFile   = "error.log"
)

// Logger provides leveled logging (info/warning/error) to rotated files and stdout/stderr.
type Logger struct {
	zap    *zap.Logger // skips the wrapper frame
	direct *zap.Logger
	sugar  *zap.SugaredLogger
	logDir string
}

// NewLogger creates a Logger and ensures the log directory exists.
func NewLogger(cfg *config.Config) (*Logger, error) {
	if err := os.MkdirAll(cfg.LogDirectory, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	var consoleEncoder zapcore.Encoder
	if cfg.Mode == "release" {
		consoleEncoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		consoleEncoder = zapcore.NewConsoleEncoder(encCfg)
	}
	fileEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())

	core := zapcore.NewTee(
		zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stdout), levelBetween(zapcore.DebugLevel, zapcore.WarnLevel)),
		zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stderr), levelBetween(zapcore.ErrorLevel, zapcore.FatalLevel)),
		zapcore.NewCore(fileEncoder, rotated(cfg.LogDirectory, InfoFile), levelBetween(zapcore.InfoLevel, zapcore.InfoLevel)),
		zapcore.NewCore(fileEncoder, rotated(cfg.LogDirectory, WarningFile), levelBetween(zapcore.WarnLevel, zapcore.WarnLevel)),
		zapcore.NewCore(fileEncoder, rotated(cfg.LogDirectory, ErrorFile), levelBetween(zapcore.ErrorLevel, zapcore.FatalLevel)),
	)

	return newLogger(core, cfg.LogDirectory), nil
}

// NewNop returns a Logger that discards everything.
func NewNop() *Logger {
	return newLogger(zapcore.NewNopCore(), "")
}

func newLogger(core zapcore.Core, logDir string) *Logger {
	z := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	return &Logger{
		zap:    z,
		direct: z.WithOptions(zap.AddCallerSkip(-1)),
		sugar:  z.Sugar(),
		logDir: logDir,
	}
}

func rotated(dir, name string) zapcore.WriteSyncer {
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(dir, name),
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
	})
}

func levelBetween(min, max zapcore.Level) zap.LevelEnablerFunc {
	return func(l zapcore.Level) bool {
		return l >= min && l <= max
	}
}

// Debug writes a formatted debug-level log entry (console only).
func (l *Logger) Debug(format string, v ...interface{}) {
	l.sugar.Debugf(format, v...)
}

// Info writes a formatted info-level log entry.
func (l *Logger) Info(format string, v ...interface{}) {
	l.sugar.Infof(format, v...)
}

// Warning writes a formatted warning-level log entry.
func (l *Logger) Warning(format string, v ...interface{}) {
	l.sugar.Warnf(format, v...)
}

// Error writes a formatted error-level log entry.
func (l *Logger) Error(format string, v ...interface{}) {
	l.sugar.Errorf(format, v...)
}

// Zap exposes the structured logger for callers that log fields.
func (l *Logger) Zap() *zap.Logger {
	return l.direct
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.zap.Sync()
}

// CleanLogs truncates the specified log file.
func (l *Logger) CleanLogs(fileName string) error {
	if l.logDir == "" {
		return nil
	}
	filePath := filepath.Join(l.logDir, filepath.Base(fileName))
	if err := os.Truncate(filePath, 0); err != nil && !os.IsNotExist(err) {
		l.Error("Error truncating %s: %v", fileName, err)
		return err
	}

	l.Info("Log file %s has been cleared.", fileName)
	return nil
}
