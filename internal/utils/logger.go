package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RunLogger writes one job run's log to stdout and to
// <dir>/<job>/<job>_<timestamp>.log.
type RunLogger struct {
	file   *os.File
	logger *zap.SugaredLogger
	Path   string
}

func NewRunLogger(dir, jobName string) (*RunLogger, error) {
	// Sanitize job name for file system
	sanitized := strings.ReplaceAll(strings.ToLower(jobName), " ", "_")

	jobDir := filepath.Join(dir, sanitized)
	if err := os.MkdirAll(jobDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logPath := filepath.Join(jobDir, fmt.Sprintf("%s_%s.log", sanitized, timestamp))

	file, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout), zapcore.AddSync(file)),
		zapcore.DebugLevel,
	)

	return &RunLogger{
		file:   file,
		logger: zap.New(core).Named(sanitized).Sugar(),
		Path:   logPath,
	}, nil
}

func (rl *RunLogger) LogInfo(format string, v ...interface{}) {
	rl.logger.Infof(format, v...)
}

func (rl *RunLogger) LogError(format string, v ...interface{}) {
	rl.logger.Errorf(format, v...)
}

func (rl *RunLogger) LogDebug(format string, v ...interface{}) {
	rl.logger.Debugf(format, v...)
}

func (rl *RunLogger) Close() error {
	_ = rl.logger.Sync()
	return rl.file.Close()
}

// NewLogger builds the process logger. level is "debug", "info", "warn"
// or "error"; anything else means info.
func NewLogger(level string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}
	config.Level = zap.NewAtomicLevelAt(lvl)
	if lvl == zapcore.DebugLevel {
		config.Development = true
	}
	return config.Build()
}
