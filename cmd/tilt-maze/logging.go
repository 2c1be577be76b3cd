package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	logDir      = "logs"
	logFileName = "tilt-maze.log"
	maxLogSize  = 10 * 1024 * 1024 // 10MB
)

// setupLogging returns a file-backed logger when debug is set, a no-op logger otherwise.
// The terminal owns stdout and stderr while the game runs, so nothing is written there.
func setupLogging(debug bool) (*zap.Logger, func(), error) {
	if !debug {
		log.SetOutput(io.Discard)
		return zap.NewNop(), func() {}, nil
	}

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}

	logPath := filepath.Join(logDir, logFileName)
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		rotated := filepath.Join(logDir, fmt.Sprintf("tilt-maze-%s.log", time.Now().Format("20060102-150405")))
		if err := os.Rename(logPath, rotated); err != nil {
			return nil, nil, fmt.Errorf("rotate log: %w", err)
		}
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(file), zap.DebugLevel)
	logger := zap.New(core, zap.AddCaller())

	// Stray stdlib log calls land in the same file
	restore := zap.RedirectStdLog(logger)

	cleanup := func() {
		_ = logger.Sync()
		restore()
		file.Close()
	}
	return logger, cleanup, nil
}
