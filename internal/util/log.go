package util

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"quaformat/internal/config"
)

var (
	mu      sync.Mutex
	level   = zap.NewAtomicLevelAt(zap.InfoLevel)
	base    zapcore.Core
	logFile *lumberjack.Logger
	logger  = zap.NewNop().Sugar()
)

// InitLogger builds the process logger from cfg. Until it is called every
// log call is discarded.
func InitLogger(cfg config.LoggerConfig) error {
	mu.Lock()
	defer mu.Unlock()

	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level.SetLevel(zap.InfoLevel)
	}
	var ws zapcore.WriteSyncer
	switch cfg.Mode {
	case "file":
		if cfg.File.Path == "" {
			return fmt.Errorf("logger: file mode needs a path")
		}
		ws = zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File.Path,
			MaxSize:    cfg.File.MaxSize,
			MaxBackups: cfg.File.MaxBackups,
			MaxAge:     cfg.File.MaxAge,
			Compress:   cfg.File.Compress,
		})
	default:
		ws = zapcore.AddSync(os.Stdout)
	}
	base = zapcore.NewCore(encoder(cfg.Encoding), ws, level)
	rebuild()
	return nil
}

func encoder(encoding string) zapcore.Encoder {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	if encoding == "console" {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(encCfg)
	}
	return zapcore.NewJSONEncoder(encCfg)
}

// rebuild must be called with mu held.
func rebuild() {
	cores := []zapcore.Core{}
	if base != nil {
		cores = append(cores, base)
	}
	if logFile != nil {
		// run logs are always JSON
		cores = append(cores, zapcore.NewCore(encoder("json"), zapcore.AddSync(logFile), level))
	}
	if len(cores) == 0 {
		logger = zap.NewNop().Sugar()
		return
	}
	logger = zap.New(zapcore.NewTee(cores...)).Sugar()
}

// SetLogFile additionally appends every log entry to path.
func SetLogFile(path string) error {
	mu.Lock()
	defer mu.Unlock()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	f.Close()
	if logFile != nil {
		logFile.Close()
	}
	logFile = &lumberjack.Logger{Filename: path}
	rebuild()
	return nil
}

func CloseLogFile() {
	mu.Lock()
	defer mu.Unlock()

	_ = logger.Sync()
	if logFile != nil {
		logFile.Close()
		logFile = nil
		rebuild()
	}
}

func current() *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

func Debug(msg string, args ...interface{}) {
	current().Debug(fmt.Sprintf(msg, args...))
}

func Info(msg string, args ...interface{}) {
	current().Info(fmt.Sprintf(msg, args...))
}

func Success(msg string, args ...interface{}) {
	current().Infow(fmt.Sprintf(msg, args...), "status", "done")
}

func Fail(msg string, args ...interface{}) {
	current().Errorw(fmt.Sprintf(msg, args...), "status", "fail")
}

// Sync flushes buffered entries.
func Sync() {
	_ = current().Sync()
}
