package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mahakarkout/AttentionTest/internal/config"
)

// Init initializes and returns a new zap logger. Every level gets its own
// rotating JSON file under cfg.Directory; the console core writes to
// stderr so it does not interleave with the test display on stdout.
func Init(cfg config.LoggingConfig) (*zap.Logger, error) {
	return New(cfg, os.Stderr)
}

// New is Init with an explicit console writer.
func New(cfg config.LoggingConfig, console io.Writer) (*zap.Logger, error) {
	consoleLevel, err := zapcore.ParseLevel(cfg.ConsoleLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid console log level %q: %w", cfg.ConsoleLevel, err)
	}

	cores := []zapcore.Core{newConsoleCore(console, consoleLevel)}

	// An empty directory disables file logging.
	if cfg.Directory != "" {
		// Base encoder configuration for file logs (JSON format)
		encoderConfig := zapcore.EncoderConfig{
			MessageKey:   "message",
			LevelKey:     "level",
			TimeKey:      "time",
			CallerKey:    "caller",
			EncodeLevel:  zapcore.CapitalLevelEncoder,
			EncodeTime:   zapcore.ISO8601TimeEncoder,
			EncodeCaller: zapcore.ShortCallerEncoder,
		}

		if err := os.MkdirAll(cfg.Directory, 0755); err != nil {
			return nil, fmt.Errorf("could not create log directory: %w", err)
		}

		for _, level := range []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel} {
			cores = append(cores, newFileCore(cfg, level, encoderConfig))
		}
	}

	// A log entry is sent to every core and each decides whether to write it.
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

// newFileCore creates a core that writes a specific log level to a rotating file.
func newFileCore(cfg config.LoggingConfig, level zapcore.Level, encoderConfig zapcore.EncoderConfig) zapcore.Core {
	// One file per level, named like '2025-07-30-info.log'
	fileName := filepath.Join(cfg.Directory, fmt.Sprintf("%s-%s.log", time.Now().Format("2006-01-02"), level.String()))

	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   fileName,
		MaxSize:    cfg.MaxSize, // megabytes
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge, // days
		Compress:   cfg.Compress,
	})

	// Only the exact level, so the files split cleanly.
	levelEnabler := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l == level
	})

	return zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		writer,
		levelEnabler,
	)
}

// newConsoleCore creates a human-readable core for the terminal.
func newConsoleCore(w io.Writer, minLevel zapcore.Level) zapcore.Core {
	levelEnabler := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= minLevel
	})

	consoleEncoderConfig := zap.NewDevelopmentEncoderConfig()
	consoleEncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder // Add color to levels

	return zapcore.NewCore(
		zapcore.NewConsoleEncoder(consoleEncoderConfig),
		zapcore.AddSync(w),
		levelEnabler,
	)
}
