package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"guiagent/internal/application/port/output"
)

var _ output.LoggerPort = (*ZapLoggerAdapter)(nil)

// ZapLoggerAdapter is the structured console record described in
//: a JSONL sink per task, plus a colorized console line per
// entry when stdout is a real terminal.
type ZapLoggerAdapter struct {
	logger *zap.SugaredLogger
	file   *os.File
}

// NewLoggerAdapter creates a per-task logger. File naming matches the
// teacher's convention: timestamp_safeTaskName.log under ./log/.
func NewLoggerAdapter(taskName string) (*ZapLoggerAdapter, error) {
	safeName := sanitize(taskName)
	filename := fmt.Sprintf("%s_%s.log", time.Now().Format("2006-01-02_15-04-05"), safeName)

	if err := os.MkdirAll("log", 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	file, err := os.Create(filepath.Join("log", filename))
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	jsonEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	fileCore := zapcore.NewCore(jsonEncoder, zapcore.AddSync(file), zapcore.DebugLevel)

	cores := []zapcore.Core{fileCore}

	if isatty.IsTerminal(os.Stdout.Fd()) {
		consoleEncoderCfg := zap.NewDevelopmentEncoderConfig()
		consoleEncoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		consoleEncoder := zapcore.NewConsoleEncoder(consoleEncoderCfg)
		consoleCore := zapcore.NewCore(consoleEncoder, zapcore.AddSync(colorable.NewColorableStdout()), zapcore.InfoLevel)
		cores = append(cores, consoleCore)
	}

	core := zapcore.NewTee(cores...)
	logger := zap.New(core)

	return &ZapLoggerAdapter{
		logger: logger.Sugar(),
		file:   file,
	}, nil
}

func (l *ZapLoggerAdapter) Debug(msg string, args ...any) { l.logger.Debugw(msg, args...) }
func (l *ZapLoggerAdapter) Info(msg string, args ...any)  { l.logger.Infow(msg, args...) }
func (l *ZapLoggerAdapter) Warn(msg string, args ...any)  { l.logger.Warnw(msg, args...) }
func (l *ZapLoggerAdapter) Error(msg string, args ...any) { l.logger.Errorw(msg, args...) }

func (l *ZapLoggerAdapter) WithField(key string, value any) output.LoggerPort {
	return &ZapLoggerAdapter{logger: l.logger.With(key, value), file: l.file}
}

func (l *ZapLoggerAdapter) WithFields(fields map[string]any) output.LoggerPort {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &ZapLoggerAdapter{logger: l.logger.With(args...), file: l.file}
}

func (l *ZapLoggerAdapter) Close() error {
	_ = l.logger.Sync()
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func sanitize(s string) string {
	result := make([]rune, 0, len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			result = append(result, r)
		} else {
			result = append(result, '_')
		}
	}
	s = string(result)
	if s == "" {
		return "task"
	}
	if len(s) > 60 {
		s = s[:60]
	}
	return s
}
