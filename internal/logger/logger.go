package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	gormlogger "gorm.io/gorm/logger"
)

// Config は logger の設定
type Config struct {
	Level        string // debug/info/warn/error
	Format       string // json/text
	EnableCaller bool   // Errorに呼び出し元を付ける
	Component    string
	Environment  string
}

// Logger は slog.Logger にコンポーネント付与などを足したもの
type Logger struct {
	*slog.Logger
	config Config
}

// New は設定から Logger を作る（出力は stdout）
func New(config Config) *Logger {
	return NewWithWriter(config, os.Stdout)
}

// NewWithWriter は出力先を指定して Logger を作る（テスト用）
func NewWithWriter(config Config, w io.Writer) *Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(config.Level)}

	var handler slog.Handler
	switch config.Format {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	l := slog.New(handler)
	if config.Component != "" {
		l = l.With("component", config.Component)
	}
	if config.Environment != "" {
		l = l.With("environment", config.Environment)
	}

	return &Logger{Logger: l, config: config}
}

// Nop は何も出力しない Logger
func Nop() *Logger {
	return NewWithWriter(Config{Level: "error"}, io.Discard)
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With は属性付きの Logger を返す
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...), config: l.config}
}

// WithComponent は component 属性を付ける
func (l *Logger) WithComponent(component string) *Logger {
	return l.With("component", component)
}

// Error は呼び出し元を付けて出力する
func (l *Logger) Error(msg string, args ...any) {
	if l.config.EnableCaller {
		if _, file, line, ok := runtime.Caller(1); ok {
			args = append(args, "caller", fmt.Sprintf("%s:%d", filepath.Base(file), line))
		}
	}
	l.Logger.Error(msg, args...)
}

// Gorm は GORM のログを同じハンドラに流す logger を返す
func (l *Logger) Gorm(slow time.Duration) gormlogger.Interface {
	level := gormlogger.Warn
	if l.config.Level == "debug" {
		level = gormlogger.Info
	}

	w := slog.NewLogLogger(l.Logger.With("component", "gorm").Handler(), slog.LevelWarn)
	w.SetFlags(0)

	return gormlogger.New(
		w,
		gormlogger.Config{
			SlowThreshold:             slow,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
