/*
 * Copyright 2024 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package zaplog adapts a zap logger to types.Logger.
//
// Example:
//
//	logger, _ := zaplog.New(zaplog.Config{Level: "debug", Name: "router"})
//	router := navrouter.New(env, types.WithLogger(logger))
package zaplog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rulego/navrouter/api/types"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config logger configuration.
type Config struct {
	// Level debug, info, warn or error. Default info.
	Level string `mapstructure:"level" toml:"level"`
	// Name logger name
	Name string `mapstructure:"name" toml:"name"`
	// Json uses the json encoder instead of the console encoder
	Json bool `mapstructure:"json" toml:"json"`
	// Output default os.Stdout
	Output io.Writer `mapstructure:"-" toml:"-"`
}

// Logger implements types.Logger on top of zap. Printf writes at the configured level.
type Logger struct {
	logger *zap.Logger
	sugar  *zap.SugaredLogger
	level  zapcore.Level
}

var _ types.Logger = (*Logger)(nil)

// New creates a zap backed logger.
func New(config Config) (*Logger, error) {
	level, err := parseLevel(config.Level)
	if err != nil {
		return nil, err
	}
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
	}
	var encoder zapcore.Encoder
	if config.Json {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}
	var writer zapcore.WriteSyncer
	if config.Output != nil {
		writer = zapcore.AddSync(config.Output)
	} else {
		writer = zapcore.AddSync(os.Stdout)
	}
	logger := zap.New(zapcore.NewCore(encoder, writer, level))
	if config.Name != "" {
		logger = logger.Named(config.Name)
	}
	return Wrap(logger, level), nil
}

// Wrap adapts an existing zap logger. Printf writes at level.
func Wrap(logger *zap.Logger, level zapcore.Level) *Logger {
	return &Logger{
		logger: logger,
		sugar:  logger.Sugar(),
		level:  level,
	}
}

// Printf implements types.Logger.
func (l *Logger) Printf(format string, v ...interface{}) {
	if ce := l.logger.Check(l.level, fmt.Sprintf(format, v...)); ce != nil {
		ce.Write()
	}
}

// With returns a logger carrying extra key/value fields.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	sugar := l.sugar.With(keysAndValues...)
	return &Logger{
		logger: sugar.Desugar(),
		sugar:  sugar,
		level:  l.level,
	}
}

// Zap returns the underlying zap logger.
func (l *Logger) Zap() *zap.Logger {
	return l.logger
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.logger.Sync()
}

func parseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(level) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}
