// Package logging builds the zerolog logger shared by every package.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects sinks and level
type Options struct {
	Level string `mapstructure:"level"`
	// Console writes human readable lines to the console writer
	Console bool `mapstructure:"console"`
	// File enables a rotated JSON log when non-empty
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ParseLevel maps a level name to zerolog, empty means info and "off" disables logging
func ParseLevel(name string) (zerolog.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "":
		return zerolog.InfoLevel, nil
	case "off":
		return zerolog.Disabled, nil
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}

// New builds a logger writing to console and the optional rotated file
// With no sink enabled the logger discards everything
// The returned closer releases the log file
func New(opts Options, console io.Writer) (zerolog.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	var writers []io.Writer
	if opts.Console && console != nil {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        console,
			TimeFormat: time.TimeOnly,
		})
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		file := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
		}
		writers = append(writers, file)
		closer = file
	}

	if len(writers) == 0 {
		return zerolog.New(io.Discard).Level(zerolog.Disabled), closer, nil
	}

	log := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().Timestamp().Logger()
	return log, closer, nil
}

// Sampled thins a logger for per tick messages: a burst every period, then 1 in n
func Sampled(log zerolog.Logger, burst uint32, period time.Duration, n uint32) zerolog.Logger {
	return log.Sample(&zerolog.BurstSampler{
		Burst:       burst,
		Period:      period,
		NextSampler: &zerolog.BasicSampler{N: n},
	})
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
