package config

import (
	"log/slog"
)

type Log struct {
	Format    LogFormat  `env:"LOG_FORMAT" envDefault:"JSON"`
	Level     slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	AddSource bool       `env:"LOG_ADD_SOURCE" envDefault:"true"`
	// NoColor disables ANSI colors of the TEXT format.
	NoColor bool `env:"LOG_NO_COLOR" envDefault:"false"`
}

// LogFormat selects JSON records or tinted text lines.
type LogFormat uint8

const (
	LogFormatJSON LogFormat = iota
	LogFormatText
)

var logFormatNames = []string{"JSON", "TEXT"}

func (f LogFormat) String() string {
	return enumName(logFormatNames, f)
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (f *LogFormat) UnmarshalText(text []byte) error {
	v, err := parseEnum[LogFormat]("log format", logFormatNames, text)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

func (f LogFormat) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}
