// Package config loads the optional user settings file. A missing file
// is not an error; every field has a sensible default.
package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// LogLevel is a logrus level name; LogFormat is "text" or "json".
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// MIDIInput is a device name prefix to connect the control surface
	// to; empty disables MIDI.
	MIDIInput string `yaml:"midi_input"`

	// WatchFolder reloads the session when stem files change on disk.
	WatchFolder bool `yaml:"watch_folder"`

	// ExportPCM16 writes mixdowns as 16-bit PCM instead of float32.
	ExportPCM16 bool `yaml:"export_pcm16"`
}

func Default() Config {
	return Config{
		LogLevel:    "info",
		LogFormat:   "text",
		WatchFolder: true,
		ExportPCM16: true,
	}
}

// Load reads path over the defaults. A nonexistent path returns the
// defaults without error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config %v: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config %v: %w", path, err)
	}
	return cfg, nil
}

// Logger builds a logrus logger from the logging fields. Unknown level
// names fall back to info.
func (c Config) Logger() *logrus.Logger {
	log := logrus.New()
	if level, err := logrus.ParseLevel(c.LogLevel); err == nil {
		log.SetLevel(level)
	}
	if c.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log
}
