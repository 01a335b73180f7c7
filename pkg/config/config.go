// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/consensys/go-bits/pkg/bits"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is the complete configuration for decoding transmissions, whether
// from the command line or via the decode service.
type Config struct {
	// Limits bounds the work done decoding a single transmission.
	Limits LimitsConfig `yaml:"limits"`

	// Strict requires all bits following the outermost packet of a
	// transmission to be zero.
	Strict bool `yaml:"strict"`

	// Server configures the decode service.
	Server ServerConfig `yaml:"server"`

	// Log configures logging.
	Log LogConfig `yaml:"log"`
}

// LimitsConfig configures decoder limits.
type LimitsConfig struct {
	// MaxDepth bounds how many operator packets may be nested.
	// Default: 512
	MaxDepth uint `yaml:"max_depth"`

	// MaxPackets bounds the number of packets in a transmission.
	// Default: 1048576
	MaxPackets uint `yaml:"max_packets"`
}

// ServerConfig configures the decode service.
type ServerConfig struct {
	// Address is the address on which the service listens.
	// Default: :8080
	Address string `yaml:"address"`

	// CacheEntries is the number of decoded transmissions retained, keyed by
	// fingerprint.  Zero disables the cache.
	// Default: 1024
	CacheEntries uint `yaml:"cache_entries"`

	// MaxBodyBytes bounds the size of a request body.
	// Default: 1048576
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// ReadTimeout bounds the time taken to read a request.
	// Default: 10s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout bounds the time taken to write a response.
	// Default: 10s
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of the logrus level names (e.g. "info", "debug").
	// Default: info
	Level string `yaml:"level"`
}

// Default returns the default configuration.  These defaults are used as a
// base before loading any config file, so a file need only mention the values
// it changes.
func Default() *Config {
	limits := bits.DefaultLimits()
	//
	return &Config{
		Limits: LimitsConfig{
			MaxDepth:   limits.MaxDepth,
			MaxPackets: limits.MaxPackets,
		},
		Strict: false,
		Server: ServerConfig{
			Address:      ":8080",
			CacheEntries: 1024,
			MaxBodyBytes: 1 << 20,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadFile loads configuration from a specific file path, merged over the
// defaults.  Unknown keys are rejected, so that a misspelt setting is not
// silently ignored.  The result is validated before being returned.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	//
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	//
	return cfg, nil
}

// Parse parses configuration from YAML text, merged over the defaults.
func Parse(data []byte) (*Config, error) {
	var (
		cfg     = Default()
		decoder = yaml.NewDecoder(bytes.NewReader(data))
	)
	//
	decoder.KnownFields(true)
	// An empty document leaves the defaults in place
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	//
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	//
	return cfg, nil
}

// Validate checks that this configuration is usable.
func (c *Config) Validate() error {
	if c.Limits.MaxDepth == 0 {
		return errors.New("limits.max_depth must be positive")
	} else if c.Limits.MaxPackets == 0 {
		return errors.New("limits.max_packets must be positive")
	} else if c.Server.Address == "" {
		return errors.New("server.address must be given")
	} else if c.Server.MaxBodyBytes <= 0 {
		return errors.New("server.max_body_bytes must be positive")
	} else if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	//
	return nil
}

// DecoderLimits returns the configured limits in the form used by a decoder.
func (c *Config) DecoderLimits() bits.Limits {
	return bits.Limits{MaxDepth: c.Limits.MaxDepth, MaxPackets: c.Limits.MaxPackets}
}

// Decoder constructs a decoder which enforces this configuration.
func (c *Config) Decoder() *bits.Decoder {
	return bits.NewDecoder().WithLimits(c.DecoderLimits()).WithStrict(c.Strict)
}

// LogLevel returns the configured logging level, which is assumed to have
// been validated.
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	//
	return level
}
