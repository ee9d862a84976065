// Copyright (C) 2026 Meridian DMS (engineering@meridiandms.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package registry

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML configs can say "5m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// StoreConfig configures the embedded edge and document store.
type StoreConfig struct {
	// Path is the BadgerDB directory. Ignored when InMemory is true.
	Path string `yaml:"path"`

	// InMemory runs without disk persistence. Testing only.
	InMemory bool `yaml:"in_memory"`

	// SyncWrites enables durable writes.
	SyncWrites bool `yaml:"sync_writes"`

	// GCInterval is how often value log garbage collection runs.
	GCInterval Duration `yaml:"gc_interval"`
}

// RateLimitConfig bounds mutating request throughput.
type RateLimitConfig struct {
	// RPS is the sustained requests-per-second allowance.
	RPS float64 `yaml:"rps"`

	// Burst is the short-term burst allowance.
	Burst int `yaml:"burst"`
}

// TraceConfig configures the OpenTelemetry trace pipeline.
type TraceConfig struct {
	// Exporter selects the span exporter: "otlp", "stdout", or "none".
	Exporter string `yaml:"exporter"`

	// Endpoint is the OTLP receiver endpoint.
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS for the OTLP connection.
	Insecure bool `yaml:"insecure"`
}

// LogConfig configures service logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Dir enables file logging when set.
	Dir string `yaml:"dir"`

	// JSON switches stderr output to JSON.
	JSON bool `yaml:"json"`
}

// ServiceConfig is the registry service configuration.
type ServiceConfig struct {
	// ListenAddr is the HTTP bind address, e.g. ":8080".
	ListenAddr string `yaml:"listen_addr"`

	Store     StoreConfig     `yaml:"store"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Log       LogConfig       `yaml:"log"`
	Trace     TraceConfig     `yaml:"trace"`
}

// DefaultServiceConfig returns production defaults: durable local
// store under ./data, port 8080, and a generous write budget.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		ListenAddr: ":8080",
		Store: StoreConfig{
			Path:       "data/registry",
			SyncWrites: true,
			GCInterval: Duration(5 * time.Minute),
		},
		RateLimit: RateLimitConfig{RPS: 50, Burst: 100},
		Log:       LogConfig{Level: "info"},
		Trace: TraceConfig{
			Exporter: "otlp",
			Endpoint: "localhost:4317",
			Insecure: true,
		},
	}
}

// LoadServiceConfig reads a YAML config file over the defaults. A
// missing path returns the defaults unchanged.
func LoadServiceConfig(path string) (ServiceConfig, error) {
	cfg := DefaultServiceConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
