// Copyright 2025 Nonvolatile Inc. d/b/a Confident Security

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     https://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads jsonclient defaults from a YAML file, a .env file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/confidentsecurity/jsonclient"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// Environment variables that override values from the config file.
const (
	EnvScheme   = "JSONCLIENT_SCHEME"
	EnvHost     = "JSONCLIENT_HOST"
	EnvHostname = "JSONCLIENT_HOSTNAME"
	EnvPort     = "JSONCLIENT_PORT"
	EnvHTTP3    = "JSONCLIENT_HTTP3"
)

// File is the on-disk client configuration.
type File struct {
	Scheme   string `yaml:"scheme" validate:"omitempty,oneof=http https"`
	Host     string `yaml:"host" validate:"omitempty,hostname_port|hostname_rfc1123|ip"`
	Hostname string `yaml:"hostname" validate:"omitempty,hostname_rfc1123|ip"`
	Port     int    `yaml:"port" validate:"gte=0,lte=65535"`
	HTTP3    bool   `yaml:"http3"`
}

// Load reads the YAML file at path, applies environment overrides and validates
// the result. An empty path skips the file. Variables from a .env file in the
// working directory are loaded first, without replacing variables already set.
func Load(path string) (*File, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	var f File
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := f.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvScheme); ok {
		f.Scheme = v
	}
	if v, ok := lookup(EnvHost); ok {
		f.Host = v
	}
	if v, ok := lookup(EnvHostname); ok {
		f.Hostname = v
	}
	if v, ok := lookup(EnvPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		f.Port = port
	}
	if v, ok := lookup(EnvHTTP3); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvHTTP3, err)
		}
		f.HTTP3 = enabled
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the field values.
func (f *File) Validate() error {
	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("invalid client config: %w", err)
	}
	return nil
}

// ClientConfig returns the client defaults described by f.
func (f *File) ClientConfig() jsonclient.Config {
	return jsonclient.Config{
		Scheme:   f.Scheme,
		Host:     f.Host,
		Hostname: f.Hostname,
		Port:     f.Port,
	}
}

// ClientOptions returns the client options described by f.
func (f *File) ClientOptions() []jsonclient.ClientOption {
	var opts []jsonclient.ClientOption
	if f.HTTP3 {
		opts = append(opts, jsonclient.WithHTTP3())
	}
	return opts
}
