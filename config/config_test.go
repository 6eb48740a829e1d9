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

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/confidentsecurity/jsonclient/config"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "client.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	tests := map[string]struct {
		file    string
		env     map[string]string
		want    config.File
		wantErr bool
	}{
		"ok, empty path": {
			want: config.File{},
		},
		"ok, file only": {
			file: "scheme: https\nhostname: api.example.com\nport: 8443\n",
			want: config.File{Scheme: "https", Hostname: "api.example.com", Port: 8443},
		},
		"ok, env overrides file": {
			file: "scheme: http\nhostname: api.example.com\nport: 8080\n",
			env: map[string]string{
				config.EnvHostname: "127.0.0.1",
				config.EnvPort:     "9090",
				config.EnvHTTP3:    "true",
			},
			want: config.File{Scheme: "http", Hostname: "127.0.0.1", Port: 9090, HTTP3: true},
		},
		"ok, host with port": {
			file: "host: localhost:8080\n",
			want: config.File{Host: "localhost:8080"},
		},
		"fail, unknown scheme": {
			file:    "scheme: ftp\n",
			wantErr: true,
		},
		"fail, port out of range": {
			file:    "port: 70000\n",
			wantErr: true,
		},
		"fail, invalid port env": {
			env:     map[string]string{config.EnvPort: "eighty"},
			wantErr: true,
		},
		"fail, invalid yaml": {
			file:    "port: [1, 2\n",
			wantErr: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			path := ""
			if tc.file != "" {
				path = writeFile(t, tc.file)
			}

			got, err := config.Load(path)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, *got)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestFileClientConfig(t *testing.T) {
	f := config.File{Scheme: "https", Host: "example.com", Hostname: "api.example.com", Port: 443, HTTP3: true}

	cfg := f.ClientConfig()
	require.Equal(t, "https", cfg.Scheme)
	require.Equal(t, "example.com", cfg.Host)
	require.Equal(t, "api.example.com", cfg.Hostname)
	require.Equal(t, 443, cfg.Port)
	require.Nil(t, cfg.Transport)

	require.Len(t, f.ClientOptions(), 1)
	require.Empty(t, (&config.File{}).ClientOptions())
}
