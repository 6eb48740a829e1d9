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

package jsonclient

import (
	"io"
	"net/http"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestPrimaryMediaType(t *testing.T) {
	tests := map[string]string{
		"application/json":                 "application/json",
		"application/json; charset=utf-8":  "application/json",
		"application/json;charset=utf-8":   "application/json",
		"application/json ; charset=utf-8": "application/json ",
		"":                                 "",
	}

	for in, want := range tests {
		require.Equal(t, want, primaryMediaType(in), in)
	}
}

func TestAuthority(t *testing.T) {
	tests := map[string]struct {
		hostname string
		port     int
		want     string
	}{
		"ok, no port":        {hostname: "example.com", want: "example.com"},
		"ok, port":           {hostname: "example.com", port: 80, want: "example.com:80"},
		"ok, replaces port":  {hostname: "example.com:81", port: 82, want: "example.com:82"},
		"ok, keeps own port": {hostname: "example.com:81", want: "example.com:81"},
		"ok, ipv6":           {hostname: "::1", port: 8080, want: "[::1]:8080"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tc.want, authority(tc.hostname, tc.port))
		})
	}
}

func TestNormalizeClonesHeaders(t *testing.T) {
	headers := http.Header{"X-A": {"1"}}
	opts := RequestOptions{Headers: headers, Expect: true}

	n := opts.normalize(Config{Hostname: "example.com"})
	n.Headers.Set("X-B", "2")

	require.Equal(t, ExpectContinue, n.Headers.Get("Expect"))
	require.Equal(t, http.Header{"X-A": {"1"}}, headers)
	require.Equal(t, "/", n.Path)
	require.Equal(t, http.MethodGet, n.Method)
	require.Equal(t, "example.com", n.Hostname)
}

func TestReadChunks(t *testing.T) {
	t.Run("ok, chunks concatenated in order", func(t *testing.T) {
		r := iotest.OneByteReader(newTracedReader(t.Context(), noop.Tracer{}, strings.NewReader("abcdef"), "test"))
		got, err := readChunks(r)
		require.NoError(t, err)
		require.Equal(t, "abcdef", string(got))
	})

	t.Run("fail, partial data discarded", func(t *testing.T) {
		r := io.MultiReader(strings.NewReader("abc"), iotest.ErrReader(io.ErrUnexpectedEOF))
		got, err := readChunks(newTracedReader(t.Context(), noop.Tracer{}, r, "test"))
		require.ErrorIs(t, err, io.ErrUnexpectedEOF)
		require.Nil(t, got)
	})
}

func TestIsEmptyBody(t *testing.T) {
	var nilSlice []string
	tests := map[string]struct {
		body any
		want bool
	}{
		"nil":         {body: nil, want: true},
		"empty":       {body: "", want: true},
		"zero float":  {body: 0.0, want: true},
		"false":       {body: false, want: true},
		"nil slice":   {body: nilSlice, want: true},
		"space":       {body: " ", want: false},
		"true":        {body: true, want: false},
		"empty map":   {body: map[string]any{}, want: false},
		"empty slice": {body: []string{}, want: false},
		"struct":      {body: struct{}{}, want: false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tc.want, isEmptyBody(tc.body))
		})
	}
}
