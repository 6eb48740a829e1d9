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
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// defaultHostname is used when neither the request nor the client names a host.
const defaultHostname = "localhost"

// RequestOptions describes a single request. Zero fields fall back to the
// client's Config. The client works on a copy, the caller's value and its
// Headers are never modified.
type RequestOptions struct {
	// Hostname takes precedence over Host.
	Hostname string
	// Host may include a port, which Port overrides.
	Host   string
	Port   int
	Path   string
	Method string
	// Headers are sent as-is, except for the headers derived from the body.
	Headers http.Header
	// Query is encoded and appended to Path.
	Query url.Values
	// Expect sends the body only after the server answered 100 Continue.
	Expect bool
}

// normalize fills absent options from cfg and returns a copy that is private to
// one call.
func (o RequestOptions) normalize(cfg Config) RequestOptions {
	n := o
	n.Hostname = firstNonEmpty(o.Hostname, o.Host, cfg.Hostname, cfg.Host, defaultHostname)
	if n.Port == 0 {
		n.Port = cfg.Port
	}

	n.Headers = o.Headers.Clone()
	if n.Headers == nil {
		n.Headers = http.Header{}
	}
	if o.Expect {
		n.Headers.Set("Expect", ExpectContinue)
	}

	if n.Method == "" {
		n.Method = http.MethodGet
	}
	if n.Path == "" {
		n.Path = "/"
	}
	n.Path = appendQuery(n.Path, o.Query)
	return n
}

// appendQuery appends the encoded query to path. An empty query leaves path
// untouched.
func appendQuery(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + query.Encode()
}

// requestURL builds the request URL for normalized options.
func (o RequestOptions) requestURL(scheme string) (*url.URL, error) {
	path := o.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u, err := url.ParseRequestURI(path)
	if err != nil {
		return nil, err
	}
	u.Scheme = scheme
	u.Host = authority(o.Hostname, o.Port)
	return u, nil
}

// authority joins hostname and port. A port already present in hostname is
// replaced when port is set.
func authority(hostname string, port int) string {
	if port == 0 {
		return hostname
	}
	if host, _, err := net.SplitHostPort(hostname); err == nil {
		hostname = host
	}
	return net.JoinHostPort(hostname, strconv.Itoa(port))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
