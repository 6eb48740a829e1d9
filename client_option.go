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
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/proxy"
)

type clientCfg struct {
	logger     *slog.Logger
	tracer     trace.Tracer
	registerer prometheus.Registerer
	dialer     proxy.ContextDialer
	http3      bool
}

// ClientOption allows for the configuration of Clients.
type ClientOption func(cfg *clientCfg) error

// WithLogger provides a custom structured logger to the Client.
func WithLogger(l *slog.Logger) ClientOption {
	return func(cfg *clientCfg) error {
		if l == nil {
			return errors.New("nil logger")
		}
		cfg.logger = l
		return nil
	}
}

// WithOTELTracer provides a custom otel tracer for the client to use for tracing
func WithOTELTracer(tracer trace.Tracer) ClientOption {
	return func(cfg *clientCfg) error {
		if tracer == nil {
			return errors.New("nil tracer")
		}
		cfg.tracer = tracer
		return nil
	}
}

// WithMetrics registers request metrics with reg.
func WithMetrics(reg prometheus.Registerer) ClientOption {
	return func(cfg *clientCfg) error {
		if reg == nil {
			return errors.New("nil metrics registerer")
		}
		cfg.registerer = reg
		return nil
	}
}

// WithSocketDialer provides the dialer used by RequestSocket. By default the
// dialer honours the ALL_PROXY environment variable.
func WithSocketDialer(d proxy.ContextDialer) ClientOption {
	return func(cfg *clientCfg) error {
		if d == nil {
			return errors.New("nil socket dialer")
		}
		cfg.dialer = d
		return nil
	}
}

// WithHTTP3 sends requests over HTTP/3, replacing Config.Transport. The scheme
// defaults to https when Config.Scheme is empty.
func WithHTTP3() ClientOption {
	return func(cfg *clientCfg) error {
		cfg.http3 = true
		return nil
	}
}

func defaultSocketDialer() proxy.ContextDialer {
	if d, ok := proxy.FromEnvironment().(proxy.ContextDialer); ok {
		return d
	}
	return proxy.Direct
}
