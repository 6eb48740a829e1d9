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
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptrace"
	"time"

	"github.com/quic-go/quic-go/http3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/net/proxy"
)

// Config holds the defaults a Client applies to every request. None of the
// fields are validated, absent values are resolved per request.
type Config struct {
	// Transport issues the requests. Defaults to a clone of http.DefaultTransport
	// with transparent compression disabled, so Envelope.RawData holds the bytes
	// as they arrived. Custom transports must report the interim response
	// through httptrace for Expect requests to make progress.
	Transport http.RoundTripper
	// Scheme is http or https. Defaults to http.
	Scheme   string
	Host     string
	Hostname string
	Port     int
}

// Client issues JSON requests. It is safe for concurrent use, calls only share
// the read-only Config.
type Client struct {
	cfg     Config
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *metrics
	dialer  proxy.ContextDialer

	// noContinue is set for transports that never report 100 Continue.
	noContinue bool
}

// defaultTransport returns a transport that leaves Accept-Encoding and
// Content-Encoding alone. Response decoding is done by the encoding package.
func defaultTransport() http.RoundTripper {
	t, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return http.DefaultTransport
	}
	t = t.Clone()
	t.DisableCompression = true
	return t
}

// NewClient creates a new client with the given defaults and options.
func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	// default client config
	ccfg := &clientCfg{
		logger: slog.Default(),
		tracer: noop.Tracer{},
	}

	for _, opt := range opts {
		err := opt(ccfg)
		if err != nil {
			return nil, err
		}
	}

	if ccfg.http3 {
		cfg.Transport = &http3.Transport{}
		if cfg.Scheme == "" {
			cfg.Scheme = "https"
		}
	}
	if cfg.Transport == nil {
		cfg.Transport = defaultTransport()
	}
	if cfg.Scheme == "" {
		cfg.Scheme = "http"
	}
	if ccfg.dialer == nil {
		ccfg.dialer = defaultSocketDialer()
	}

	c := &Client{
		cfg:        cfg,
		logger:     ccfg.logger,
		tracer:     ccfg.tracer,
		dialer:     ccfg.dialer,
		noContinue: ccfg.http3,
	}
	if ccfg.registerer != nil {
		m, err := newMetrics(ccfg.registerer)
		if err != nil {
			return nil, err
		}
		c.metrics = m
	}
	return c, nil
}

// Config returns the defaults of the client.
func (c *Client) Config() Config {
	return c.cfg
}

// Close releases resources held by the transport, if it holds any.
func (c *Client) Close() error {
	if closer, ok := c.cfg.Transport.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// preparedRequest is a normalized request with its encoded body.
type preparedRequest struct {
	opts RequestOptions
	data []byte
}

func (c *Client) prepare(opts RequestOptions, body any) (*preparedRequest, error) {
	n := opts.normalize(c.cfg)
	data, err := encodeBody(body, n.Headers)
	if err != nil {
		return nil, err
	}
	return &preparedRequest{opts: n, data: data}, nil
}

// Request sends a single request and waits for the complete response.
//
// Structured bodies are sent as JSON, strings, byte slices and scalar values
// as text. A response declared as application/json is decompressed if needed
// and parsed into Envelope.Body. All failures are returned as *RequestError;
// a failed request never yields a partial envelope.
//
// There is no built-in timeout, ctx bounds the whole exchange.
func (c *Client) Request(ctx context.Context, opts RequestOptions, body any) (env *Envelope, err error) {
	ctx, span := c.tracer.Start(ctx, "jsonclient.Client.Request")
	defer span.End()

	start := time.Now()
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	defer func() {
		c.metrics.observe(method, err, time.Since(start))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			c.logger.WarnContext(ctx, "JSON request failed", "method", method, "error", err)
		}
	}()

	p, err := c.prepare(opts, body)
	if err != nil {
		return nil, err
	}
	if p.opts.Expect && p.data != nil && c.noContinue {
		return nil, newRequestError(ErrorKindTransport, ErrContinueUnsupported)
	}

	u, err := p.opts.requestURL(c.cfg.Scheme)
	if err != nil {
		return nil, newRequestError(ErrorKindInvalidURL, fmt.Errorf("invalid request path %q: %w", p.opts.Path, err))
	}
	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.full", u.String()),
	)

	c.logger.DebugContext(ctx, "Dispatching JSON request", "method", method, "url", u.String(), "body_len", len(p.data), "expect", p.opts.Expect)

	env, err = c.roundTrip(ctx, u.String(), p)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("http.response.status_code", env.StatusCode),
		attribute.Bool("jsonclient.json_body", env.HasBody),
	)
	return env, nil
}

func (c *Client) roundTrip(ctx context.Context, rawURL string, p *preparedRequest) (*Envelope, error) {
	var (
		body io.Reader
		gate *continueGate
	)
	if p.data != nil {
		if p.opts.Expect {
			gate = newContinueGate(ctx, p.data)
			ctx = httptrace.WithClientTrace(ctx, gate.clientTrace())
			body = gate
		} else {
			body = bytes.NewReader(p.data)
		}
	}

	req, err := http.NewRequestWithContext(ctx, p.opts.Method, rawURL, body)
	if err != nil {
		return nil, newRequestError(ErrorKindInvalidURL, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header = p.opts.Headers
	if p.data != nil {
		req.ContentLength = int64(len(p.data))
	}

	resp, err := c.cfg.Transport.RoundTrip(req)
	if gate != nil {
		// the body is no longer needed unless the continuation already arrived.
		gate.abort()
	}
	if err != nil {
		return nil, newRequestError(ErrorKindTransport, err)
	}
	defer resp.Body.Close()

	raw, err := readChunks(newTracedReader(ctx, c.tracer, resp.Body, "jsonclient.ResponseBodyReader"))
	if err != nil {
		return nil, newRequestError(ErrorKindTransport, fmt.Errorf("failed to read response body: %w", err))
	}

	return decodeEnvelope(resp, raw)
}
