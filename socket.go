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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// socketReadSize bounds the single read RequestSocket performs.
const socketReadSize = 64 * 1024

// RequestSocket writes message to a TCP connection to hostname:port and parses
// the first chunk of data the peer sends back as JSON.
//
// There is no framing: the whole reply must arrive in one read of at most
// 64 KiB. A reply split across several TCP segments will usually fail to parse.
func (c *Client) RequestSocket(ctx context.Context, hostname string, port int, message []byte) (any, error) {
	var v any
	if err := c.RequestSocketInto(ctx, hostname, port, message, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// RequestSocketInto is RequestSocket decoding the reply into v.
func (c *Client) RequestSocketInto(ctx context.Context, hostname string, port int, message []byte, v any) (err error) {
	ctx, span := c.tracer.Start(ctx, "jsonclient.Client.RequestSocket")
	defer span.End()

	addr := net.JoinHostPort(firstNonEmpty(hostname, defaultHostname), strconv.Itoa(port))
	span.SetAttributes(attribute.String("server.address", addr))

	start := time.Now()
	defer func() {
		c.metrics.observe("SOCKET", err, time.Since(start))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			c.logger.WarnContext(ctx, "Socket request failed", "addr", addr, "error", err)
		}
	}()

	conn, err := c.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return newRequestError(ErrorKindTransport, fmt.Errorf("failed to dial %s: %w", addr, err))
	}
	defer conn.Close()

	// unblock the read below when ctx ends.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	c.logger.DebugContext(ctx, "Writing socket message", "addr", addr, "len", len(message))
	if _, err := conn.Write(message); err != nil {
		return newRequestError(ErrorKindTransport, fmt.Errorf("failed to write message: %w", err))
	}

	buf := make([]byte, socketReadSize)
	n, err := conn.Read(buf)
	if n == 0 {
		if err == nil || errors.Is(err, io.EOF) {
			err = ErrNoSocketData
		}
		return newRequestError(ErrorKindTransport, fmt.Errorf("failed to read reply: %w", err))
	}

	if err := json.Unmarshal(buf[:n], v); err != nil {
		return newRequestError(ErrorKindParse, fmt.Errorf("failed to parse socket reply: %w", err))
	}
	return nil
}
