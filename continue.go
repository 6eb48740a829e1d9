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
	"net/http"
	"net/http/httptrace"
	"net/textproto"
	"sync"
)

// continueGate is a request body that withholds its data until the server has
// answered with 100 Continue. The transport reports the interim response through
// the httptrace hooks returned by clientTrace.
//
// Reads fail with ErrContinueAborted when the gate is aborted or its context ends
// before the continuation arrives.
type continueGate struct {
	ctx  context.Context
	body *bytes.Reader

	proceedOnce sync.Once
	ready       chan struct{}
	abortOnce   sync.Once
	aborted     chan struct{}
}

func newContinueGate(ctx context.Context, data []byte) *continueGate {
	return &continueGate{
		ctx:     ctx,
		body:    bytes.NewReader(data),
		ready:   make(chan struct{}),
		aborted: make(chan struct{}),
	}
}

func (g *continueGate) proceed() {
	g.proceedOnce.Do(func() {
		close(g.ready)
	})
}

func (g *continueGate) abort() {
	g.abortOnce.Do(func() {
		close(g.aborted)
	})
}

// clientTrace returns the hooks the transport calls on interim responses. Depending
// on the transport and Go version either or both of them fire for a 100 Continue.
func (g *continueGate) clientTrace() *httptrace.ClientTrace {
	return &httptrace.ClientTrace{
		Got100Continue: g.proceed,
		Got1xxResponse: func(code int, _ textproto.MIMEHeader) error {
			if code == http.StatusContinue {
				g.proceed()
			}
			return nil
		},
	}
}

func (g *continueGate) Read(p []byte) (int, error) {
	select {
	case <-g.ready:
		return g.body.Read(p)
	default:
	}

	select {
	case <-g.ready:
		return g.body.Read(p)
	case <-g.aborted:
		return 0, ErrContinueAborted
	case <-g.ctx.Done():
		return 0, fmt.Errorf("%w: %w", ErrContinueAborted, g.ctx.Err())
	}
}

// Close is called by the transport once it is done with the body.
func (g *continueGate) Close() error {
	g.abort()
	return nil
}
