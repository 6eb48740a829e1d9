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
	"errors"
	"io"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracedReader starts a span on the first read and ends it at the first read
// returning a non-nil error, recording how many reads and bytes it saw.
type tracedReader struct {
	traceCtx context.Context
	name     string
	span     trace.Span
	tracer   trace.Tracer

	reads     int
	totalData int64
	ended     bool
	r         io.Reader
}

func newTracedReader(ctx context.Context, tracer trace.Tracer, r io.Reader, name string) *tracedReader {
	return &tracedReader{
		traceCtx: ctx,
		name:     name,
		tracer:   tracer,
		r:        r,
	}
}

func (r *tracedReader) Read(p []byte) (int, error) {
	if r.reads == 0 && !r.ended {
		_, r.span = r.tracer.Start(r.traceCtx, r.name)
	}

	n, err := r.r.Read(p)
	if !r.ended {
		r.reads++
		r.totalData += int64(n)

		if err != nil {
			r.span.SetAttributes(
				attribute.Int("reads", r.reads),
				attribute.Int64("bytes_read", r.totalData),
			)
			r.ended = true
			if errors.Is(err, io.EOF) {
				r.span.SetStatus(codes.Ok, "")
			} else {
				r.span.RecordError(err)
				r.span.SetStatus(codes.Error, err.Error())
			}
			r.span.End()
		}
	}

	return n, err
}

// readChunks drains r, appending every chunk in arrival order, and returns the
// concatenation once r reports io.EOF. Any other error discards what was read.
func readChunks(r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	chunk := make([]byte, 32*1024)
	for {
		n, err := r.Read(chunk)
		buf.Write(chunk[:n])
		if errors.Is(err, io.EOF) {
			return buf.Bytes(), nil
		}
		if err != nil {
			return nil, err
		}
	}
}
