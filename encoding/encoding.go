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

// Package encoding provides the HTTP content codings understood by jsonclient.
package encoding

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// Content-Encoding tokens with a registered Codec.
const (
	Gzip    = "gzip"
	Deflate = "deflate"
)

// Codec compresses and decompresses whole message bodies for one content coding.
type Codec interface {
	// Name returns the Content-Encoding token of the codec.
	Name() string
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}

var codecs = map[string]Codec{
	Gzip:    gzipCodec{},
	Deflate: deflateCodec{},
}

// Lookup returns the codec for a Content-Encoding header value. Tokens are
// case-insensitive. Unknown or empty values report false.
func Lookup(contentEncoding string) (Codec, bool) {
	c, ok := codecs[strings.ToLower(strings.TrimSpace(contentEncoding))]
	return c, ok
}

type gzipCodec struct{}

func (gzipCodec) Name() string { return Gzip }

func (gzipCodec) Encode(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write gzip data: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close gzip writer: %w", err)
	}
	return buf.Bytes(), nil
}

func (gzipCodec) Decode(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid gzip header: %w", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to inflate gzip data: %w", err)
	}
	return out, nil
}

// deflateCodec produces zlib wrapped data as RFC 9110 defines for "deflate". Many
// servers send raw DEFLATE instead, so Decode falls back to it when the zlib
// header is missing.
type deflateCodec struct{}

func (deflateCodec) Name() string { return Deflate }

func (deflateCodec) Encode(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write deflate data: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close deflate writer: %w", err)
	}
	return buf.Bytes(), nil
}

func (deflateCodec) Decode(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if errors.Is(err, zlib.ErrHeader) {
		return decodeRawDeflate(data)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid deflate header: %w", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to inflate deflate data: %w", err)
	}
	return out, nil
}

func decodeRawDeflate(data []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to inflate raw deflate data: %w", err)
	}
	return out, nil
}
