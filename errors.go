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
	"strconv"
)

var (
	// ErrContinueAborted is returned from a gated request body when the round trip ended,
	// or the context was cancelled, before the server sent 100 Continue.
	ErrContinueAborted = errors.New("request body not sent: no 100 Continue received")
	// ErrContinueUnsupported is returned for Expect requests with a body on a transport
	// that cannot report 100 Continue, such as HTTP/3.
	ErrContinueUnsupported = errors.New("transport does not report 100 Continue")
	// ErrNoSocketData indicates the socket peer closed the connection without sending data.
	ErrNoSocketData = errors.New("socket closed before any data was received")
)

// ErrorKind classifies a failed request.
type ErrorKind int

// Error kinds returned by the Client.
const (
	ErrorKindTransport     ErrorKind = 1
	ErrorKindSerialization ErrorKind = 2
	ErrorKindDecompression ErrorKind = 3
	ErrorKindParse         ErrorKind = 4
	ErrorKindInvalidURL    ErrorKind = 5
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindTransport:
		return "transport"
	case ErrorKindSerialization:
		return "serialization"
	case ErrorKindDecompression:
		return "decompression"
	case ErrorKindParse:
		return "parse"
	case ErrorKindInvalidURL:
		return "invalid url"
	default:
		return "kind " + strconv.Itoa(int(k))
	}
}

// RequestError is returned by every failed Client operation. Callers can check
// the kind to tell failures before any I/O (serialization, invalid url) apart
// from failures after data was received (decompression, parse).
type RequestError struct {
	Kind ErrorKind
	Err  error
}

func newRequestError(kind ErrorKind, err error) *RequestError {
	return &RequestError{Kind: kind, Err: err}
}

// IsTransportError indicates a connection, DNS, TLS or write/read failure.
func (e *RequestError) IsTransportError() bool {
	return e.Kind == ErrorKindTransport
}

// IsSerializationError indicates the request body could not be JSON encoded.
func (e *RequestError) IsSerializationError() bool {
	return e.Kind == ErrorKindSerialization
}

// IsDecompressionError indicates a gzip or deflate response body failed to decode.
func (e *RequestError) IsDecompressionError() bool {
	return e.Kind == ErrorKindDecompression
}

// IsParseError indicates a response declared as JSON was not valid JSON.
func (e *RequestError) IsParseError() bool {
	return e.Kind == ErrorKindParse
}

func (e *RequestError) Error() string {
	return "jsonclient: " + e.Kind.String() + ": " + e.Err.Error()
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// errorKindOf returns the kind of a *RequestError in err's chain, or 0.
func errorKindOf(err error) ErrorKind {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Kind
	}
	return 0
}
