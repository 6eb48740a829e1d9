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
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/confidentsecurity/jsonclient/encoding"
)

// errNoJSONBody is returned by Envelope.Decode for responses that were not JSON.
var errNoJSONBody = errors.New("response has no JSON body")

// Envelope is a fully received response.
type Envelope struct {
	StatusCode int
	Status     string
	Header     http.Header
	// RawData holds the response body exactly as received, before any decompression.
	RawData []byte
	// Text holds the decompressed body when a gzip or deflate coding was removed.
	Text string
	// Body holds the decoded JSON value. It is only set, and HasBody is only true,
	// when the response media type is application/json.
	Body    any
	HasBody bool

	payload []byte
}

// Decode unmarshals the JSON body into v.
func (e *Envelope) Decode(v any) error {
	if !e.HasBody {
		return errNoJSONBody
	}
	return json.Unmarshal(e.payload, v)
}

// decodeEnvelope builds the envelope for a response whose body was read into raw.
func decodeEnvelope(resp *http.Response, raw []byte) (*Envelope, error) {
	env := &Envelope{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		RawData:    raw,
	}

	if primaryMediaType(resp.Header.Get("Content-Type")) != JSONMediaType {
		return env, nil
	}

	payload := raw
	if codec, ok := encoding.Lookup(resp.Header.Get("Content-Encoding")); ok {
		decoded, err := codec.Decode(raw)
		if err != nil {
			return nil, newRequestError(ErrorKindDecompression, fmt.Errorf("failed to decode %s response body: %w", codec.Name(), err))
		}
		payload = decoded
		env.Text = string(decoded)
	}

	var body any
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, newRequestError(ErrorKindParse, fmt.Errorf("failed to parse JSON response body: %w", err))
	}

	env.Body = body
	env.HasBody = true
	env.payload = payload
	return env, nil
}
