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

// Package jsonclient is a small HTTP(S) client that shapes requests around JSON
// payloads and decodes JSON responses, transparently undoing gzip and deflate
// content codings. It also provides a raw socket helper for services that answer a
// single message with a single JSON document.
package jsonclient

import "strings"

const (
	// JSONMediaType is the media type that triggers structured decoding of a response.
	JSONMediaType = "application/json"
	// TextMediaType is the media type set on raw request bodies without a Content-Type.
	TextMediaType = "text/plain"
	// ExpectContinue is the Expect header value used for two-phase requests.
	ExpectContinue = "100-Continue"
)

// jsonIndent matches the two space indentation used when encoding structured bodies.
const jsonIndent = "  "

// primaryMediaType returns the part of a Content-Type header before the first ';'.
// The result is not trimmed or lowercased, matching is exact.
func primaryMediaType(contentType string) string {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return mediaType
}
