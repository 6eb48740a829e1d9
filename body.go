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
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
)

// encodeBody encodes body for sending and sets the derived headers on header.
// It returns nil data for an empty body: nil, "", an empty byte slice, false,
// a numeric zero, or a nil map, pointer, slice or interface.
//
// Strings, byte slices, booleans and numbers are sent as their text form.
// Anything else, and any json.Marshaler, is encoded as indented JSON.
func encodeBody(body any, header http.Header) ([]byte, error) {
	if isEmptyBody(body) {
		return nil, nil
	}

	data, raw := rawBody(body)
	if raw {
		if header.Get("Content-Type") == "" {
			header.Set("Content-Type", TextMediaType)
		}
	} else {
		var err error
		data, err = marshalJSON(body)
		if err != nil {
			return nil, newRequestError(ErrorKindSerialization, fmt.Errorf("failed to encode %T body: %w", body, err))
		}
		header.Set("Content-Type", JSONMediaType)
		if header.Get("Accept") == "" {
			header.Set("Accept", JSONMediaType)
		}
	}

	header.Set("Content-Length", strconv.Itoa(len(data)))
	return data, nil
}

// marshalJSON encodes v the way JSON.stringify(v, null, 2) does: two space
// indentation, no HTML escaping and no trailing newline.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", jsonIndent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

var jsonMarshalerType = reflect.TypeFor[json.Marshaler]()

func rawBody(body any) ([]byte, bool) {
	rv := reflect.ValueOf(body)
	if rv.Type().Implements(jsonMarshalerType) {
		return nil, false
	}

	switch rv.Kind() {
	case reflect.String:
		return []byte(rv.String()), true
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return rv.Bytes(), true
		}
	case reflect.Bool:
		return []byte(strconv.FormatBool(rv.Bool())), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return []byte(fmt.Sprint(rv.Interface())), true
	}
	return nil, false
}

func isEmptyBody(body any) bool {
	if body == nil {
		return true
	}

	rv := reflect.ValueOf(body)
	switch rv.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return rv.IsZero()
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return rv.Len() == 0
		}
		return rv.IsNil()
	case reflect.Map, reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
