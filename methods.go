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
	"net/http"
)

// Get requests path with the GET method.
func (c *Client) Get(ctx context.Context, path string, opts RequestOptions) (*Envelope, error) {
	opts.Path = path
	opts.Method = http.MethodGet
	return c.Request(ctx, opts, nil)
}

// Post sends body to path with the POST method.
func (c *Client) Post(ctx context.Context, path string, body any, opts RequestOptions) (*Envelope, error) {
	opts.Path = path
	opts.Method = http.MethodPost
	return c.Request(ctx, opts, body)
}

// Put sends body to path with the PUT method.
func (c *Client) Put(ctx context.Context, path string, body any, opts RequestOptions) (*Envelope, error) {
	opts.Path = path
	opts.Method = http.MethodPut
	return c.Request(ctx, opts, body)
}

// Delete requests path with the DELETE method.
func (c *Client) Delete(ctx context.Context, path string, opts RequestOptions) (*Envelope, error) {
	opts.Path = path
	opts.Method = http.MethodDelete
	return c.Request(ctx, opts, nil)
}
