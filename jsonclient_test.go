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

package jsonclient_test

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"github.com/confidentsecurity/jsonclient"
	"github.com/stretchr/testify/require"
)

// fakeTransport records the last request it received and replies with resp or err.
type fakeTransport struct {
	mu    sync.Mutex
	calls int
	req   *http.Request
	body  []byte

	resp func() *http.Response
	err  error
}

func (ft *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ft.mu.Lock()
	defer ft.mu.Unlock()

	ft.calls++
	ft.req = req
	ft.body = nil
	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		ft.body = body
	}

	if ft.err != nil {
		return nil, ft.err
	}
	if ft.resp == nil {
		return newResponse(http.StatusOK, nil, nil), nil
	}
	return ft.resp(), nil
}

func newResponse(status int, header http.Header, body []byte) *http.Response {
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{
		StatusCode:    status,
		Status:        strconv.Itoa(status) + " " + http.StatusText(status),
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
	}
}

func jsonHeader(contentEncoding string) http.Header {
	h := http.Header{"Content-Type": {"application/json"}}
	if contentEncoding != "" {
		h.Set("Content-Encoding", contentEncoding)
	}
	return h
}

func newTestClient(t *testing.T, cfg jsonclient.Config, opts ...jsonclient.ClientOption) *jsonclient.Client {
	t.Helper()

	client, err := jsonclient.NewClient(cfg, opts...)
	require.NoError(t, err)
	return client
}

// serverConfig points a client config at a httptest server.
func serverConfig(t *testing.T, serverURL string) jsonclient.Config {
	t.Helper()

	u, err := url.Parse(serverURL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	return jsonclient.Config{
		Hostname: u.Hostname(),
		Port:     port,
	}
}
