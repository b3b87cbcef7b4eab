package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

const notebookJSON = `{"cells":[
	{"cell_type":"markdown","source":["# Title\n","body"]},
	{"cell_type":"code","execution_count":3,"source":"print('hi')","outputs":[
		{"output_type":"stream","name":"stdout","text":["hi\n"]},
		{"output_type":"display_data","data":{"text/html":"<b>bold</b>","text/plain":"bold"}}
	]}
]}`

func newTestServer(opts *Options) Server {
	if opts == nil {
		opts = &Options{}
	}
	opts.DisableReqLogs = true
	return New(opts)
}

func doRequest(s Server, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestServer_HomeAndHealth(t *testing.T) {
	s := newTestServer(nil)

	rec := doRequest(s, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/v1/render")
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	rec = doRequest(s, http.MethodGet, "/healthz/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_RenderJSON(t *testing.T) {
	s := newTestServer(nil)
	rec := doRequest(s, http.MethodPost, "/v1/render", []byte(notebookJSON))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Blocks []struct {
			Kind string `json:"kind"`
			Cell struct {
				Label   string `json:"label"`
				Outputs []struct {
					Kind string `json:"kind"`
					MIME string `json:"mime"`
				} `json:"outputs"`
			} `json:"cell"`
		} `json:"blocks"`
		Diagnostics struct {
			Cells     int    `json:"cells"`
			CodeCells int    `json:"code_cells"`
			Recovery  string `json:"recovery"`
		} `json:"diagnostics"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v\n%s", err, rec.Body.String())
	}
	if assert.Len(t, resp.Blocks, 2) {
		assert.Equal(t, "cell", resp.Blocks[1].Kind)
		assert.Equal(t, "[3]:", resp.Blocks[1].Cell.Label)
		if assert.Len(t, resp.Blocks[1].Cell.Outputs, 2) {
			assert.Equal(t, "stream", resp.Blocks[1].Cell.Outputs[0].Kind)
			assert.Equal(t, "text/html", resp.Blocks[1].Cell.Outputs[1].MIME)
		}
	}
	assert.Equal(t, 2, resp.Diagnostics.Cells)
	assert.Equal(t, 1, resp.Diagnostics.CodeCells)
	assert.Empty(t, resp.Diagnostics.Recovery)
}

func TestServer_RenderFormats(t *testing.T) {
	s := newTestServer(nil)

	tests := []struct {
		name        string
		path        string
		body        string
		wantCode    int
		wantType    string
		wantContain string
	}{
		{name: "html", path: "/v1/render?format=html&title=lab", body: notebookJSON, wantCode: http.StatusOK, wantType: echo.MIMETextHTML, wantContain: "<iframe"},
		{name: "text", path: "/v1/render?format=TEXT", body: notebookJSON, wantCode: http.StatusOK, wantType: echo.MIMETextPlain, wantContain: "print('hi')"},
		{name: "bad format", path: "/v1/render?format=pdf", body: notebookJSON, wantCode: http.StatusBadRequest, wantType: echo.MIMEApplicationJSON, wantContain: "format must be one of"},
		{name: "empty body", path: "/v1/render", body: "", wantCode: http.StatusOK, wantType: echo.MIMEApplicationJSON, wantContain: "No content"},
		{name: "not json", path: "/v1/render?format=text", body: "just words", wantCode: http.StatusOK, wantType: echo.MIMETextPlain, wantContain: "just words"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(s, http.MethodPost, tt.path, []byte(tt.body))
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), tt.wantType))
			assert.Contains(t, rec.Body.String(), tt.wantContain)
		})
	}
}

func TestServer_RenderDegradedDiagnostics(t *testing.T) {
	s := newTestServer(nil)
	rec := doRequest(s, http.MethodPost, "/v1/render", []byte(`{"b":1,"a":[2]}`))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"recovery":"schema_mismatch"`)
	assert.Contains(t, rec.Body.String(), `"kind":"raw"`)
}

func TestServer_BodyTooLarge(t *testing.T) {
	s := newTestServer(&Options{MaxBodyBytes: 16})
	rec := doRequest(s, http.MethodPost, "/v1/render", []byte(strings.Repeat("x", 64)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestServer_NotFound(t *testing.T) {
	s := newTestServer(nil)
	rec := doRequest(s, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Not Found"}`, rec.Body.String())
}
