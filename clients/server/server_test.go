package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xob0t/GoSausage/pkg/bitmap"
)

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRenderBMP(t *testing.T) {
	h := NewHandler()
	rec := do(t, h, http.MethodPost, "/api/render?format=bmp",
		`{"width": 100, "height": 100, "format": "mono1", "depth": 2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/bmp" {
		t.Errorf("Content-Type = %q", ct)
	}
	spec := bitmap.ImageSpec{Width: 100, Height: 100, Format: bitmap.Mono1}
	wantSize := spec.FileSize()
	wantOffset := 14 + 40 + bitmap.Mono1.PaletteLen()
	fh, ih, err := bitmap.ParseHeader(rec.Body.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if int(fh.FileSize) != wantSize || int(fh.DataOffset) != wantOffset || ih.BitsPerPixel != 1 {
		t.Errorf("headers = %+v %+v, want size %d offset %d", fh, ih, wantSize, wantOffset)
	}
	if rec.Body.Len() != wantSize {
		t.Errorf("body = %d bytes, want %d", rec.Body.Len(), wantSize)
	}

	// The render is kept and can be fetched again.
	id := rec.Header().Get("X-Render-Id")
	again := do(t, h, http.MethodGet, "/api/renders/"+id, "")
	if again.Code != http.StatusOK || !bytes.Equal(again.Body.Bytes(), rec.Body.Bytes()) {
		t.Errorf("GET /api/renders/%s: status %d, %d bytes", id, again.Code, again.Body.Len())
	}

	var list []map[string]interface{}
	if err := json.Unmarshal(do(t, h, http.MethodGet, "/api/renders", "").Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0]["id"] != id {
		t.Errorf("list = %v", list)
	}

	if rec := do(t, h, http.MethodDelete, "/api/renders/"+id, ""); rec.Code != http.StatusOK {
		t.Errorf("DELETE status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/renders/"+id, ""); rec.Code != http.StatusNotFound {
		t.Errorf("GET after delete: status = %d, want 404", rec.Code)
	}
}

func TestRenderFormats(t *testing.T) {
	h := NewHandler()
	for format, magic := range map[string]string{"png": "\x89PNG", "avi": "RIFF"} {
		rec := do(t, h, http.MethodPost, "/api/render?format="+format, `{"depth": 1}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d: %s", format, rec.Code, rec.Body)
		}
		if !bytes.HasPrefix(rec.Body.Bytes(), []byte(magic)) {
			t.Errorf("%s: body does not start with %q", format, magic)
		}
	}
}

func TestRenderRejects(t *testing.T) {
	h := NewHandler()
	tests := []struct {
		name, target, body string
	}{
		{"format", "/api/render?format=gif", `{}`},
		{"json", "/api/render", `{"width": `},
		{"unknown field", "/api/render", `{"colour": "red"}`},
		{"depth", "/api/render", `{"depth": 8}`},
		{"width", "/api/render", `{"width": -1}`},
		{"frame seconds", "/api/render?format=avi", `{"frameSeconds": 1099511627776}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := do(t, h, http.MethodPost, tt.target, tt.body); rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
	// Valid but too large to render on a shared server.
	for _, body := range []string{
		`{"depth": 7, "format": "mono1", "caption": true}`,
		`{"width": 5000, "height": 5000, "format": "mono1"}`,
	} {
		if rec := do(t, h, http.MethodPost, "/api/render?format=png", body); rec.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("%s: status = %d, want 413", body, rec.Code)
		}
	}
	if rec := do(t, h, http.MethodGet, "/api/render", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /api/render: status = %d, want 405", rec.Code)
	}
}

func TestDepth(t *testing.T) {
	h := NewHandler()
	rec := do(t, h, http.MethodGet, "/api/depth?width=100&line_len=3", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var got struct{ Depth, Span int }
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Depth != 3 || got.Span != 192 {
		t.Errorf("got %+v, want depth 3 span 192", got)
	}

	for _, q := range []string{"", "?width=0", "?width=x", "?width=10&line_len=-1"} {
		if rec := do(t, h, http.MethodGet, "/api/depth"+q, ""); rec.Code != http.StatusBadRequest {
			t.Errorf("%q: status = %d, want 400", q, rec.Code)
		}
	}
}

func TestBench(t *testing.T) {
	h := NewHandler()
	rec := do(t, h, http.MethodPost, "/api/bench", `{"depths": [0, 1, 2], "lineLen": 3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var samples []benchSample
	if err := json.Unmarshal(rec.Body.Bytes(), &samples); err != nil {
		t.Fatal(err)
	}
	if len(samples) != 3 {
		t.Fatalf("got %d samples, want 3", len(samples))
	}
	for i, want := range []int64{1, 8, 64} {
		if samples[i].Leaves != want {
			t.Errorf("depth %d: leaves = %d, want %d", i, samples[i].Leaves, want)
		}
	}

	if rec := do(t, h, http.MethodPost, "/api/bench", `{"depths": [9]}`); rec.Code != http.StatusBadRequest {
		t.Errorf("depth 9: status = %d, want 400", rec.Code)
	}
	many := "[" + strings.Repeat("0,", maxBenchDepths) + "0]"
	if rec := do(t, h, http.MethodPost, "/api/bench", `{"depths": `+many+`}`); rec.Code != http.StatusBadRequest {
		t.Errorf("%d depths: status = %d, want 400", maxBenchDepths+1, rec.Code)
	}
}

func TestRenderStoreEvicts(t *testing.T) {
	rs := newRenderStore()
	first, err := rs.add("a", nil, "image/bmp")
	if err != nil {
		t.Fatal(err)
	}
	seen := map[string]bool{first: true}
	for i := 0; i < maxRenders; i++ {
		id, err := rs.add("b", nil, "image/bmp")
		if err != nil {
			t.Fatal(err)
		}
		if len(id) != 16 || seen[id] {
			t.Fatalf("id %q is malformed or repeated", id)
		}
		seen[id] = true
	}
	if _, ok := rs.get(first); ok {
		t.Error("oldest render should have been evicted")
	}
	if n := len(rs.listAll()); n != maxRenders {
		t.Errorf("len = %d, want %d", n, maxRenders)
	}
}
