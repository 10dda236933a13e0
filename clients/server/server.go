// Package server provides the GoSausage HTTP API.
package server

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/xob0t/GoSausage/pkg/bitmap"
	"github.com/xob0t/GoSausage/pkg/curve"
	"github.com/xob0t/GoSausage/pkg/generator"
	"github.com/xob0t/GoSausage/pkg/instrument"
)

const (
	maxBody        = 1 << 20
	maxRenders     = 32
	maxPixels      = 1 << 24 // largest canvas one request may render
	maxBenchDepths = 16
)

// ── Render store ──

type render struct {
	Name string
	Data []byte
	Mime string
}

// renderStore keeps the most recent renders so a client can fetch a result
// again without redrawing it. The oldest entry is evicted past maxRenders.
type renderStore struct {
	mu      sync.RWMutex
	renders map[string]*render
	order   []string
}

func newRenderStore() *renderStore {
	return &renderStore{renders: make(map[string]*render)}
}

func (rs *renderStore) add(name string, data []byte, mimeType string) (string, error) {
	id, err := randomID()
	if err != nil {
		return "", err
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.renders[id] = &render{Name: name, Data: data, Mime: mimeType}
	rs.order = append(rs.order, id)
	for len(rs.order) > maxRenders {
		delete(rs.renders, rs.order[0])
		rs.order = rs.order[1:]
	}
	return id, nil
}

func (rs *renderStore) get(id string) (*render, bool) {
	rs.mu.RLock()
	r, ok := rs.renders[id]
	rs.mu.RUnlock()
	return r, ok
}

func (rs *renderStore) listAll() []map[string]interface{} {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	result := make([]map[string]interface{}, 0, len(rs.order))
	for _, id := range rs.order {
		r := rs.renders[id]
		result = append(result, map[string]interface{}{
			"id":   id,
			"name": r.Name,
			"mime": r.Mime,
			"size": len(r.Data),
		})
	}
	return result
}

func (rs *renderStore) remove(id string) bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if _, ok := rs.renders[id]; !ok {
		return false
	}
	delete(rs.renders, id)
	for i, v := range rs.order {
		if v == id {
			rs.order = append(rs.order[:i], rs.order[i+1:]...)
			break
		}
	}
	return true
}

func randomID() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("render id: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// ── Server ──

type srv struct {
	renders *renderStore
}

// NewHandler returns the API routes.
func NewHandler() http.Handler {
	s := &srv{renders: newRenderStore()}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/render", s.handleRender)
	mux.HandleFunc("GET /api/depth", s.handleDepth)
	mux.HandleFunc("POST /api/bench", s.handleBench)
	mux.HandleFunc("GET /api/renders/{id}", s.handleGetRender)
	mux.HandleFunc("DELETE /api/renders/{id}", s.handleDeleteRender)
	mux.HandleFunc("GET /api/renders", s.handleListRenders)
	return mux
}

// RunServe starts the API server. Flags: --port (default 8080) and --open,
// which opens the render list in a browser.
func RunServe(args []string) error {
	port := "8080"
	open := false
	for i, a := range args {
		switch {
		case (a == "--port" || a == "-p") && i+1 < len(args):
			port = args[i+1]
		case a == "--open":
			open = true
		}
	}
	if _, err := strconv.Atoi(port); err != nil {
		return fmt.Errorf("invalid port %q", port)
	}

	addr := ":" + port
	generator.Logger().Info("serving GoSausage API", "url", "http://localhost"+addr)
	if open {
		go openBrowser("http://localhost" + addr + "/api/renders")
	}
	return http.ListenAndServe(addr, NewHandler())
}

// ── Render ──

var mimeTypes = map[string]string{
	"bmp": "image/bmp",
	"png": "image/png",
	"avi": "video/avi",
}

func (s *srv) handleRender(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = "bmp"
	}
	mimeType, ok := mimeTypes[format]
	if !ok {
		http.Error(w, fmt.Sprintf("unsupported format %q: use bmp, png or avi", format), http.StatusBadRequest)
		return
	}

	var cfg generator.Config
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "decode config: "+err.Error(), http.StatusBadRequest)
		return
	}
	cfg.FontPath = "" // never read server-side files on behalf of a client

	p, err := generator.Resolve(cfg)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	if px := int64(p.Spec.Width) * int64(p.Spec.Height); px > maxPixels {
		http.Error(w, fmt.Sprintf("%dx%d canvas exceeds the %d pixel limit", p.Spec.Width, p.Spec.Height, maxPixels),
			http.StatusRequestEntityTooLarge)
		return
	}

	var buf bytes.Buffer
	if err := generator.GenerateToWriter(&buf, format, cfg); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	name := "sausage." + format
	id, err := s.renders.add(name, buf.Bytes(), mimeType)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	generator.Logger().Debug("rendered", "id", id, "format", format, "bytes", buf.Len())

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	w.Header().Set("X-Render-Id", id)
	w.Write(buf.Bytes())
}

// statusFor maps render errors to HTTP status codes. Every failure here is
// caused by the request except an I/O failure.
func statusFor(err error) int {
	if errors.Is(err, bitmap.ErrIO) {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

// ── Depth ──

func (s *srv) handleDepth(w http.ResponseWriter, r *http.Request) {
	width, err := queryInt(r, "width", 0)
	if err != nil || width <= 0 {
		http.Error(w, "width must be a positive integer", http.StatusBadRequest)
		return
	}
	lineLen, err := queryInt(r, "line_len", 3)
	if err != nil || lineLen <= 0 {
		http.Error(w, "line_len must be a positive integer", http.StatusBadRequest)
		return
	}
	depth := curve.MaxDepthForWidth(width, lineLen)
	writeJSON(w, map[string]int{
		"depth": depth,
		"span":  curve.SpanForDepth(depth, lineLen),
	})
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

// ── Bench ──

type benchRequest struct {
	Depths  []int  `json:"depths"`
	LineLen int    `json:"lineLen"`
	Mode    string `json:"mode"`
}

type benchSample struct {
	Depth     int   `json:"depth"`
	Span      int   `json:"span"`
	Calls     int64 `json:"calls"`
	Leaves    int64 `json:"leaves"`
	Lines     int64 `json:"lines"`
	Pixels    int64 `json:"pixels"`
	MaxLevel  int64 `json:"maxLevel"`
	ElapsedNS int64 `json:"elapsedNs"`
}

func (s *srv) handleBench(w http.ResponseWriter, r *http.Request) {
	var req benchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Depths) == 0 {
		req.Depths = []int{0, 1, 2, 3, 4, 5}
	}
	if req.LineLen == 0 {
		req.LineLen = 3
	}
	if len(req.Depths) > maxBenchDepths {
		http.Error(w, fmt.Sprintf("%d depths requested, limit %d", len(req.Depths), maxBenchDepths), http.StatusBadRequest)
		return
	}

	samples, err := instrument.Measure(req.Depths, req.LineLen, instrument.Mode(req.Mode))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	out := make([]benchSample, len(samples))
	for i, sm := range samples {
		out[i] = benchSample{
			Depth:     sm.Depth,
			Span:      sm.Span,
			Calls:     sm.Counts.Calls,
			Leaves:    sm.Counts.Leaves,
			Lines:     sm.Counts.Lines,
			Pixels:    sm.Counts.Pixels,
			MaxLevel:  sm.Counts.MaxLevel,
			ElapsedNS: sm.Elapsed.Nanoseconds(),
		}
	}
	writeJSON(w, out)
}

// ── Render serving ──

func (s *srv) handleGetRender(w http.ResponseWriter, r *http.Request) {
	rn, ok := s.renders.get(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", rn.Mime)
	w.Write(rn.Data)
}

func (s *srv) handleListRenders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.renders.listAll())
}

func (s *srv) handleDeleteRender(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.renders.remove(id) {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, map[string]string{"status": "deleted", "id": id})
}

// ── Helpers ──

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	cmd.Start()
}
