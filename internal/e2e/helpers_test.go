package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/naveenkr153/spectra-sales-review/internal/httpapi"
	"github.com/naveenkr153/spectra-sales-review/internal/merge"
	"github.com/naveenkr153/spectra-sales-review/internal/pipeline"
	"github.com/naveenkr153/spectra-sales-review/internal/submit"
	"github.com/naveenkr153/spectra-sales-review/pkg/types"
)

// endpoint is a fake analysis service. When gate is non-nil every request blocks
// until the gate is closed or the client goes away.
type endpoint struct {
	mu      sync.Mutex
	status  int
	body    string
	gate    chan struct{}
	arrived chan struct{}
	names   []string
	files   []string
	sizes   []int
}

func newEndpoint(status int, body string) *endpoint {
	return &endpoint{status: status, body: body, arrived: make(chan struct{}, 8)}
}

func (e *endpoint) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f, fh, err := r.FormFile("file")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	data, _ := io.ReadAll(f)
	_ = f.Close()
	e.mu.Lock()
	e.names = append(e.names, r.FormValue("sessionName"))
	e.files = append(e.files, fh.Filename)
	e.sizes = append(e.sizes, len(data))
	gate := e.gate
	e.mu.Unlock()
	e.arrived <- struct{}{}
	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}
	w.WriteHeader(e.status)
	_, _ = w.Write([]byte(e.body))
}

// seen returns copies of what the endpoint received.
func (e *endpoint) seen() (names, files []string, sizes []int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.names...), append([]string(nil), e.files...), append([]int(nil), e.sizes...)
}

type harness struct {
	t   *testing.T
	api *httptest.Server
	ep  *endpoint
	p   *pipeline.Pipeline
	pub *pipeline.MemoryPublisher
}

func newHarness(t *testing.T, ep *endpoint) *harness {
	t.Helper()
	epSrv := httptest.NewServer(ep)
	t.Cleanup(epSrv.Close)

	pub := pipeline.NewMemoryPublisher()
	p := pipeline.NewWithConfig(pipeline.Config{
		Merger:        merge.New(merge.Options{Workers: 2}),
		Submitter:     submit.NewClient(epSrv.URL, epSrv.Client()),
		SubmitTimeout: 10 * time.Second,
		Publisher:     pub,
	})
	api := httptest.NewServer(httpapi.NewMux(p))
	t.Cleanup(func() {
		api.Close()
		p.Close()
	})
	return &harness{t: t, api: api, ep: ep, p: p, pub: pub}
}

func (h *harness) do(method, path string, body io.Reader, contentType string) *http.Response {
	h.t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), method, h.api.URL+path, body)
	if err != nil {
		h.t.Fatalf("new req: %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		h.t.Fatalf("do %s %s: %v", method, path, err)
	}
	h.t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func (h *harness) setName(name string) {
	h.t.Helper()
	b, _ := json.Marshal(types.SetNameRequest{Name: name})
	if resp := h.do(http.MethodPut, "/session/name", bytes.NewReader(b), "application/json"); resp.StatusCode != http.StatusOK {
		h.t.Fatalf("set name status=%d", resp.StatusCode)
	}
}

func (h *harness) upload(files map[string][]byte, order ...string) types.AddFilesResponse {
	h.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, name := range order {
		fw, err := mw.CreateFormFile("files", name)
		if err != nil {
			h.t.Fatalf("create part: %v", err)
		}
		_, _ = fw.Write(files[name])
	}
	_ = mw.Close()
	resp := h.do(http.MethodPost, "/session/files", &buf, mw.FormDataContentType())
	if resp.StatusCode != http.StatusOK {
		h.t.Fatalf("upload status=%d", resp.StatusCode)
	}
	return decode[types.AddFilesResponse](h.t, resp)
}

func (h *harness) action(path string) types.OperationResponse {
	h.t.Helper()
	resp := h.do(http.MethodPost, path, nil, "")
	if resp.StatusCode != http.StatusOK {
		h.t.Fatalf("%s status=%d", path, resp.StatusCode)
	}
	return decode[types.OperationResponse](h.t, resp)
}

func (h *harness) status() types.SessionResponse {
	h.t.Helper()
	return decode[types.SessionResponse](h.t, h.do(http.MethodGet, "/session", nil, ""))
}

func (h *harness) waitState(state string) types.SessionResponse {
	h.t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for {
		st := h.status()
		if st.State == state {
			return st
		}
		if time.Now().After(deadline) {
			h.t.Fatalf("timed out waiting for %s; last=%+v", state, st)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func (h *harness) waitArrived() {
	h.t.Helper()
	select {
	case <-h.ep.arrived:
	case <-time.After(10 * time.Second):
		h.t.Fatalf("submission never reached the endpoint")
	}
}

// compileReady names the session, uploads two documents and waits for the preview.
func (h *harness) compileReady(name string) types.SessionResponse {
	h.t.Helper()
	h.setName(name)
	h.upload(map[string][]byte{
		"north.pdf": merge.Blank(merge.Letter),
		"south.pdf": merge.Blank(merge.Letter, merge.Letter),
	}, "north.pdf", "south.pdf")
	if op := h.action("/session/compile"); !op.Started {
		h.t.Fatalf("compile not started: %+v", op)
	}
	return h.waitState("previewing")
}
