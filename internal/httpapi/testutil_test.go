package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/naveenkr153/spectra-sales-review/internal/submit"
	"github.com/naveenkr153/spectra-sales-review/pkg/types"
)

type recordingSubmitter struct {
	mu  sync.Mutex
	got submit.Submission
}

func (r *recordingSubmitter) Submit(ctx context.Context, s submit.Submission) (submit.Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = s
	return submit.Receipt{StatusCode: http.StatusOK, Body: `{"queued":true}`}, nil
}

// waitState polls GET /session until the pipeline reports state.
func waitState(t *testing.T, h http.Handler, state string) types.SessionResponse {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/session", nil))
		var st types.SessionResponse
		if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
			t.Fatalf("json: %v", err)
		}
		if st.State == state {
			return st
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s; last=%+v", state, st)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
