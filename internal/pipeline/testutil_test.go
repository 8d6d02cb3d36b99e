package pipeline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/naveenkr153/spectra-sales-review/internal/fileset"
	"github.com/naveenkr153/spectra-sales-review/internal/merge"
	"github.com/naveenkr153/spectra-sales-review/internal/submit"
)

// pdf returns a fixture with the given number of Letter pages.
func pdf(pages int) []byte {
	sizes := make([]merge.PageSize, pages)
	for i := range sizes {
		sizes[i] = merge.Letter
	}
	return merge.Blank(sizes...)
}

func waitOp(t *testing.T, op *Op) Result {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	r, err := op.Wait(ctx)
	if err != nil {
		t.Fatalf("op %s did not finish: %v", op.ID, err)
	}
	return r
}

func waitClosed(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

// gatedReader blocks on files named "slow.pdf" until released or, when honourCtx is
// set, until the attempt is cancelled.
type gatedReader struct {
	started   chan struct{}
	release   chan struct{}
	honourCtx bool
	once      sync.Once
}

func newGatedReader(honourCtx bool) *gatedReader {
	return &gatedReader{started: make(chan struct{}), release: make(chan struct{}), honourCtx: honourCtx}
}

func (g *gatedReader) read(ctx context.Context, f fileset.InputFile) ([]byte, error) {
	if f.Name == "slow.pdf" {
		g.once.Do(func() { close(g.started) })
		if g.honourCtx {
			select {
			case <-g.release:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		} else {
			<-g.release
		}
	}
	return fileset.ReadAll(ctx, f)
}

type fakeSubmitter struct {
	mu        sync.Mutex
	got       []submit.Submission
	started   chan struct{}
	release   chan struct{}
	ignoreCtx bool
	err       error
	once      sync.Once
}

func (s *fakeSubmitter) Submit(ctx context.Context, sub submit.Submission) (submit.Receipt, error) {
	s.mu.Lock()
	s.got = append(s.got, sub)
	s.mu.Unlock()
	if s.started != nil {
		s.once.Do(func() { close(s.started) })
	}
	if s.release != nil {
		if s.ignoreCtx {
			<-s.release
		} else {
			select {
			case <-s.release:
			case <-ctx.Done():
				return submit.Receipt{}, ctx.Err()
			}
		}
	}
	if s.err != nil {
		return submit.Receipt{}, s.err
	}
	return submit.Receipt{StatusCode: 200, Body: "ok"}, nil
}

func (s *fakeSubmitter) submissions() []submit.Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]submit.Submission(nil), s.got...)
}

// newTestPipeline returns a pipeline with a real merger and the given collaborators.
func newTestPipeline(t *testing.T, read ReadFunc, sub Submitter) (*Pipeline, *MemoryPublisher) {
	t.Helper()
	pub := NewMemoryPublisher()
	p := NewWithConfig(Config{
		Merger:    merge.New(merge.Options{Workers: 2}),
		Submitter: sub,
		Read:      read,
		Publisher: pub,
	})
	t.Cleanup(p.Close)
	return p, pub
}

// seed names the session and adds fixtures with the given page counts.
func seed(t *testing.T, p *Pipeline, name string, pages ...int) {
	t.Helper()
	if !p.SetName(name) {
		t.Fatalf("SetName rejected")
	}
	for i, n := range pages {
		f := fileset.FromBytes(string(rune('a'+i))+".pdf", pdf(n))
		if _, ok := p.AddFiles(f); !ok {
			t.Fatalf("AddFiles rejected")
		}
	}
}

// compileToPreview compiles and asserts the pipeline lands in previewing.
func compileToPreview(t *testing.T, p *Pipeline) {
	t.Helper()
	op, ok := p.Compile()
	if !ok {
		t.Fatalf("compile guard unexpectedly unmet: %+v", p.Snapshot())
	}
	if r := waitOp(t, op); r.Outcome != OutcomeOK {
		t.Fatalf("compile outcome=%s err=%v", r.Outcome, r.Err)
	}
	if st := p.State(); st != StatePreviewing {
		t.Fatalf("state=%s", st)
	}
}

func assertPristine(t *testing.T, p *Pipeline) {
	t.Helper()
	s := p.Snapshot()
	if s.State != StateIdle || s.SessionName != "" || len(s.Files) != 0 || s.Notice.Kind != NoticeNone || s.Artifact != nil || s.ActiveOp != "" {
		t.Fatalf("expected pristine idle pipeline, got %+v", s)
	}
}
