package pipeline

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/naveenkr153/spectra-sales-review/internal/fileset"
)

// Pipeline owns the single active review session. Construct one with New or
// NewWithConfig and pass it to whatever drives it.
type Pipeline struct {
	mu       sync.Mutex
	state    State
	name     string
	files    fileset.Set
	artifact *Artifact
	notice   Notice

	// active attempt: its cancel func, generation and handle
	gen    uint64
	cancel context.CancelFunc
	op     *Op
	opSeq  uint64
	closed bool

	merger        Merger
	submitter     Submitter
	read          ReadFunc
	submitTimeout time.Duration

	base      context.Context
	stop      context.CancelFunc
	wg        sync.WaitGroup
	publisher EventPublisher
	log       zerolog.Logger
	now       func() time.Time
}

// New returns a Pipeline using m to merge and s to submit.
func New(m Merger, s Submitter) *Pipeline {
	return NewWithConfig(Config{Merger: m, Submitter: s})
}

// SetEventPublisher installs p as the lifecycle event sink. nil restores the no-op sink.
func (p *Pipeline) SetEventPublisher(pub EventPublisher) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if pub == nil {
		pub = noopPublisher{}
	}
	p.publisher = pub
}

// SetName sets the session name. It is a no-op (false) while an attempt is in flight.
// Renaming while previewing discards the compiled document.
func (p *Pipeline) SetName(name string) bool {
	p.mu.Lock()
	if p.state.busy() {
		p.mu.Unlock()
		return false
	}
	changed := p.name != name
	p.name = name
	p.editedLocked(changed)
	return true
}

// AddFiles appends inputs not already in the session, keeping arrival order. It
// returns how many were added and false if the session is currently locked.
func (p *Pipeline) AddFiles(files ...fileset.InputFile) (int, bool) {
	p.mu.Lock()
	if p.state.busy() {
		p.mu.Unlock()
		return 0, false
	}
	n := p.files.Add(files...)
	p.editedLocked(n > 0)
	return n, true
}

// RemoveFile drops the entry matching f's (name, size). Removing an absent file is a
// no-op; the result is false only when the session is locked.
func (p *Pipeline) RemoveFile(f fileset.InputFile) (removed, ok bool) {
	p.mu.Lock()
	if p.state.busy() {
		p.mu.Unlock()
		return false, false
	}
	removed = p.files.Remove(f)
	p.editedLocked(removed)
	return removed, true
}

// ClearFiles empties the file set.
func (p *Pipeline) ClearFiles() bool {
	p.mu.Lock()
	if p.state.busy() {
		p.mu.Unlock()
		return false
	}
	changed := p.files.Len() > 0
	p.files.Clear()
	p.editedLocked(changed)
	return true
}

// editedLocked finishes an accepted edit and releases p.mu. A change made while
// previewing invalidates the artifact, which no longer matches the session.
func (p *Pipeline) editedLocked(changed bool) {
	if !changed || p.state != StatePreviewing {
		p.mu.Unlock()
		return
	}
	p.artifact = nil
	p.state = StateIdle
	name := p.name
	pub := p.publisher
	p.mu.Unlock()
	pub.Publish(Event{Name: "preview_closed", Session: name})
}

// DismissNotice clears the current notice.
func (p *Pipeline) DismissNotice() {
	p.mu.Lock()
	p.notice = Notice{Kind: NoticeNone}
	p.mu.Unlock()
}

// ClosePreview discards the artifact and leaves previewing. The session is kept.
func (p *Pipeline) ClosePreview() bool {
	p.mu.Lock()
	if p.state != StatePreviewing {
		p.mu.Unlock()
		return false
	}
	p.artifact = nil
	p.state = StateIdle
	name := p.name
	pub := p.publisher
	p.mu.Unlock()
	pub.Publish(Event{Name: "preview_closed", Session: name})
	return true
}

// canCompileLocked is the compile guard.
func (p *Pipeline) canCompileLocked() bool {
	return !p.closed && !p.state.busy() && strings.TrimSpace(p.name) != "" && p.files.Len() > 0
}

// beginLocked retires any previous token and issues a fresh one for a new attempt.
// Callers hold p.mu.
func (p *Pipeline) beginLocked(kind OpKind) (context.Context, *Op) {
	if p.cancel != nil {
		p.cancel()
	}
	ctx, cancel := context.WithCancel(p.base)
	p.gen++
	p.opSeq++
	p.cancel = cancel
	p.op = newOp(kind, p.opSeq, p.gen, ctx)
	p.wg.Add(1)
	return ctx, p.op
}
