package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/naveenkr153/spectra-sales-review/internal/fileset"
	"github.com/naveenkr153/spectra-sales-review/internal/merge"
	"github.com/naveenkr153/spectra-sales-review/internal/submit"
)

func TestNewWithConfigDefaults(t *testing.T) {
	p := NewWithConfig(Config{})
	defer p.Close()
	if p.merger == nil || p.read == nil || p.publisher == nil || p.now == nil {
		t.Fatalf("defaults not applied: %+v", p)
	}
	assertPristine(t, p)
	if !p.Ready() {
		t.Fatalf("expected ready")
	}
}

func TestCompileGuard_EmptyName(t *testing.T) {
	p, pub := newTestPipeline(t, nil, nil)
	seed(t, p, "", 1)
	op, ok := p.Compile()
	if ok || op != nil {
		t.Fatalf("expected guard to block compile")
	}
	s := p.Snapshot()
	if s.State != StateIdle || s.Notice.Kind != NoticeNone || s.CanCompile {
		t.Fatalf("unexpected snapshot: %+v", s)
	}
	if len(pub.Events()) != 0 {
		t.Fatalf("guard miss published events: %v", pub.Names())
	}
	// whitespace-only names do not satisfy the guard either
	p.SetName("   ")
	if _, ok := p.Compile(); ok {
		t.Fatalf("blank name passed the guard")
	}
}

func TestCompileGuard_NoFiles(t *testing.T) {
	p, _ := newTestPipeline(t, nil, nil)
	p.SetName("Q3")
	if _, ok := p.Compile(); ok {
		t.Fatalf("expected guard to block compile without files")
	}
	if st := p.State(); st != StateIdle {
		t.Fatalf("state=%s", st)
	}
}

func TestCompileSuccessEntersPreview(t *testing.T) {
	p, pub := newTestPipeline(t, nil, nil)
	seed(t, p, "Q3  Sales Review", 2, 3, 1)
	compileToPreview(t, p)

	a, ok := p.Preview()
	if !ok {
		t.Fatalf("expected preview artifact")
	}
	if a.Pages != 6 || a.MimeType != "application/pdf" {
		t.Fatalf("artifact pages=%d mime=%s", a.Pages, a.MimeType)
	}
	if n, err := merge.PageCount(a.Data); err != nil || n != 6 {
		t.Fatalf("merged page count=%d err=%v", n, err)
	}
	if a.Filename != "Q3_Sales_Review_compiled.pdf" {
		t.Fatalf("filename=%q", a.Filename)
	}
	s := p.Snapshot()
	if s.Artifact == nil || s.Artifact.Pages != 6 || s.ActiveOp != "" {
		t.Fatalf("snapshot=%+v", s)
	}
	names := pub.Names()
	if len(names) != 2 || names[0] != "compile_start" || names[1] != "compile_done" {
		t.Fatalf("events=%v", names)
	}
}

func TestCompileMalformedFails(t *testing.T) {
	p, _ := newTestPipeline(t, nil, nil)
	seed(t, p, "Q3", 1)
	p.AddFiles(fileset.FromBytes("broken.pdf", []byte("definitely not a pdf")))

	op, ok := p.Compile()
	if !ok {
		t.Fatalf("compile did not start")
	}
	r := waitOp(t, op)
	if r.Outcome != OutcomeFailed || !merge.IsParseError(r.Err) {
		t.Fatalf("outcome=%s err=%v", r.Outcome, r.Err)
	}
	s := p.Snapshot()
	if s.State != StateFailed || s.Notice.Kind != NoticeError || s.Notice.Message != msgCompileParse {
		t.Fatalf("snapshot=%+v", s)
	}
	if s.SessionName != "Q3" || len(s.Files) != 2 || s.Artifact != nil {
		t.Fatalf("session not preserved: %+v", s)
	}
	// the operator can retry straight away
	if !s.CanCompile {
		t.Fatalf("expected compile to be available after failure")
	}
	p.RemoveFile(fileset.InputFile{Name: "broken.pdf", Size: int64(len("definitely not a pdf"))})
	compileToPreview(t, p)
}

func TestCompileReadFailureNamesFile(t *testing.T) {
	boom := errors.New("disk gone")
	read := func(ctx context.Context, f fileset.InputFile) ([]byte, error) {
		if f.Name == "b.pdf" {
			return nil, boom
		}
		return fileset.ReadAll(ctx, f)
	}
	p, _ := newTestPipeline(t, read, nil)
	seed(t, p, "Q3", 1, 1)
	op, _ := p.Compile()
	r := waitOp(t, op)
	if r.Outcome != OutcomeFailed || !errors.Is(r.Err, boom) {
		t.Fatalf("outcome=%s err=%v", r.Outcome, r.Err)
	}
	if msg := p.Snapshot().Notice.Message; !strings.Contains(msg, "b.pdf") {
		t.Fatalf("message %q does not name the file", msg)
	}
}

func TestCancelDuringCompileIsSilent(t *testing.T) {
	g := newGatedReader(true)
	p, pub := newTestPipeline(t, g.read, nil)
	seed(t, p, "Q3", 1)
	p.AddFiles(fileset.FromBytes("slow.pdf", pdf(1)))

	op, ok := p.Compile()
	if !ok {
		t.Fatalf("compile did not start")
	}
	waitClosed(t, g.started, "slow read")
	if _, ok := p.Compile(); ok {
		t.Fatalf("second compile started while compiling")
	}
	if !p.Cancel() {
		t.Fatalf("cancel reported nothing in flight")
	}
	r := waitOp(t, op)
	if r.Outcome != OutcomeCancelled {
		t.Fatalf("outcome=%s", r.Outcome)
	}
	s := p.Snapshot()
	if s.State != StateCancelled || s.Notice.Kind != NoticeNone {
		t.Fatalf("snapshot=%+v", s)
	}
	if s.SessionName != "Q3" || len(s.Files) != 2 {
		t.Fatalf("session not preserved: %+v", s)
	}
	if got := pub.Names(); got[len(got)-1] != "compile_cancelled" {
		t.Fatalf("events=%v", got)
	}
	if !s.CanCompile {
		t.Fatalf("expected compile to be available after cancellation")
	}
}

func TestCompileFromPreviewReplacesArtifact(t *testing.T) {
	p, _ := newTestPipeline(t, nil, nil)
	seed(t, p, "Q3", 1)
	compileToPreview(t, p)
	first, _ := p.Preview()

	p.AddFiles(fileset.FromBytes("extra.pdf", pdf(2)))
	compileToPreview(t, p)
	second, _ := p.Preview()
	if first.Pages != 1 || second.Pages != 3 {
		t.Fatalf("pages first=%d second=%d", first.Pages, second.Pages)
	}
}

func TestClosePreviewKeepsSession(t *testing.T) {
	p, pub := newTestPipeline(t, nil, nil)
	seed(t, p, "Q3", 1, 1)
	if p.ClosePreview() {
		t.Fatalf("close preview outside previewing should be a no-op")
	}
	compileToPreview(t, p)
	if !p.ClosePreview() {
		t.Fatalf("close preview failed")
	}
	s := p.Snapshot()
	if s.State != StateIdle || s.Artifact != nil || s.SessionName != "Q3" || len(s.Files) != 2 {
		t.Fatalf("snapshot=%+v", s)
	}
	if _, ok := p.Preview(); ok {
		t.Fatalf("artifact still previewable after close")
	}
	if _, ok := p.Submit(); ok {
		t.Fatalf("submit allowed without a preview")
	}
	if got := pub.Names(); got[len(got)-1] != "preview_closed" {
		t.Fatalf("events=%v", got)
	}
}

func TestEditWhilePreviewingDiscardsArtifact(t *testing.T) {
	edits := map[string]func(p *Pipeline){
		"rename": func(p *Pipeline) { p.SetName("Q4") },
		"add":    func(p *Pipeline) { p.AddFiles(fileset.FromBytes("late.pdf", pdf(1))) },
		"remove": func(p *Pipeline) { p.RemoveFile(fileset.InputFile{Name: "a.pdf", Size: int64(len(pdf(1)))}) },
		"clear":  func(p *Pipeline) { p.ClearFiles() },
	}
	for name, edit := range edits {
		t.Run(name, func(t *testing.T) {
			sub := &fakeSubmitter{}
			p, pub := newTestPipeline(t, nil, sub)
			seed(t, p, "Q3", 1, 2)
			compileToPreview(t, p)

			edit(p)
			s := p.Snapshot()
			if s.State != StateIdle || s.Artifact != nil {
				t.Fatalf("snapshot=%+v", s)
			}
			if _, ok := p.Preview(); ok {
				t.Fatalf("stale artifact still previewable")
			}
			if _, ok := p.Submit(); ok {
				t.Fatalf("stale artifact submittable")
			}
			if len(sub.submissions()) != 0 {
				t.Fatalf("stale artifact was submitted")
			}
			if got := pub.Names(); got[len(got)-1] != "preview_closed" {
				t.Fatalf("events=%v", got)
			}
		})
	}
}

func TestNoopEditKeepsPreview(t *testing.T) {
	p, _ := newTestPipeline(t, nil, nil)
	seed(t, p, "Q3", 1)
	compileToPreview(t, p)

	p.SetName("Q3")
	p.AddFiles(fileset.FromBytes("a.pdf", pdf(1)))
	if removed, ok := p.RemoveFile(fileset.InputFile{Name: "missing.pdf", Size: 1}); removed || !ok {
		t.Fatalf("removed=%v ok=%v", removed, ok)
	}
	if st := p.State(); st != StatePreviewing {
		t.Fatalf("state=%s", st)
	}
	if _, ok := p.Preview(); !ok {
		t.Fatalf("expected preview to survive no-op edits")
	}
}

func TestRecompileAfterEditSubmitsNewArtifact(t *testing.T) {
	sub := &fakeSubmitter{}
	p, _ := newTestPipeline(t, nil, sub)
	seed(t, p, "Q3", 1)
	compileToPreview(t, p)

	p.AddFiles(fileset.FromBytes("late.pdf", pdf(2)))
	compileToPreview(t, p)
	a, _ := p.Preview()
	op, ok := p.Submit()
	if !ok {
		t.Fatalf("submit did not start")
	}
	if r := waitOp(t, op); r.Outcome != OutcomeOK {
		t.Fatalf("outcome=%s err=%v", r.Outcome, r.Err)
	}
	got := sub.submissions()
	if len(got) != 1 || string(got[0].Data) != string(a.Data) || a.Pages != 3 {
		t.Fatalf("submitted %d docs, artifact pages=%d", len(got), a.Pages)
	}
}

func TestSubmitSuccessClearsSession(t *testing.T) {
	sub := &fakeSubmitter{}
	p, pub := newTestPipeline(t, nil, sub)
	seed(t, p, "Q3  Sales Review", 2, 1)
	compileToPreview(t, p)
	a, _ := p.Preview()

	op, ok := p.Submit()
	if !ok {
		t.Fatalf("submit did not start")
	}
	r := waitOp(t, op)
	if r.Outcome != OutcomeOK || r.Receipt == nil || r.Receipt.StatusCode != 200 {
		t.Fatalf("result=%+v", r)
	}
	got := sub.submissions()
	if len(got) != 1 {
		t.Fatalf("submissions=%d", len(got))
	}
	if got[0].SessionName != "Q3  Sales Review" || got[0].Filename != "Q3_Sales_Review_compiled.pdf" || got[0].MimeType != "application/pdf" {
		t.Fatalf("submission=%+v", got[0])
	}
	if string(got[0].Data) != string(a.Data) {
		t.Fatalf("submitted bytes differ from the previewed artifact")
	}
	s := p.Snapshot()
	if s.State != StateIdle || s.SessionName != "" || len(s.Files) != 0 || s.Artifact != nil {
		t.Fatalf("snapshot=%+v", s)
	}
	if s.Notice.Kind != NoticeSuccess || s.Notice.Message == "" {
		t.Fatalf("notice=%+v", s.Notice)
	}
	names := pub.Names()
	if names[len(names)-2] != "submit_start" || names[len(names)-1] != "submit_done" {
		t.Fatalf("events=%v", names)
	}
}

func TestSubmitNonOKEchoesStatus(t *testing.T) {
	sub := &fakeSubmitter{err: &submit.StatusError{StatusCode: 503, Status: "Service Unavailable", Body: "try later"}}
	p, _ := newTestPipeline(t, nil, sub)
	seed(t, p, "Q3", 1)
	compileToPreview(t, p)
	op, _ := p.Submit()
	if r := waitOp(t, op); r.Outcome != OutcomeFailed {
		t.Fatalf("outcome=%s", r.Outcome)
	}
	s := p.Snapshot()
	if s.State != StateFailed || s.Notice.Kind != NoticeError {
		t.Fatalf("snapshot=%+v", s)
	}
	for _, want := range []string{"503", "Service Unavailable", "try later"} {
		if !strings.Contains(s.Notice.Message, want) {
			t.Fatalf("message %q missing %q", s.Notice.Message, want)
		}
	}
	if s.SessionName != "Q3" || len(s.Files) != 1 || s.Artifact != nil {
		t.Fatalf("session not preserved: %+v", s)
	}
}

func TestSubmitWithoutEndpointFails(t *testing.T) {
	p, _ := newTestPipeline(t, nil, nil)
	seed(t, p, "Q3", 1)
	compileToPreview(t, p)
	op, _ := p.Submit()
	if r := waitOp(t, op); r.Outcome != OutcomeFailed {
		t.Fatalf("outcome=%s", r.Outcome)
	}
}

func TestSubmitTimeoutIsAFailure(t *testing.T) {
	sub := &fakeSubmitter{release: make(chan struct{})}
	defer close(sub.release)
	p := NewWithConfig(Config{Submitter: sub, SubmitTimeout: 20 * time.Millisecond})
	defer p.Close()
	seed(t, p, "Q3", 1)
	compileToPreview(t, p)
	op, _ := p.Submit()
	r := waitOp(t, op)
	if r.Outcome != OutcomeFailed || !errors.Is(r.Err, context.DeadlineExceeded) {
		t.Fatalf("outcome=%s err=%v", r.Outcome, r.Err)
	}
}

func TestSubmitTransportErrorIsAFailure(t *testing.T) {
	sub := &fakeSubmitter{err: errors.New("dial tcp 127.0.0.1:9: connect: connection refused")}
	p, _ := newTestPipeline(t, nil, sub)
	seed(t, p, "Q3", 1)
	compileToPreview(t, p)
	op, _ := p.Submit()
	if r := waitOp(t, op); r.Outcome != OutcomeFailed {
		t.Fatalf("outcome=%s", r.Outcome)
	}
	s := p.Snapshot()
	if s.State != StateFailed || s.Notice.Message != "Submission failed: dial tcp 127.0.0.1:9: connect: connection refused" {
		t.Fatalf("snapshot=%+v", s)
	}
}

func TestCancelDuringSubmitIsReported(t *testing.T) {
	sub := &fakeSubmitter{started: make(chan struct{}), release: make(chan struct{})}
	defer close(sub.release)
	p, pub := newTestPipeline(t, nil, sub)
	seed(t, p, "Q3", 1)
	compileToPreview(t, p)

	op, _ := p.Submit()
	waitClosed(t, sub.started, "submission")
	if p.State() != StateSubmitting {
		t.Fatalf("state=%s", p.State())
	}
	p.Cancel()
	if r := waitOp(t, op); r.Outcome != OutcomeCancelled {
		t.Fatalf("outcome=%s", r.Outcome)
	}
	s := p.Snapshot()
	if s.State != StateCancelled || s.Notice != (Notice{Kind: NoticeError, Message: "Submission cancelled."}) {
		t.Fatalf("snapshot=%+v", s)
	}
	if s.SessionName != "Q3" || len(s.Files) != 1 {
		t.Fatalf("session not preserved: %+v", s)
	}
	if got := pub.Names(); got[len(got)-1] != "submit_cancelled" {
		t.Fatalf("events=%v", got)
	}
}

func TestCancelDiscardsLateSubmitResponse(t *testing.T) {
	// The transport ignores cancellation; its eventual success must not count.
	sub := &fakeSubmitter{started: make(chan struct{}), release: make(chan struct{}), ignoreCtx: true}
	p, _ := newTestPipeline(t, nil, sub)
	seed(t, p, "Q3", 1)
	compileToPreview(t, p)
	op, _ := p.Submit()
	waitClosed(t, sub.started, "submission")
	p.Cancel()
	close(sub.release)
	if r := waitOp(t, op); r.Outcome != OutcomeCancelled {
		t.Fatalf("outcome=%s", r.Outcome)
	}
	if s := p.Snapshot(); s.SessionName != "Q3" || s.Notice.Message != msgSubmitCancelled {
		t.Fatalf("snapshot=%+v", s)
	}
}

func TestCancelWithNothingInFlight(t *testing.T) {
	p, _ := newTestPipeline(t, nil, nil)
	if p.Cancel() {
		t.Fatalf("cancel reported success while idle")
	}
}

func TestEditsRejectedWhileBusy(t *testing.T) {
	g := newGatedReader(true)
	p, _ := newTestPipeline(t, g.read, nil)
	seed(t, p, "Q3", 1)
	p.AddFiles(fileset.FromBytes("slow.pdf", pdf(1)))
	op, _ := p.Compile()
	waitClosed(t, g.started, "slow read")

	if p.SetName("other") {
		t.Fatalf("rename accepted while compiling")
	}
	if _, ok := p.AddFiles(fileset.FromBytes("x.pdf", pdf(1))); ok {
		t.Fatalf("add accepted while compiling")
	}
	if _, ok := p.RemoveFile(fileset.InputFile{Name: "a.pdf"}); ok {
		t.Fatalf("remove accepted while compiling")
	}
	if p.ClearFiles() {
		t.Fatalf("clear accepted while compiling")
	}
	close(g.release)
	waitOp(t, op)
	if s := p.Snapshot(); s.SessionName != "Q3" || len(s.Files) != 2 {
		t.Fatalf("session changed: %+v", s)
	}
}

func TestDismissNotice(t *testing.T) {
	p, _ := newTestPipeline(t, nil, nil)
	seed(t, p, "Q3", 1)
	p.AddFiles(fileset.FromBytes("bad.pdf", []byte("junk")))
	op, _ := p.Compile()
	waitOp(t, op)
	if p.Snapshot().Notice.Kind != NoticeError {
		t.Fatalf("expected an error notice")
	}
	p.DismissNotice()
	if n := p.Snapshot().Notice; n.Kind != NoticeNone || n.Message != "" {
		t.Fatalf("notice=%+v", n)
	}
}

func TestCloseRejectsNewWork(t *testing.T) {
	p := NewWithConfig(Config{})
	seed(t, p, "Q3", 1)
	p.Close()
	if _, ok := p.Compile(); ok {
		t.Fatalf("compile started after Close")
	}
	if p.Ready() {
		t.Fatalf("closed pipeline reports ready")
	}
}

func TestCloseAbortsInFlightCompile(t *testing.T) {
	g := newGatedReader(true)
	p := NewWithConfig(Config{Read: g.read})
	seed(t, p, "Q3", 1)
	p.AddFiles(fileset.FromBytes("slow.pdf", pdf(1)))
	op, _ := p.Compile()
	waitClosed(t, g.started, "slow read")
	p.Close()
	if r := waitOp(t, op); r.Outcome != OutcomeCancelled {
		t.Fatalf("outcome=%s", r.Outcome)
	}
}
