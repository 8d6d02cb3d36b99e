package pipeline

import (
	"context"
	"fmt"
	"strings"

	"gitlab.com/tozd/go/errors"

	"github.com/naveenkr153/spectra-sales-review/internal/submit"
)

const msgSubmitCancelled = "Submission cancelled."

// Submit confirms the preview and sends the artifact to the endpoint. It only acts
// while previewing; otherwise it returns (nil, false).
func (p *Pipeline) Submit() (*Op, bool) {
	p.mu.Lock()
	if p.closed || p.state != StatePreviewing || p.artifact == nil {
		p.mu.Unlock()
		return nil, false
	}
	name := p.name
	sub := submit.Submission{
		SessionName: name,
		Filename:    submit.CompiledFilename(strings.TrimSpace(name)),
		MimeType:    p.artifact.MimeType,
		Data:        p.artifact.Data,
	}
	ctx, op := p.beginLocked(OpSubmit)
	p.state = StateSubmitting
	pub := p.publisher
	p.mu.Unlock()

	pub.Publish(Event{Name: "submit_start", Session: name, Fields: map[string]any{"op": op.ID, "filename": sub.Filename, "bytes": len(sub.Data)}})
	p.log.Info().Str("op", op.ID).Str("filename", sub.Filename).Int("bytes", len(sub.Data)).Msg("submit start")
	go func() {
		defer p.wg.Done()
		p.finish(op, p.submit(ctx, sub))
	}()
	return op, true
}

func (p *Pipeline) submit(ctx context.Context, sub submit.Submission) Result {
	if err := ctx.Err(); err != nil {
		return cancelled(err)
	}
	if p.submitter == nil {
		err := errors.New("no submission endpoint configured")
		return failed(err, "Submission failed: "+err.Error())
	}
	sctx := ctx
	if p.submitTimeout > 0 {
		var cancel context.CancelFunc
		sctx, cancel = context.WithTimeout(ctx, p.submitTimeout)
		defer cancel()
	}
	rcpt, err := p.submitter.Submit(sctx, sub)
	// A response that arrives after cancellation is discarded.
	if cerr := ctx.Err(); cerr != nil {
		return cancelled(cerr)
	}
	if err != nil {
		var se *submit.StatusError
		if errors.As(err, &se) {
			return failed(err, fmt.Sprintf("Submission failed: %d %s - %s", se.StatusCode, se.Status, se.Body))
		}
		if errors.Is(err, context.Canceled) {
			return cancelled(err)
		}
		// Transport errors and timeouts that are not an operator abort count as failures.
		return failed(err, "Submission failed: "+err.Error())
	}
	return Result{Outcome: OutcomeOK, Receipt: &rcpt}
}
