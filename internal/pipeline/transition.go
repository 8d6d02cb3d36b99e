package pipeline

import (
	"time"
)

// finish applies r for op and completes it. Events and metrics are emitted after the
// lock is released.
func (p *Pipeline) finish(op *Op, r Result) {
	p.mu.Lock()
	r = p.applyLocked(op, r)
	name := p.name
	pub := p.publisher
	p.mu.Unlock()

	op.complete(r)
	observeOp(op.Kind, r.Outcome, time.Since(op.started))

	ev := Event{Name: string(op.Kind) + "_" + eventSuffix(r.Outcome), Session: name, Fields: map[string]any{"op": op.ID}}
	l := p.log.Info()
	if r.Outcome == OutcomeFailed {
		l = p.log.Warn().Err(r.Err)
		ev.Fields["error"] = r.Err.Error()
	}
	if r.Artifact != nil {
		ev.Fields["pages"] = r.Artifact.Pages
		observePages(r.Artifact.Pages)
	}
	if r.Receipt != nil {
		ev.Fields["status"] = r.Receipt.StatusCode
	}
	pub.Publish(ev)
	l.Str("op", op.ID).Str("outcome", string(r.Outcome)).Msg(string(op.Kind) + " end")
}

// applyLocked is the state machine's transition function. Results from an attempt
// that is no longer current are discarded without touching state.
func (p *Pipeline) applyLocked(op *Op, r Result) Result {
	if op.gen != p.gen {
		return Result{Outcome: OutcomeDiscarded, Err: r.Err}
	}
	// The token may have fired after the work returned.
	if r.Outcome == OutcomeOK && op.ctx.Err() != nil {
		r = cancelled(op.ctx.Err())
	}
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.op = nil

	switch op.Kind {
	case OpCompile:
		switch r.Outcome {
		case OutcomeOK:
			p.artifact = r.Artifact
			p.state = StatePreviewing
		case OutcomeFailed:
			p.state = StateFailed
			p.notice = Notice{Kind: NoticeError, Message: r.Message}
		case OutcomeCancelled:
			// Cancelling a compile is not a failure worth reporting.
			p.state = StateCancelled
		}
	case OpSubmit:
		p.artifact = nil
		switch r.Outcome {
		case OutcomeOK:
			submitted := p.name
			p.name = ""
			p.files.Clear()
			p.state = StateIdle
			p.notice = Notice{Kind: NoticeSuccess, Message: "Submitted \"" + submitted + "\" for analysis."}
		case OutcomeFailed:
			p.state = StateFailed
			p.notice = Notice{Kind: NoticeError, Message: r.Message}
		case OutcomeCancelled:
			// Unlike compile, an interrupted submission may have reached the endpoint.
			p.state = StateCancelled
			p.notice = Notice{Kind: NoticeError, Message: msgSubmitCancelled}
		}
	}
	return r
}

func eventSuffix(o Outcome) string {
	switch o {
	case OutcomeOK:
		return "done"
	case OutcomeFailed:
		return "failed"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "discarded"
	}
}
