package pipeline

import (
	"context"
	"strconv"
	"time"

	"github.com/naveenkr153/spectra-sales-review/internal/submit"
)

// OpKind names the two asynchronous attempts.
type OpKind string

const (
	OpCompile OpKind = "compile"
	OpSubmit  OpKind = "submit"
)

// Outcome tags a Result.
type Outcome string

const (
	OutcomeOK        Outcome = "ok"
	OutcomeFailed    Outcome = "failed"
	OutcomeCancelled Outcome = "cancelled"
	// OutcomeDiscarded marks an attempt superseded by Reset or a newer attempt;
	// it changed nothing.
	OutcomeDiscarded Outcome = "discarded"
)

// Result is what one attempt produced: a value on success, or a tagged error. The
// transition function is the only consumer that turns it into state.
type Result struct {
	Outcome Outcome
	Err     error
	// Message is the operator-facing text for failures.
	Message  string
	Artifact *Artifact
	Receipt  *submit.Receipt
}

func failed(err error, msg string) Result {
	return Result{Outcome: OutcomeFailed, Err: err, Message: msg}
}

func cancelled(err error) Result {
	if err == nil {
		err = context.Canceled
	}
	return Result{Outcome: OutcomeCancelled, Err: err}
}

// Op is a handle on one compile or submit attempt.
type Op struct {
	ID   string
	Kind OpKind

	gen     uint64
	ctx     context.Context
	started time.Time
	done    chan struct{}
	res     Result
}

func newOp(kind OpKind, seq, gen uint64, ctx context.Context) *Op {
	return &Op{
		ID:      string(kind) + "-" + strconv.FormatUint(seq, 10),
		Kind:    kind,
		gen:     gen,
		ctx:     ctx,
		started: time.Now(),
		done:    make(chan struct{}),
	}
}

// Done is closed once the attempt's result has been applied (or discarded).
func (o *Op) Done() <-chan struct{} { return o.done }

// Wait blocks until the attempt finishes or ctx is done.
func (o *Op) Wait(ctx context.Context) (Result, error) {
	select {
	case <-o.done:
		return o.res, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

func (o *Op) complete(r Result) {
	o.res = r
	close(o.done)
}
