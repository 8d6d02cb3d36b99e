package pipeline

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/naveenkr153/spectra-sales-review/internal/fileset"
	"github.com/naveenkr153/spectra-sales-review/internal/merge"
	"github.com/naveenkr153/spectra-sales-review/internal/submit"
)

// Merger combines raw documents into one. *merge.Merger implements it.
type Merger interface {
	Merge(ctx context.Context, docs [][]byte) (merge.Output, error)
}

// Submitter delivers a compiled document. *submit.Client implements it.
type Submitter interface {
	Submit(ctx context.Context, s submit.Submission) (submit.Receipt, error)
}

// ReadFunc materialises one input's bytes.
type ReadFunc func(ctx context.Context, f fileset.InputFile) ([]byte, error)

// Config encapsulates all tunables for Pipeline construction.
type Config struct {
	Merger    Merger
	Submitter Submitter
	// Read defaults to fileset.ReadAll.
	Read ReadFunc
	// SubmitTimeout bounds one submission; zero means no limit beyond cancellation.
	SubmitTimeout time.Duration
	// BaseContext parents every attempt; cancelling it aborts in-flight work.
	BaseContext context.Context
	Publisher   EventPublisher
	Logger      *zerolog.Logger
	// Now is the clock; defaults to time.Now.
	Now func() time.Time
}

// NewWithConfig constructs a Pipeline from Config.
func NewWithConfig(cfg Config) *Pipeline {
	base := cfg.BaseContext
	if base == nil {
		base = context.Background()
	}
	ctx, stop := context.WithCancel(base)
	p := &Pipeline{
		state:         StateIdle,
		notice:        Notice{Kind: NoticeNone},
		merger:        cfg.Merger,
		submitter:     cfg.Submitter,
		read:          cfg.Read,
		submitTimeout: cfg.SubmitTimeout,
		base:          ctx,
		stop:          stop,
		publisher:     cfg.Publisher,
		now:           cfg.Now,
	}
	if p.merger == nil {
		p.merger = merge.New(merge.Options{})
	}
	if p.read == nil {
		p.read = fileset.ReadAll
	}
	if p.publisher == nil {
		p.publisher = noopPublisher{}
	}
	if p.now == nil {
		p.now = time.Now
	}
	if cfg.Logger != nil {
		p.log = *cfg.Logger
	} else {
		p.log = zerolog.Nop()
	}
	if p.submitTimeout < 0 {
		p.submitTimeout = 0
	}
	return p
}
