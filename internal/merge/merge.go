// Package merge combines PDF documents into one, keeping every page of every input in
// order. Parsing is lenient: documents with damaged cross-reference tables are repaired
// rather than rejected.
package merge

import (
	"bytes"
	"context"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// MimeType is the content type of every merged document.
const MimeType = "application/pdf"

// Output is a merged document.
type Output struct {
	Data  []byte
	Pages int
}

// Options tunes a Merger. Zero values select defaults.
type Options struct {
	// Workers bounds concurrent parses. Defaults to GOMAXPROCS.
	Workers int
	Logger  zerolog.Logger
}

// Merger merges PDF byte buffers.
type Merger struct {
	workers int
	log     zerolog.Logger
}

var disableConfigDir sync.Once

// New returns a Merger.
func New(opts Options) *Merger {
	// pdfcpu would otherwise create a config dir under the user's home on first use.
	disableConfigDir.Do(api.DisableConfigDir)
	w := opts.Workers
	if w <= 0 {
		w = runtime.GOMAXPROCS(0)
	}
	return &Merger{workers: w, log: opts.Logger}
}

func relaxed() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Merge appends all pages of docs, in order, to a new document. Each input is parsed
// and validated independently (in parallel) before the sequential append; if any of
// them cannot be parsed the merge fails with a *ParseError and nothing is written.
// The input buffers are only read.
func (m *Merger) Merge(ctx context.Context, docs [][]byte) (Output, error) {
	if len(docs) == 0 {
		return Output{Data: Blank()}, nil
	}
	start := time.Now()

	pages := make([]int, len(docs))
	parsed := make([][]byte, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for i, doc := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			n, used, err := parse(doc)
			if err != nil {
				return &ParseError{Index: i, Err: err}
			}
			if len(used) != len(doc) {
				m.log.Debug().Int("doc", i).Msg("rebuilt cross-reference table")
			}
			pages[i], parsed[i] = n, used
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Output{}, err
	}
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}

	total := 0
	rsc := make([]io.ReadSeeker, len(docs))
	for i, doc := range parsed {
		rsc[i] = bytes.NewReader(doc)
		total += pages[i]
	}
	var out bytes.Buffer
	if err := mergeRaw(rsc, &out); err != nil {
		return Output{}, errors.Errorf("merge %d documents: %w", len(docs), err)
	}
	m.log.Debug().Int("docs", len(docs)).Int("pages", total).Int("bytes", out.Len()).
		Dur("dur", time.Since(start)).Msg("merge done")
	return Output{Data: out.Bytes(), Pages: total}, nil
}

// parse reads doc leniently and returns its page count along with the bytes that
// parsed: doc itself, or a copy with a rebuilt cross-reference table when the
// original table is unusable. The error of the original parse is reported when
// the rebuilt copy fails too.
func parse(doc []byte) (int, []byte, error) {
	n, err := pageCount(doc)
	if err == nil {
		return n, doc, nil
	}
	fixed, ok := repairXref(doc)
	if !ok {
		return 0, nil, err
	}
	n, rerr := pageCount(fixed)
	if rerr != nil {
		return 0, nil, err
	}
	return n, fixed, nil
}

func pageCount(doc []byte) (n int, err error) {
	// pdfcpu panics on some malformed inputs instead of returning an error.
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("parser panic: %v", r)
		}
	}()
	pctx, err := api.ReadContext(bytes.NewReader(doc), relaxed())
	if err != nil {
		return 0, err
	}
	if err := api.ValidateContext(pctx); err != nil {
		return 0, err
	}
	return pctx.PageCount, nil
}

func mergeRaw(rsc []io.ReadSeeker, w io.Writer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("merge panic: %v", r)
		}
	}()
	return api.MergeRaw(rsc, w, false, relaxed())
}

// PageCount reports the number of pages of a PDF, using the same lenient parse as Merge.
func PageCount(doc []byte) (int, error) {
	disableConfigDir.Do(api.DisableConfigDir)
	n, _, err := parse(doc)
	return n, err
}
