package pipeline

import (
	"context"
	"fmt"

	"github.com/naveenkr153/spectra-sales-review/internal/fileset"
	"github.com/naveenkr153/spectra-sales-review/internal/merge"
)

const msgCompileParse = "Failed to compile documents. Make sure every file is a valid PDF."

// Compile starts merging the session's files. When the guard does not hold (no
// name, no files, or an attempt already in flight) it does nothing and returns
// (nil, false). A compile started from previewing discards the previous artifact.
func (p *Pipeline) Compile() (*Op, bool) {
	p.mu.Lock()
	if !p.canCompileLocked() {
		p.mu.Unlock()
		return nil, false
	}
	files := p.files.Files()
	name := p.name
	ctx, op := p.beginLocked(OpCompile)
	p.state = StateCompiling
	p.artifact = nil
	pub := p.publisher
	p.mu.Unlock()

	pub.Publish(Event{Name: "compile_start", Session: name, Fields: map[string]any{"op": op.ID, "files": len(files)}})
	p.log.Info().Str("op", op.ID).Int("files", len(files)).Msg("compile start")
	go func() {
		defer p.wg.Done()
		p.finish(op, p.compile(ctx, files))
	}()
	return op, true
}

// compile reads every file in set order and merges them. It checks the attempt's own
// token before each file and around the merge.
func (p *Pipeline) compile(ctx context.Context, files []fileset.InputFile) Result {
	bufs := make([][]byte, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return cancelled(err)
		}
		b, err := p.read(ctx, f)
		if err != nil {
			if cerr := ctx.Err(); cerr != nil {
				return cancelled(cerr)
			}
			return failed(err, fmt.Sprintf("Failed to read %s: %v", f.Name, err))
		}
		bufs = append(bufs, b)
	}
	if err := ctx.Err(); err != nil {
		return cancelled(err)
	}

	out, err := p.merger.Merge(ctx, bufs)
	if cerr := ctx.Err(); cerr != nil {
		return cancelled(cerr)
	}
	if err != nil {
		if merge.IsParseError(err) {
			return failed(err, msgCompileParse)
		}
		return failed(err, "Failed to compile documents: "+err.Error())
	}
	return Result{
		Outcome: OutcomeOK,
		Artifact: &Artifact{
			Data:      out.Data,
			MimeType:  merge.MimeType,
			Pages:     out.Pages,
			CreatedAt: p.now(),
		},
	}
}
