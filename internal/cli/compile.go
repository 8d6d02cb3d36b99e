package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/naveenkr153/spectra-sales-review/internal/config"
	"github.com/naveenkr153/spectra-sales-review/internal/fileset"
	"github.com/naveenkr153/spectra-sales-review/internal/pipeline"
	"github.com/naveenkr153/spectra-sales-review/internal/submit"
)

// collectInputs expands directories to their PDFs and keeps files as given, in order.
func collectInputs(args []string) ([]fileset.InputFile, error) {
	var out []fileset.InputFile
	for _, a := range args {
		p, err := fileset.ExpandHome(a)
		if err != nil {
			return nil, err
		}
		st, err := os.Stat(p)
		if err != nil {
			return nil, errors.Errorf("input %s: %w", a, err)
		}
		if st.IsDir() {
			files, err := fileset.LoadDir(p)
			if err != nil {
				return nil, err
			}
			out = append(out, files...)
			continue
		}
		f, err := fileset.FromPath(p)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// compileOnce runs one session through the pipeline: compile, write the artifact,
// and optionally submit it. Progress lines go to stdout.
func compileOnce(ctx context.Context, cfg config.Config, o Options, args []string, stdout io.Writer, log zerolog.Logger) error {
	inputs, err := collectInputs(args)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return errors.New("no PDF inputs found")
	}

	p := newPipeline(ctx, cfg, log)
	defer p.Close()
	p.SetName(o.Name)
	added, _ := p.AddFiles(inputs...)
	if added < len(inputs) {
		log.Info().Int("skipped", len(inputs)-added).Msg("duplicate inputs skipped")
	}

	op, ok := p.Compile()
	if !ok {
		return errors.New("nothing to compile: a session name and at least one file are required")
	}
	res, err := op.Wait(ctx)
	if err != nil {
		return err
	}
	if res.Outcome != pipeline.OutcomeOK {
		return outcomeError(p)
	}

	a, _ := p.Preview()
	out := o.Out
	if out == "" {
		out = submit.CompiledFilename(strings.TrimSpace(o.Name))
	}
	if err := os.WriteFile(out, a.Data, 0o644); err != nil {
		return errors.Errorf("write %s: %w", out, err)
	}
	abs, _ := filepath.Abs(out)
	writeLine(stdout, "compiled %d file(s), %d page(s) -> %s", added, a.Pages, abs)

	if !o.Submit {
		return nil
	}
	op, ok = p.Submit()
	if !ok {
		return errors.New("submit did not start")
	}
	if res, err = op.Wait(ctx); err != nil {
		return err
	}
	if res.Outcome != pipeline.OutcomeOK {
		return outcomeError(p)
	}
	writeLine(stdout, "%s", p.Snapshot().Notice.Message)
	return nil
}

func outcomeError(p *pipeline.Pipeline) error {
	snap := p.Snapshot()
	if snap.Notice.Message != "" {
		return errors.New(snap.Notice.Message)
	}
	return errors.Errorf("operation ended in state %s", snap.State)
}
