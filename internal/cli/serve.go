package cli

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/naveenkr153/spectra-sales-review/internal/config"
	"github.com/naveenkr153/spectra-sales-review/internal/httpapi"
	"github.com/naveenkr153/spectra-sales-review/internal/merge"
	"github.com/naveenkr153/spectra-sales-review/internal/pipeline"
	"github.com/naveenkr153/spectra-sales-review/internal/submit"
)

const shutdownTimeout = 5 * time.Second

// newPipeline wires the merger and the submission client described by cfg.
func newPipeline(ctx context.Context, cfg config.Config, log zerolog.Logger) *pipeline.Pipeline {
	var sub pipeline.Submitter
	if cfg.SubmitURL != "" {
		sub = submit.NewClient(cfg.SubmitURL, &http.Client{})
	} else {
		log.Warn().Msg("no submit_url configured; submissions will fail")
	}
	plog := log.With().Str("component", "pipeline").Logger()
	return pipeline.NewWithConfig(pipeline.Config{
		Merger:        merge.New(merge.Options{Workers: cfg.MergeWorkers, Logger: log.With().Str("component", "merge").Logger()}),
		Submitter:     sub,
		SubmitTimeout: cfg.SubmitTimeout(),
		BaseContext:   ctx,
		Publisher:     pipeline.LogPublisher{Logger: plog},
		Logger:        &plog,
	})
}

// serve runs the HTTP daemon until ctx is cancelled, then shuts down gracefully.
func serve(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	p := newPipeline(ctx, cfg, log)
	defer p.Close()

	httpapi.SetLogger(log.With().Str("component", "http").Logger())
	httpapi.SetMaxUploadBytes(cfg.MaxUploadBytes())
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSOrigins,
		[]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		[]string{"Accept", "Content-Type", "X-Log-Level", "X-Request-Id"})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewMux(p),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Bool("submit_configured", cfg.SubmitURL != "").Msg("reviewd listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return errors.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
	}
	log.Info().Msg("reviewd stopped")
	return nil
}
