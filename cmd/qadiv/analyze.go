package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/gosuri/uiprogress"
	"github.com/rs/zerolog/log"

	"github.com/revelaction/qadiv/batch"
	"github.com/revelaction/qadiv/divergence"
	"github.com/revelaction/qadiv/metrics"
	"github.com/revelaction/qadiv/parser"
	"github.com/revelaction/qadiv/render"
	"github.com/revelaction/qadiv/squad"
	"github.com/revelaction/qadiv/stat"
	"github.com/revelaction/qadiv/storage"
)

func analyzeCommand(ctx context.Context, opts AnalyzeOptions, ui UI) (err error) {
	ds, err := squad.Load(opts.Dataset)
	if err != nil {
		return err
	}

	triples, dsStats := squad.Triples(ds, parser.Rules{})
	log.Info().
		Int("articles", dsStats.Articles).
		Int("questions", dsStats.Questions).
		Int("triples", len(triples)).
		Int("unfound", dsStats.Unfound).
		Msg("dataset loaded")

	conf, err := newConfig(opts.ParserOptions)
	if err != nil {
		return err
	}

	pool := &Pool{}
	var cl closers
	cl.add(pool.Close)
	defer func() {
		err = errors.Join(err, cl.Close())
	}()

	p, err := newParser(ctx, opts.ParserOptions, pool, &cl)
	if err != nil {
		return err
	}

	var writers []storage.ResultWriter
	if opts.ResultsPath != "" {
		w, err := NewResultWriter(pool, opts.ResultsPath)
		if err != nil {
			return err
		}
		writers = append(writers, w)
	}

	if opts.Postgres != "" {
		w, err := NewPostgresWriter(ctx, opts.Postgres)
		if err != nil {
			return err
		}
		cl.add(func() error { w.Close(); return nil })
		writers = append(writers, w)
	}

	runID := uuid.NewString()
	m := metrics.New()
	m.SetUnfound(dsStats.Unfound)

	showProgress := !opts.NoProgress && opts.Format != "json" && len(triples) > 0
	var bar *uiprogress.Bar
	if showProgress {
		uiprogress.Start()
		bar = uiprogress.AddBar(len(triples))
		bar.AppendCompleted()
		bar.PrependElapsed()
	}

	var writeErrs int
	driver := &batch.Driver{
		Analyzer:    divergence.NewAnalyzer(p, conf),
		Workers:     opts.Workers,
		ItemTimeout: opts.Timeout,
		OnResult: func(it batch.Item) {
			m.Observe(it)

			rec := batch.Record(it)
			for _, w := range writers {
				if err := w.WriteResult(ctx, runID, rec); err != nil {
					writeErrs++
					log.Error().Err(err).Int("index", it.Index).Msg("could not store result")
				}
			}

			if bar != nil {
				bar.Incr()
			}
		},
	}

	report, runErr := driver.Run(ctx, triples)
	if showProgress {
		uiprogress.Stop()
	}
	report.Unfound = dsStats.Unfound

	st := stat.NewHandler()
	st.Aggregate(report)

	var rr render.ReportRenderer
	switch opts.Format {
	case "json":
		rr = render.NewJSONRenderer(ui.Out)
	default:
		r := render.NewRenderer(ui.Out)
		r.HasColor = !opts.NoColor
		rr = r
	}

	if err := rr.Report(report, st.Get()); err != nil {
		return err
	}

	if opts.ResultsPath != "" || opts.Postgres != "" {
		_, _ = fmt.Fprintf(ui.Err, "results stored under run %s\n", runID)
	}

	if opts.MetricsPath != "" {
		if err := m.WriteTextfile(opts.MetricsPath); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	if writeErrs > 0 {
		runErr = errors.Join(runErr, fmt.Errorf("%d results could not be stored", writeErrs))
	}

	return runErr
}
