// Package processor orchestrates the enrichment pipeline: it streams
// newline-delimited JSON records through the enrichment engine and
// writes the enriched stream back out, keeping memory flat regardless
// of input size.
package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"log/slog"

	"github.com/contribscope/backend/internal/domain"
	"github.com/contribscope/backend/pkg/ctxutil"
)

type engine interface {
	Process(ctx context.Context, records iter.Seq[*domain.Record]) iter.Seq[*domain.Record]
	Update(records iter.Seq[*domain.Record], releaseIndex map[string]string) iter.Seq[*domain.Record]
	Flush(ctx context.Context) error
}

// Result summarizes a pipeline pass.
type Result struct {
	Read    int
	Written int
}

type Pipeline struct {
	log    *slog.Logger
	engine engine
}

func New(logger *slog.Logger, eng engine) *Pipeline {
	return &Pipeline{
		log:    logger.With("component", "pipeline"),
		engine: eng,
	}
}

// Run streams records from in through the enrichment engine to out
// and flushes learned identity facts at the end. Input order is
// preserved.
func (p *Pipeline) Run(ctx context.Context, in io.Reader, out io.Writer) (Result, error) {
	log := p.runLogger(ctx)
	reader := NewRecordReader(in)
	enc := json.NewEncoder(out)

	var res Result
	for rec := range p.engine.Process(ctx, reader.All()) {
		if err := enc.Encode(rec); err != nil {
			return res, fmt.Errorf("write record: %w", err)
		}
		res.Written++
	}
	res.Read = reader.Count()
	if err := reader.Err(); err != nil {
		return res, err
	}

	if err := p.engine.Flush(ctx); err != nil {
		return res, err
	}

	log.InfoContext(ctx, "enrichment pass complete",
		slog.Int("read", res.Read),
		slog.Int("written", res.Written),
	)
	return res, nil
}

// Retag streams previously enriched records from in and writes to out
// only those whose release changed under the given index.
func (p *Pipeline) Retag(ctx context.Context, in io.Reader, out io.Writer, releaseIndex map[string]string) (Result, error) {
	log := p.runLogger(ctx)
	reader := NewRecordReader(in)
	enc := json.NewEncoder(out)

	var res Result
	for rec := range p.engine.Update(reader.All(), releaseIndex) {
		if err := enc.Encode(rec); err != nil {
			return res, fmt.Errorf("write record: %w", err)
		}
		res.Written++
	}
	res.Read = reader.Count()
	if err := reader.Err(); err != nil {
		return res, err
	}

	log.InfoContext(ctx, "re-tag pass complete",
		slog.Int("read", res.Read),
		slog.Int("changed", res.Written),
	)
	return res, nil
}

// runLogger attaches the run ID from the context when one is set.
func (p *Pipeline) runLogger(ctx context.Context) *slog.Logger {
	if id, ok := ctxutil.RunIDFromCtx(ctx); ok {
		return p.log.With(slog.String("run_id", id.String()))
	}
	return p.log
}
