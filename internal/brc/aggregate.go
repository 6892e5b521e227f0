package brc

import (
	"context"
	"errors"
	"io"
	"log"
	"runtime"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/dhartunian/brcgo/internal/brc"

// Config controls a parallel aggregation.
type Config struct {
	// Workers is the number of ranges and goroutines. NumCPU by default.
	Workers int
	// BufferSize is the read buffer of each worker.
	BufferSize int
	// Logger receives progress output; nil discards it.
	Logger *log.Logger
	// TracerProvider creates the run's spans. The global provider is used
	// when nil.
	TracerProvider trace.TracerProvider
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.BufferSize <= 0 {
		c.BufferSize = DefaultBufferSize
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard, "", 0)
	}
	if c.TracerProvider == nil {
		c.TracerProvider = otel.GetTracerProvider()
	}
	return c
}

type partial struct {
	id    int
	r     Range
	stats Table
	err   error
}

// Aggregate computes the summary of every key in src using one worker per
// range of Plan(src.Size(), cfg.Workers). Each worker runs on its own OS
// thread with its own file handle and table; the tables are merged once all
// workers are done. Any worker error fails the whole run.
//
// ctx is only used for tracing, the scan cannot be cancelled.
func Aggregate(ctx context.Context, src Source, cfg Config) (Table, error) {
	cfg = cfg.withDefaults()
	logger := cfg.Logger
	size := src.Size()
	ranges := Plan(size, cfg.Workers)

	tr := cfg.TracerProvider.Tracer(tracerName)
	ctx, span := tr.Start(ctx, "brc.aggregate",
		trace.WithAttributes(
			attribute.Int64("brc.size", size),
			attribute.Int("brc.workers", len(ranges)),
			attribute.Int("brc.buffer_size", cfg.BufferSize),
		))
	defer span.End()

	start := time.Now()
	logger.Printf("size %d, workers %d, range %d bytes", size, len(ranges), ranges[0].Length)

	results := make(chan partial, len(ranges))
	for i, r := range ranges {
		go func(id int, r Range) {
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()

			_, ws := tr.Start(ctx, "brc.read_range",
				trace.WithAttributes(
					attribute.Int("brc.worker", id),
					attribute.Int64("brc.range.start", r.Start),
					attribute.Int64("brc.range.length", r.Length),
				))
			stats, err := ReadRange(src, r, cfg.BufferSize)
			if err != nil {
				ws.RecordError(err)
				ws.SetStatus(codes.Error, "read range failed")
			} else {
				ws.SetAttributes(attribute.Int("brc.keys", len(stats)))
			}
			ws.End()
			results <- partial{id: id, r: r, stats: stats, err: err}
		}(i, r)
	}

	// Collect in arrival order; the merge does not depend on it.
	parts := make([]partial, 0, len(ranges))
	var errs []error
	for range ranges {
		p := <-results
		if p.err != nil {
			logger.Printf("worker %d %s: %v", p.id, p.r, p.err)
			errs = append(errs, p.err)
			continue
		}
		logger.Printf("worker %d %s: %d records, %d keys", p.id, p.r, p.stats.Records(), len(p.stats))
		parts = append(parts, p)
	}
	if err := errors.Join(errs...); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "aggregation failed")
		return nil, err
	}

	stats := parts[0].stats
	for _, p := range parts[1:] {
		stats.Merge(p.stats)
	}
	span.SetAttributes(attribute.Int("brc.keys", len(stats)))
	logger.Println("keys", len(stats), "running time", time.Since(start))
	return stats, nil
}
