// Command brc prints the min/mean/max of every station in a measurements
// file:
//
//	brc [flags] [measurements.txt]
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/dhartunian/brcgo/internal/brc"
	"github.com/dhartunian/brcgo/internal/profile"
	"github.com/dhartunian/brcgo/internal/publish"
	"github.com/dhartunian/brcgo/internal/report"
)

var (
	file       = flag.String("file", "measurements.txt", "the input file")
	workers    = flag.Int("w", 0, "the number of workers (NumCPU by default)")
	bufSize    = flag.Int("buf", brc.DefaultBufferSize, "read buffer size per worker")
	mode       = flag.String("mode", "aggregate", "aggregate, sequential or count")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	memprofile = flag.String("memprofile", "", "write heap profile to file")
	rttrace    = flag.String("trace", "", "write runtime trace to file")
	verbose    = flag.Bool("v", false, "print debug logging")
	otelStdout = flag.Bool("otel-stdout", false, "print OpenTelemetry spans to stderr")
	amqpURL    = flag.String("amqp-url", "", "also publish the result to this RabbitMQ broker")
	amqpQueue  = flag.String("amqp-queue", "brc-results", "queue to publish the result to")
)

var logger *log.Logger

func start() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [<measurements>]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(2)
	}
	if flag.NArg() == 1 {
		*file = flag.Arg(0)
	}
	writer := io.Discard
	if *verbose {
		writer = os.Stderr
	}
	logger = log.New(writer, ": ", log.Ltime|log.LUTC|log.Lmicroseconds|log.Lmsgprefix)
}

func main() {
	start()
	noError(execute(context.Background(), os.Stdout, os.Stderr))
	if *memprofile != "" {
		noError(profile.WriteHeap(*memprofile))
	}
}

// execute runs the selected mode and writes the result to out. Profiles and
// spans are flushed even when the run fails.
func execute(ctx context.Context, out, spans io.Writer) (err error) {
	stop, err := profile.Start(*cpuprofile, *rttrace)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, stop()) }()

	shutdown, err := startTracing(spans)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, shutdown(context.Background())) }()

	result, err := run(ctx)
	if err != nil {
		return err
	}
	if _, err := out.Write(result); err != nil {
		return err
	}
	if *amqpURL != "" {
		return publishResult(result)
	}
	return nil
}

// startTracing installs a global tracer provider exporting to w when
// -otel-stdout is set.
func startTracing(w io.Writer) (shutdown func(context.Context) error, err error) {
	if !*otelStdout {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp))
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

func run(ctx context.Context) ([]byte, error) {
	src, err := brc.OpenFile(*file)
	if err != nil {
		return nil, err
	}
	n := *workers
	if n == 0 {
		n = runtime.NumCPU()
	}
	logger.Println("file", src, "mode", *mode, "workers", n)

	start := time.Now()
	defer func() { logger.Println("running time", time.Since(start)) }()

	switch *mode {
	case "aggregate":
		stats, err := brc.Aggregate(ctx, src, brc.Config{
			Workers:    n,
			BufferSize: *bufSize,
			Logger:     logger,
		})
		if err != nil {
			return nil, err
		}
		return render(stats)

	case "sequential":
		f, err := src.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		stats, err := brc.Sequential(f)
		if err != nil {
			return nil, err
		}
		return render(stats)

	case "count":
		lines, err := brc.CountLines(src, n, *bufSize)
		if err != nil {
			return nil, err
		}
		if *verbose {
			readT := time.Since(start)
			logger.Printf("IO throughput %.3f GiB/s", float64(src.Size())/float64(1<<30)/readT.Seconds())
		}
		return []byte(fmt.Sprintf("%d\n", lines)), nil

	default:
		return nil, fmt.Errorf("unknown mode %q", *mode)
	}
}

func render(stats brc.Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := report.Write(&buf, stats); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func publishResult(body []byte) error {
	p, err := publish.Dial(*amqpURL, *amqpQueue)
	if err != nil {
		return err
	}
	defer p.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.Publish(ctx, body); err != nil {
		return err
	}
	logger.Println("published", len(body), "bytes to", *amqpQueue)
	return nil
}

func noError(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
