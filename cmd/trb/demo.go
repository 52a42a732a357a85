package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/oklog/run"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffval"
	"github.com/peterbourgon/trb"
	"github.com/peterbourgon/trb/trbftrace"
)

// demoTrace is the sample trace domain used by the demo workload.
type demoTrace uint32

const (
	demoFoo demoTrace = iota
	demoThing
	demoAnother
)

// Tag implements trb.Trace.
func (t demoTrace) Tag() uint32 { return uint32(t) }

var demoLabels = trb.LabelMap{
	uint32(demoFoo):     "Foo",
	uint32(demoThing):   "Thing",
	uint32(demoAnother): "Another",
}

//
//
//

type demoConfig struct {
	*rootConfig

	workers  int
	rounds   int
	capacity int
	sink     string
}

func (cfg *demoConfig) register(fs *ff.FlagSet) {
	fs.AddFlag(ff.FlagConfig{
		ShortName:   'w',
		LongName:    "workers",
		Value:       ffval.NewValueDefault(&cfg.workers, 3),
		Usage:       "number of worker goroutines, one buffer each",
		Placeholder: "N",
	})
	fs.AddFlag(ff.FlagConfig{
		ShortName:   'n',
		LongName:    "rounds",
		Value:       ffval.NewValueDefault(&cfg.rounds, 8),
		Usage:       "workload rounds per worker (6 marks per round)",
		Placeholder: "N",
	})
	fs.AddFlag(ff.FlagConfig{
		ShortName:   'c',
		LongName:    "capacity",
		Value:       ffval.NewValueDefault(&cfg.capacity, trb.DefaultCapacity),
		Usage:       "per-buffer capacity in bytes",
		Placeholder: "BYTES",
	})
	fs.AddFlag(ff.FlagConfig{
		LongName:    "sink",
		Value:       ffval.NewEnum(&cfg.sink, "ring", "ftrace"),
		Usage:       "trace destination: ring, ftrace",
		Placeholder: "SINK",
	})
}

func (cfg *demoConfig) Exec(ctx context.Context, _ []string) error {
	cfg.info.Printf("workers %d, rounds %d, capacity %dB (%d entries), sink %s",
		cfg.workers, cfg.rounds, cfg.capacity, cfg.capacity/trb.EntrySize, cfg.sink)

	switch cfg.sink {
	case "ring":
		return cfg.runRing(ctx)
	case "ftrace":
		return cfg.runFtrace(ctx)
	default:
		return fmt.Errorf("invalid sink %q", cfg.sink)
	}
}

// runRing exercises the recommended deployment: one ring buffer and one
// local ID source per goroutine, no locks on the hot path, aggregation
// afterwards via Drain and Merge.
func (cfg *demoConfig) runRing(ctx context.Context) error {
	drained := make([][]trb.Entry, cfg.workers)

	var g run.Group
	{
		ctx, cancel := context.WithCancel(ctx)
		g.Add(func() error {
			var wg sync.WaitGroup
			for i := 0; i < cfg.workers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					rb := trb.NewWithIDSource(cfg.capacity, trb.NewLocalIDSource())
					workload(ctx, rb, cfg.rounds)
					entries, err := rb.Drain()
					if err != nil {
						cfg.debug.Printf("worker %d: drain: %v", i, err)
					}
					drained[i] = entries
				}(i)
			}
			wg.Wait()
			return nil
		}, func(error) {
			cancel()
		})
	}
	{
		g.Add(run.SignalHandler(ctx, syscall.SIGINT, syscall.SIGTERM))
	}
	if err := g.Run(); err != nil {
		return err
	}

	merged := trb.Merge(drained...)
	cfg.info.Printf("merged %d entries from %d buffers", len(merged), cfg.workers)

	return cfg.printEntries(merged)
}

// runFtrace sends the same workload to the kernel trace buffer instead.
// There is nothing to dump afterwards: the marks live in the kernel's
// ring buffer, visible via tracefs.
func (cfg *demoConfig) runFtrace(ctx context.Context) error {
	sink, err := trbftrace.New(demoLabels, trb.NewGlobalIDSource())
	if err != nil {
		return fmt.Errorf("ftrace sink: %w", err)
	}
	defer sink.Close()

	var g run.Group
	{
		ctx, cancel := context.WithCancel(ctx)
		g.Add(func() error {
			var wg sync.WaitGroup
			for i := 0; i < cfg.workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					workload(ctx, sink, cfg.rounds)
				}()
			}
			wg.Wait()
			return nil
		}, func(error) {
			cancel()
		})
	}
	{
		g.Add(run.SignalHandler(ctx, syscall.SIGINT, syscall.SIGTERM))
	}
	if err := g.Run(); err != nil {
		return err
	}

	cfg.info.Printf("marks written to the kernel trace buffer; see /sys/kernel/tracing/trace")
	return nil
}

// workload marks one round of sample activity per iteration: a point
// event, two nested spans, and another event causally linked to the
// first.
func workload(ctx context.Context, sink trb.Sink, rounds int) {
	for i := 0; i < rounds; i++ {
		if ctx.Err() != nil {
			return
		}
		why := sink.TraceEvent(demoFoo, trb.ID{})
		sink.TraceStart(demoThing, trb.ID{})
		sink.TraceStart(demoAnother, why)
		sink.TraceEvent(demoFoo, why)
		sink.TraceStop(demoThing)
		sink.TraceStop(demoAnother)
		contextSleep(ctx, 100*time.Microsecond)
	}
}

func (cfg *demoConfig) printEntries(entries []trb.Entry) error {
	switch cfg.output {
	case "ndjson":
		enc := json.NewEncoder(cfg.stdout)
		for _, e := range entries {
			if err := enc.Encode(e); err != nil {
				return err
			}
		}
		return nil

	case "text":
		tw := tabwriter.NewWriter(cfg.stdout, 0, 4, 2, ' ', 0)
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Time().Format(time.RFC3339Nano), e.Kind, demoLabels.Label(e.Tag))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		for _, s := range trb.Spans(entries) {
			fmt.Fprintf(cfg.stdout, "span %s %s\n", demoLabels.Label(s.Tag), s.Duration())
		}
		return nil

	default:
		return fmt.Errorf("invalid output format %q", cfg.output)
	}
}
