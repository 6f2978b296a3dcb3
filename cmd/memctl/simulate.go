package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"slices"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/joshuapare/emumem/mem"
	"github.com/joshuapare/emumem/mem/dirty"
	"github.com/joshuapare/emumem/mem/monitor"
	"github.com/joshuapare/emumem/mem/proc"
	"github.com/joshuapare/emumem/mem/region"
	"github.com/joshuapare/emumem/pkg/types"
)

var (
	simSeed     int64
	simWorkers  int
	simDuration time.Duration
	simInterval time.Duration
	simMaxImage int
)

func init() {
	rootCmd.AddCommand(newSimulateCmd())
}

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run concurrent process admission and exit against one manager",
		Long: `The simulate command starts worker goroutines that admit processes with
random image sizes and exit them again, while a sampler records allocated
bytes. When the duration ends it checks the ledger and prints the final
memory report, map and usage series.

Example:
  memctl simulate --workers 8 --duration 2s
  memctl simulate --strategy best --seed 7 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate()
		},
	}

	cmd.Flags().Int64Var(&simSeed, "seed", 1, "Seed for the worker random sources")
	cmd.Flags().IntVar(&simWorkers, "workers", 4, "Number of concurrent workers")
	cmd.Flags().DurationVar(&simDuration, "duration", time.Second, "How long the workload runs")
	cmd.Flags().
		DurationVar(&simInterval, "interval", 200*time.Millisecond, "Sampling interval for the usage series")
	cmd.Flags().IntVar(&simMaxImage, "max-image", 64, "Largest process image in bytes")
	return cmd
}

// simCounters are the workload outcomes, updated by all workers.
type simCounters struct {
	admitted  atomic.Int64
	exited    atomic.Int64
	noSpace   atomic.Int64
	tableFull atomic.Int64
}

// simResult is the JSON form of a finished simulation.
type simResult struct {
	Strategy    string        `json:"strategy"`
	Workers     int           `json:"workers"`
	Admitted    int64         `json:"admitted"`
	Exited      int64         `json:"exited"`
	NoSpace     int64         `json:"no_space"`
	TableFull   int64         `json:"table_full"`
	Samples     int64         `json:"samples"`
	Series      []int         `json:"series"`
	DirtyRanges []dirty.Range `json:"dirty_ranges"`
	Snapshot    mem.Snapshot  `json:"snapshot"`
	Processes   []proc.Info   `json:"processes"`
	Stats       region.Stats  `json:"stats"`
	Map         monitor.Map   `json:"map"`
}

func runSimulate() error {
	if capacity <= 0 || capacity > types.MaxCapacity {
		return fmt.Errorf("%w: %d", mem.ErrCapacity, capacity)
	}
	if simWorkers <= 0 {
		return fmt.Errorf("--workers must be positive, got %d", simWorkers)
	}
	if simMaxImage <= 0 {
		return fmt.Errorf("--max-image must be positive, got %d", simMaxImage)
	}
	if simInterval <= 0 {
		return fmt.Errorf("--interval must be positive, got %s", simInterval)
	}

	tracker := dirty.NewTracker(capacity, types.DefaultDirtyBlockSize)
	m, err := newManager(tracker)
	if err != nil {
		return err
	}
	table := proc.NewTable(slots)
	sampler := monitor.NewSampler(m, types.SeriesLength)

	printVerbose("Simulating %d worker(s) for %s with %s over %d bytes, %d slots\n",
		simWorkers, simDuration, m.Strategy(), m.Capacity(), table.Cap())

	var counters simCounters
	if err := simulate(m, table, sampler, &counters); err != nil {
		return err
	}
	if err := m.Verify(); err != nil {
		return fmt.Errorf("ledger inconsistent after simulation: %w", err)
	}
	sampler.Sample()

	snap := m.Snapshot()
	res := simResult{
		Strategy:    m.Strategy(),
		Workers:     simWorkers,
		Admitted:    counters.admitted.Load(),
		Exited:      counters.exited.Load(),
		NoSpace:     counters.noSpace.Load(),
		TableFull:   counters.tableFull.Load(),
		Samples:     sampler.Count(),
		Series:      sampler.Series().Values(),
		DirtyRanges: tracker.Drain(),
		Snapshot:    snap,
		Processes:   table.Snapshot(),
		Stats:       m.Stats(),
		Map:         monitor.MemoryMap(snap, 0, 0),
	}

	if jsonOut {
		return printJSON(res)
	}

	printInfo("%s", renderHeader("Workload"))
	printInfo("  admitted %d, exited %d, rejected %d (no space) + %d (table full)\n",
		res.Admitted, res.Exited, res.NoSpace, res.TableFull)
	printInfo("  %d sample(s), %d dirty range(s)\n\n", res.Samples, len(res.DirtyRanges))

	if !quiet {
		r := monitor.NewReport(language.Und)
		if err := r.Write(os.Stdout, snap, res.Processes); err != nil {
			return err
		}
		if err := r.Stats(os.Stdout, res.Stats); err != nil {
			return err
		}
	}
	printInfo("\n%s%s", renderHeader("Memory map"), renderMap(res.Map))
	printInfo("%s%s", renderHeader("Allocated bytes"), renderSeries(res.Series, m.Capacity()))
	return nil
}

// simulate runs the workers and the sampler until simDuration elapses.
func simulate(m *mem.Manager, t *proc.Table, sampler *monitor.Sampler, c *simCounters) error {
	ctx, cancel := context.WithTimeout(context.Background(), simDuration)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := sampler.Run(gctx, simInterval)
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	var nextPID atomic.Int64
	for id := range simWorkers {
		rng := rand.New(rand.NewSource(simSeed + int64(id)))
		g.Go(func() error {
			return simulateWorker(gctx, id, m, t, rng, &nextPID, c)
		})
	}
	return g.Wait()
}

// simulateWorker alternates between admitting a process with a random image
// and exiting one of the processes it admitted earlier.
func simulateWorker(
	ctx context.Context,
	id int,
	m *mem.Manager,
	t *proc.Table,
	rng *rand.Rand,
	nextPID *atomic.Int64,
	c *simCounters,
) error {
	var live []*proc.PCB
	for ctx.Err() == nil {
		if len(live) > 0 && rng.Intn(2) == 0 {
			i := rng.Intn(len(live))
			p := live[i]
			live = slices.Delete(live, i, i+1)
			if err := proc.Exit(m, t, p); err != nil {
				return fmt.Errorf("worker %d: %w", id, err)
			}
			c.exited.Add(1)
			continue
		}

		pid := int(nextPID.Add(1))
		image := make([]byte, 1+rng.Intn(simMaxImage))
		for i := range image {
			image[i] = byte(rng.Intn(256))
		}

		p, err := proc.Admit(m, t, pid, fmt.Sprintf("w%d-%d", id, pid), image)
		switch {
		case errors.Is(err, proc.ErrNoSpace):
			c.noSpace.Add(1)
		case errors.Is(err, proc.ErrTableFull):
			c.tableFull.Add(1)
		case err != nil:
			return fmt.Errorf("worker %d: %w", id, err)
		default:
			p.SetStatus(proc.Running)
			live = append(live, p)
			c.admitted.Add(1)
		}
	}
	return nil
}
