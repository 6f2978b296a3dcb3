package main

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/joshuapare/emumem/mem"
	"github.com/joshuapare/emumem/mem/proc"
	"github.com/joshuapare/emumem/mem/region"
	"github.com/joshuapare/emumem/pkg/types"
)

// errScenario reports an observed result that differs from the expected one.
var errScenario = errors.New("scenario check failed")

func init() {
	rootCmd.AddCommand(newScenarioCmd())
}

func newScenarioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Walk through the reference allocation and process-table scenarios",
		Long: `The scenario command runs the reference scenarios on a 512-byte manager
and a two-slot process table, printing the region lists after every step and
failing if any result differs from the expected one.

  A  alloc(100) on an empty manager
  B  alloc the remaining 412 bytes, then exhaust
  C  free both regions and coalesce back to one
  D  free an address that was never allocated
  E  fill, overflow and reuse a two-slot process table

Example:
  memctl scenario
  memctl scenario --strategy best --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario()
		},
	}
	return cmd
}

// scenarioStep is one executed action and the ledger state after it.
type scenarioStep struct {
	Scenario  string          `json:"scenario"`
	Action    string          `json:"action"`
	Result    string          `json:"result"`
	Free      []region.Region `json:"free,omitempty"`
	Allocated []region.Region `json:"allocated,omitempty"`
}

func (s scenarioStep) String() string {
	if s.Free == nil && s.Allocated == nil {
		return fmt.Sprintf("[%s] %-16s -> %s", s.Scenario, s.Action, s.Result)
	}
	return fmt.Sprintf("[%s] %-16s -> %-10s free %v allocated %v",
		s.Scenario, s.Action, s.Result, s.Free, s.Allocated)
}

func runScenario() error {
	steps, err := runScenarios()
	if jsonOut {
		if jerr := printJSON(steps); jerr != nil {
			return jerr
		}
		return err
	}
	for _, s := range steps {
		printInfo("%s\n", s)
	}
	if err != nil {
		return err
	}
	printInfo("\nall scenarios passed\n")
	return nil
}

// scenarioRecorder collects steps for the scenario in progress.
type scenarioRecorder struct {
	m     *mem.Manager
	name  string
	steps []scenarioStep
}

func (r *scenarioRecorder) record(action, result string, withRegions bool) {
	s := scenarioStep{Scenario: r.name, Action: action, Result: result}
	if withRegions {
		s.Free = r.m.FreeRegions()
		s.Allocated = r.m.AllocatedRegions()
	}
	r.steps = append(r.steps, s)
	printVerbose("  recorded %s/%s\n", r.name, action)
}

func (r *scenarioRecorder) alloc(size int) int {
	addr, err := r.m.Alloc(size)
	result := fmt.Sprint(addr)
	switch {
	case err != nil:
		result = err.Error()
	case addr == region.NoAddress:
		result = "exhausted"
	}
	r.record(fmt.Sprintf("alloc(%d)", size), result, true)
	return addr
}

func (r *scenarioRecorder) free(addr int) error {
	err := r.m.Free(addr)
	result := "ok"
	if err != nil {
		result = err.Error()
	}
	r.record(fmt.Sprintf("free(%d)", addr), result, true)
	return err
}

func expect(scenario string, ok bool, format string, args ...any) error {
	if ok {
		return nil
	}
	return fmt.Errorf("%w: %s: %s", errScenario, scenario, fmt.Sprintf(format, args...))
}

// runScenarios executes scenarios A to E in order and stops at the first
// failed check, returning the steps recorded so far.
func runScenarios() ([]scenarioStep, error) {
	s, err := region.StrategyByName(strategyName)
	if err != nil {
		return nil, err
	}
	m, err := mem.New(mem.WithCapacity(types.DefaultCapacity), mem.WithStrategy(s))
	if err != nil {
		return nil, err
	}
	r := &scenarioRecorder{m: m}

	for _, run := range []func(*scenarioRecorder) error{scenarioA, scenarioB, scenarioC, scenarioD, scenarioE} {
		if err := run(r); err != nil {
			return r.steps, err
		}
		if err := m.Verify(); err != nil {
			return r.steps, fmt.Errorf("scenario %s: %w", r.name, err)
		}
	}
	return r.steps, nil
}

func scenarioA(r *scenarioRecorder) error {
	r.name = "A"
	addr := r.alloc(100)
	if err := expect("A", addr == 0, "alloc(100) = %d, want 0", addr); err != nil {
		return err
	}
	free := r.m.FreeRegions()
	if err := expect("A", slices.Equal(free, []region.Region{{Start: 100, Length: 412}}),
		"free list %v, want [{100,412}]", free); err != nil {
		return err
	}
	return expect("A", r.m.AllocatedSize() == 100, "allocated size %d, want 100", r.m.AllocatedSize())
}

func scenarioB(r *scenarioRecorder) error {
	r.name = "B"
	addr := r.alloc(412)
	if err := expect("B", addr == 100, "alloc(412) = %d, want 100", addr); err != nil {
		return err
	}
	if err := expect("B", len(r.m.FreeRegions()) == 0 && !r.m.IsFullyFree(),
		"free list %v, want empty", r.m.FreeRegions()); err != nil {
		return err
	}
	addr = r.alloc(1)
	return expect("B", addr == region.NoAddress, "alloc(1) = %d, want exhaustion", addr)
}

func scenarioC(r *scenarioRecorder) error {
	r.name = "C"
	for _, addr := range []int{0, 100} {
		if err := r.free(addr); err != nil {
			return fmt.Errorf("scenario C: %w", err)
		}
	}
	free := r.m.FreeRegions()
	return expect("C", r.m.IsFullyFree() && slices.Equal(free, []region.Region{{Start: 0, Length: 512}}),
		"free list %v, want [{0,512}]", free)
}

func scenarioD(r *scenarioRecorder) error {
	r.name = "D"
	r.alloc(64)
	before := r.m.Snapshot()

	err := r.free(7)
	if err := expect("D", errors.Is(err, region.ErrUnknownAddress),
		"free(7) error %v, want %v", err, region.ErrUnknownAddress); err != nil {
		return err
	}
	after := r.m.Snapshot()
	return expect("D",
		slices.Equal(before.Free, after.Free) && slices.Equal(before.Allocated, after.Allocated),
		"regions changed by rejected free")
}

func scenarioE(r *scenarioRecorder) error {
	r.name = "E"
	t := proc.NewTable(2)
	pcbs := make([]*proc.PCB, 4)
	for i := range pcbs {
		pcbs[i] = proc.NewPCB(i+1, fmt.Sprintf("p%d", i+1), 0, 0)
	}

	add := func(p *proc.PCB) bool {
		ok := t.Add(p)
		r.record(fmt.Sprintf("add(pid %d)", p.PID()), fmt.Sprint(ok), false)
		return ok
	}

	if err := expect("E", add(pcbs[0]) && add(pcbs[1]), "first two adds failed"); err != nil {
		return err
	}
	if err := expect("E", !add(pcbs[2]), "third add succeeded on a full table"); err != nil {
		return err
	}

	removed := t.Remove(pcbs[0])
	r.record("remove(pid 1)", fmt.Sprint(removed), false)
	if err := expect("E", removed, "remove(pid 1) failed"); err != nil {
		return err
	}
	if err := expect("E", add(pcbs[3]), "add after remove failed"); err != nil {
		return err
	}

	for _, want := range []*proc.PCB{pcbs[1], pcbs[3]} {
		got, ok := t.Lookup(want.PID())
		r.record(fmt.Sprintf("lookup(pid %d)", want.PID()), fmt.Sprint(ok), false)
		if err := expect("E", ok && got == proc.Descriptor(want), "lookup(%d) returned %v", want.PID(), got); err != nil {
			return err
		}
	}
	_, ok := t.Lookup(1)
	r.record("lookup(pid 1)", fmt.Sprint(ok), false)
	return expect("E", !ok, "removed pid 1 still found")
}
