package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/joshuapare/emumem/mem"
	"github.com/joshuapare/emumem/mem/monitor"
	"github.com/joshuapare/emumem/mem/region"
)

// errTrace marks a malformed trace line.
var errTrace = errors.New("malformed trace line")

func init() {
	rootCmd.AddCommand(newReplayCmd())
}

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <trace>",
		Short: "Replay an allocation trace against a fresh manager",
		Long: `The replay command executes a trace of memory operations, one per line:

  alloc <size>            reserve size bytes, prints the base address
  free <addr>             release the region starting at addr
  write <addr> <int32>    store a little-endian word
  read <addr>             load a word

Blank lines and lines starting with # are ignored. Exhaustion is reported and
replay continues; any contract violation stops the replay with an error.
Use - to read the trace from stdin.

Example:
  memctl replay workload.trace
  memctl replay --strategy best --capacity 4096 workload.trace --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(args)
		},
	}
	return cmd
}

// replayStep is the result of one executed trace line.
type replayStep struct {
	Line      int    `json:"line"`
	Op        string `json:"op"`
	Addr      int    `json:"addr"`
	Size      int    `json:"size,omitempty"`
	Value     int32  `json:"value,omitempty"`
	Exhausted bool   `json:"exhausted,omitempty"`
}

func (s replayStep) String() string {
	switch s.Op {
	case "alloc":
		if s.Exhausted {
			return fmt.Sprintf("alloc %d -> exhausted", s.Size)
		}
		return fmt.Sprintf("alloc %d -> %d", s.Size, s.Addr)
	case "free":
		return fmt.Sprintf("free %d", s.Addr)
	case "write":
		return fmt.Sprintf("write %d %d", s.Addr, s.Value)
	default:
		return fmt.Sprintf("read %d -> %d", s.Addr, s.Value)
	}
}

// replayResult is the JSON form of a completed replay.
type replayResult struct {
	Strategy string       `json:"strategy"`
	Steps    []replayStep `json:"steps"`
	Snapshot mem.Snapshot `json:"snapshot"`
	Stats    region.Stats `json:"stats"`
}

func runReplay(args []string) error {
	tracePath := args[0]

	var in io.Reader = os.Stdin
	if tracePath != "-" {
		f, err := os.Open(tracePath)
		if err != nil {
			return fmt.Errorf("failed to open trace: %w", err)
		}
		defer f.Close()
		in = f
	}

	m, err := newManager(nil)
	if err != nil {
		return err
	}

	printVerbose("Replaying %s with %s over %d bytes\n", tracePath, m.Strategy(), m.Capacity())

	steps, err := replayTrace(m, in, func(s replayStep) {
		if !jsonOut {
			printInfo("%4d  %s\n", s.Line, s)
		}
	})
	if err != nil {
		return err
	}
	if err := m.Verify(); err != nil {
		return fmt.Errorf("ledger inconsistent after replay: %w", err)
	}

	if jsonOut {
		return printJSON(replayResult{
			Strategy: m.Strategy(),
			Steps:    steps,
			Snapshot: m.Snapshot(),
			Stats:    m.Stats(),
		})
	}

	snap := m.Snapshot()
	printInfo("\n")
	if !quiet {
		if err := monitor.NewReport(language.Und).Write(os.Stdout, snap, nil); err != nil {
			return err
		}
	}
	printInfo("\n%s", renderMap(monitor.MemoryMap(snap, 0, 0)))
	return nil
}

// replayTrace executes each line of r against m, calling emit after every
// successful step. It stops at the first malformed line or contract
// violation and returns the steps executed so far.
func replayTrace(m *mem.Manager, r io.Reader, emit func(replayStep)) ([]replayStep, error) {
	var steps []replayStep
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		step, err := replayLine(m, lineNo, strings.Fields(line))
		if err != nil {
			return steps, fmt.Errorf("line %d: %w", lineNo, err)
		}
		steps = append(steps, step)
		if emit != nil {
			emit(step)
		}
	}
	if err := scanner.Err(); err != nil {
		return steps, fmt.Errorf("failed to read trace: %w", err)
	}
	return steps, nil
}

func replayLine(m *mem.Manager, lineNo int, fields []string) (replayStep, error) {
	step := replayStep{Line: lineNo, Op: strings.ToLower(fields[0])}

	want := map[string]int{"alloc": 2, "free": 2, "write": 3, "read": 2}[step.Op]
	if want == 0 {
		return step, fmt.Errorf("%w: unknown op %q", errTrace, fields[0])
	}
	if len(fields) != want {
		return step, fmt.Errorf("%w: %s takes %d argument(s)", errTrace, step.Op, want-1)
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		return step, fmt.Errorf("%w: %v", errTrace, err)
	}

	switch step.Op {
	case "alloc":
		step.Size = n
		addr, err := m.Alloc(n)
		if err != nil {
			return step, err
		}
		step.Addr = addr
		step.Exhausted = addr == region.NoAddress
	case "free":
		step.Addr = n
		if err := m.Free(n); err != nil {
			return step, err
		}
	case "write":
		v, err := strconv.ParseInt(fields[2], 0, 32)
		if err != nil {
			return step, fmt.Errorf("%w: %v", errTrace, err)
		}
		step.Addr, step.Value = n, int32(v)
		if err := m.WriteWord(n, step.Value); err != nil {
			return step, err
		}
	case "read":
		step.Addr = n
		v, err := m.ReadWord(n)
		if err != nil {
			return step, err
		}
		step.Value = v
	}
	return step, nil
}
