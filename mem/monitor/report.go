package monitor

import (
	"io"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/emumem/mem"
	"github.com/joshuapare/emumem/mem/proc"
	"github.com/joshuapare/emumem/mem/region"
)

// Report writes human-readable summaries with locale-aware number grouping.
type Report struct {
	p *message.Printer
}

// NewReport creates a report for the given language. The zero tag selects English.
func NewReport(tag language.Tag) *Report {
	if tag == language.Und {
		tag = language.English
	}
	return &Report{p: message.NewPrinter(tag)}
}

// Bytes formats n as a grouped byte count, e.g. "1,024 B".
func (r *Report) Bytes(n int) string { return r.p.Sprintf("%d B", n) }

// Summary writes the one-line memory summary.
func (r *Report) Summary(w io.Writer, snap mem.Snapshot) error {
	pct := 0.0
	if snap.Capacity > 0 {
		pct = float64(snap.AllocatedSize) * 100 / float64(snap.Capacity)
	}
	largest := 0
	for _, f := range snap.Free {
		largest = max(largest, f.Length)
	}
	_, err := r.p.Fprintf(w, "memory: %s capacity, %s allocated (%.1f%%), %s free in %d region(s), largest %s\n",
		r.Bytes(snap.Capacity), r.Bytes(snap.AllocatedSize), pct,
		r.Bytes(snap.Capacity-snap.AllocatedSize), len(snap.Free), r.Bytes(largest))
	return err
}

// Regions writes one line per region under a heading.
func (r *Report) Regions(w io.Writer, heading string, regions []region.Region) error {
	if _, err := r.p.Fprintf(w, "%s:\n", heading); err != nil {
		return err
	}
	if len(regions) == 0 {
		_, err := io.WriteString(w, "  (none)\n")
		return err
	}
	for _, reg := range regions {
		if _, err := r.p.Fprintf(w, "  [%6d, %6d)  %s\n", reg.Start, reg.End(), r.Bytes(reg.Length)); err != nil {
			return err
		}
	}
	return nil
}

// Processes writes the process table as aligned columns.
func (r *Report) Processes(w io.Writer, procs []proc.Info) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	r.p.Fprintf(tw, "PID\tSTATUS\tBASE\tSIZE\tPC\tIMAGE\n")
	for _, pi := range procs {
		r.p.Fprintf(tw, "%d\t%s\t%d\t%s\t%d\t%s\n", pi.PID, pi.Status, pi.Base, r.Bytes(pi.Size), pi.PC, pi.Image)
	}
	return tw.Flush()
}

// Stats writes the allocation counters.
func (r *Report) Stats(w io.Writer, st region.Stats) error {
	_, err := r.p.Fprintf(w,
		"allocs: %d (%d failed, %d split, %d exact)  frees: %d (below %d, above %d, both %d, inserted %d, appended %d)\n",
		st.AllocCalls, st.AllocFailures, st.Splits, st.ExactFits,
		st.FreeCalls, st.CoalesceBelow, st.CoalesceAbove, st.CoalesceBoth, st.Inserts, st.Appends)
	return err
}

// Write writes the summary, both region lists, and the process table when
// procs is non-empty.
func (r *Report) Write(w io.Writer, snap mem.Snapshot, procs []proc.Info) error {
	if err := r.Summary(w, snap); err != nil {
		return err
	}
	if err := r.Regions(w, "free", snap.Free); err != nil {
		return err
	}
	if err := r.Regions(w, "allocated", snap.Allocated); err != nil {
		return err
	}
	if len(procs) == 0 {
		return nil
	}
	return r.Processes(w, procs)
}
