package proc

import (
	"errors"
	"fmt"

	"github.com/joshuapare/emumem/internal/logger"
	"github.com/joshuapare/emumem/mem/region"
)

// Memory is the part of mem.Manager that admission and exit need.
type Memory interface {
	Alloc(size int) (int, error)
	Free(addr int) error
	Write(addr int, data []byte) error
}

// Admit places image in a newly allocated region, creates its PCB and adds
// it to the table. Capacity problems come back as ErrNoSpace or
// ErrTableFull so the caller can requeue; on any failure nothing stays
// allocated or admitted.
func Admit(m Memory, t *Table, pid int, name string, image []byte) (*PCB, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: pid %d", ErrEmptyImage, pid)
	}
	if _, ok := t.Lookup(pid); ok {
		return nil, fmt.Errorf("%w: %d", ErrDuplicatePID, pid)
	}

	base, err := m.Alloc(len(image))
	if err != nil {
		return nil, fmt.Errorf("admit pid %d: %w", pid, err)
	}
	if base == region.NoAddress {
		return nil, fmt.Errorf("%w: pid %d needs %d bytes", ErrNoSpace, pid, len(image))
	}

	if err := m.Write(base, image); err != nil {
		return nil, errors.Join(fmt.Errorf("admit pid %d: load image: %w", pid, err), m.Free(base))
	}

	pcb := NewPCB(pid, name, base, len(image))
	slot, err := t.Insert(pcb)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("admit pid %d: %w", pid, err), m.Free(base))
	}

	logger.Info("process admitted", "pid", pid, "image", name, "base", base, "size", len(image), "slot", slot)
	return pcb, nil
}

// Exit frees the process's region and then vacates its slot. Each PCB exits
// once; later calls fail with ErrExited.
func Exit(m Memory, t *Table, p *PCB) error {
	if d, ok := t.Lookup(p.PID()); !ok || d != Descriptor(p) {
		if p.Status() == Exited {
			return fmt.Errorf("%w: %d", ErrExited, p.PID())
		}
		return fmt.Errorf("%w: %d", ErrNotAdmitted, p.PID())
	}
	if !p.exit() {
		return fmt.Errorf("%w: %d", ErrExited, p.PID())
	}

	if err := m.Free(p.Base()); err != nil {
		return fmt.Errorf("exit pid %d: %w", p.PID(), err)
	}
	t.Remove(p)

	logger.Info("process exited", "pid", p.PID(), "base", p.Base(), "size", p.Size())
	return nil
}
