package proc

import (
	"fmt"
	"sync"
)

// Status is the scheduling state of a process.
type Status uint8

const (
	Ready Status = iota
	Running
	Blocked
	Exited
)

func (s Status) String() string {
	switch s {
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Blocked:
		return "blocked"
	case Exited:
		return "exited"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// Info is a point-in-time copy of a process control block for observers.
type Info struct {
	PID    int    `json:"pid"`
	Image  string `json:"image"`
	Status string `json:"status"`
	Base   int    `json:"base"`
	Size   int    `json:"size"`
	PC     int    `json:"pc"`
}

// PCB is a process control block. Identity fields are fixed at creation;
// status and program counter may change while other goroutines observe it.
type PCB struct {
	pid   int
	image string
	base  int // Start of the process's allocated region
	size  int // Length of the process's allocated region

	mu     sync.Mutex
	status Status
	pc     int
}

var _ Descriptor = (*PCB)(nil)

// NewPCB creates a ready PCB whose program counter starts at base.
func NewPCB(pid int, image string, base, size int) *PCB {
	return &PCB{pid: pid, image: image, base: base, size: size, pc: base}
}

// PID implements Descriptor.
func (p *PCB) PID() int { return p.pid }

// Image returns the name of the program image.
func (p *PCB) Image() string { return p.image }

// Base returns the start address of the process's region.
func (p *PCB) Base() int { return p.base }

// Size returns the length of the process's region.
func (p *PCB) Size() int { return p.size }

func (p *PCB) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// SetStatus changes the status. Once Exited, the status no longer changes.
func (p *PCB) SetStatus(s Status) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status != Exited {
		p.status = s
	}
}

func (p *PCB) PC() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pc
}

func (p *PCB) SetPC(pc int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pc = pc
}

// exit marks the PCB exited and reports whether this call did it.
func (p *PCB) exit() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status == Exited {
		return false
	}
	p.status = Exited
	return true
}

// Info returns a copy of the PCB's fields.
func (p *PCB) Info() Info {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Info{
		PID:    p.pid,
		Image:  p.image,
		Status: p.status.String(),
		Base:   p.base,
		Size:   p.size,
		PC:     p.pc,
	}
}
