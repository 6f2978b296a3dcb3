package proc

import "errors"

var (
	// ErrTableFull indicates every process slot is occupied.
	ErrTableFull = errors.New("proc: process table full")

	// ErrNoSpace indicates no free region can hold the process image.
	ErrNoSpace = errors.New("proc: no free region large enough for image")

	// ErrDuplicatePID indicates an occupied slot already holds the PID.
	ErrDuplicatePID = errors.New("proc: duplicate pid")

	// ErrNotAdmitted indicates the descriptor is not in the table.
	ErrNotAdmitted = errors.New("proc: process not admitted")

	// ErrExited indicates the process has already exited.
	ErrExited = errors.New("proc: process already exited")

	// ErrEmptyImage indicates an admission with no image bytes.
	ErrEmptyImage = errors.New("proc: empty image")
)
