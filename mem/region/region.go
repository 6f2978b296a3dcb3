package region

import "fmt"

// NoAddress is returned by Allocate when no free region can satisfy the request.
const NoAddress = -1

// Region is a contiguous half-open byte range [Start, Start+Length).
// Regions are values; two regions are equal iff Start and Length match.
type Region struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

// End returns the offset one past the last byte of the region.
func (r Region) End() int { return r.Start + r.Length }

// Overlaps reports whether the two regions share at least one byte.
func (r Region) Overlaps(o Region) bool { return r.Start < o.End() && o.Start < r.End() }

// Adjacent reports whether one region ends exactly where the other starts.
func (r Region) Adjacent(o Region) bool { return r.End() == o.Start || o.End() == r.Start }

func (r Region) String() string { return fmt.Sprintf("{%d,%d}", r.Start, r.Length) }

// Outcome describes how Release folded a region back into the free list.
type Outcome uint8

const (
	// MergedBelow: the preceding free region was extended upward.
	MergedBelow Outcome = iota + 1
	// MergedBoth: the preceding free region absorbed the released region and
	// the following free region.
	MergedBoth
	// MergedAbove: the following free region was extended downward.
	MergedAbove
	// Inserted: the region became a new free region between two others.
	Inserted
	// Appended: the region became the new highest free region.
	Appended
)

func (o Outcome) String() string {
	switch o {
	case MergedBelow:
		return "merged-below"
	case MergedBoth:
		return "merged-both"
	case MergedAbove:
		return "merged-above"
	case Inserted:
		return "inserted"
	case Appended:
		return "appended"
	default:
		return fmt.Sprintf("Outcome(%d)", uint8(o))
	}
}
