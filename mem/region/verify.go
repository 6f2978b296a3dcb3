package region

import (
	"fmt"
	"slices"
)

// ValidationError describes a broken ledger invariant.
type ValidationError struct {
	Type    string
	Message string
	Offset  int
	Details map[string]interface{}
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset %d: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Verify validates that free and allocated tile [0, capacity):
//   - every region is non-empty and inside the address space
//   - the free list is sorted and no two free regions are adjacent
//   - no two regions in the combined set overlap
//   - the lengths sum to capacity
//
// Returns the first violation found, or nil.
func Verify(capacity int, free, allocated []Region) error {
	if err := bounds("FreeRegion", capacity, free); err != nil {
		return err
	}
	if err := bounds("AllocatedRegion", capacity, allocated); err != nil {
		return err
	}

	for i := 1; i < len(free); i++ {
		prev, cur := free[i-1], free[i]
		if prev.Start >= cur.Start {
			return &ValidationError{
				Type:    "FreeOrder",
				Message: fmt.Sprintf("free region %s follows %s", cur, prev),
				Offset:  cur.Start,
			}
		}
		if prev.Adjacent(cur) {
			return &ValidationError{
				Type:    "FreeAdjacency",
				Message: fmt.Sprintf("free regions %s and %s were not coalesced", prev, cur),
				Offset:  cur.Start,
			}
		}
	}

	all := make([]Region, 0, len(free)+len(allocated))
	all = append(all, free...)
	all = append(all, allocated...)
	slices.SortFunc(all, func(a, b Region) int { return a.Start - b.Start })

	total := 0
	var reach Region // region with the highest end seen so far
	for i, r := range all {
		total += r.Length
		if i > 0 && reach.Overlaps(r) {
			return &ValidationError{
				Type:    "Overlap",
				Message: fmt.Sprintf("regions %s and %s overlap", reach, r),
				Offset:  r.Start,
			}
		}
		if r.End() > reach.End() {
			reach = r
		}
	}

	if total != capacity {
		return &ValidationError{
			Type:    "Coverage",
			Message: fmt.Sprintf("regions cover %d bytes, capacity is %d", total, capacity),
			Offset:  -1,
			Details: map[string]interface{}{"covered": total, "capacity": capacity},
		}
	}
	return nil
}

func bounds(kind string, capacity int, regions []Region) error {
	for _, r := range regions {
		if r.Start < 0 || r.Length <= 0 || r.End() > capacity {
			return &ValidationError{
				Type:    kind,
				Message: fmt.Sprintf("region %s outside [0, %d) or empty", r, capacity),
				Offset:  r.Start,
			}
		}
	}
	return nil
}
