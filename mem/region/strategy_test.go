package region

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// holes is a free list with gaps of 30, 10, 20 and 50 bytes.
var holes = []Region{{0, 30}, {40, 10}, {60, 20}, {90, 50}}

func TestFirstFit_Select(t *testing.T) {
	tests := []struct {
		size  int
		want  int
		found bool
	}{
		{1, 0, true},
		{30, 0, true},
		{31, 3, true},
		{50, 3, true},
		{51, 0, false},
	}
	for _, tt := range tests {
		i, ok := FirstFit{}.Select(holes, tt.size)
		require.Equal(t, tt.found, ok, "size %d", tt.size)
		if ok {
			require.Equal(t, tt.want, i, "size %d", tt.size)
		}
	}

	_, ok := FirstFit{}.Select(nil, 1)
	require.False(t, ok)
}

func TestBestFit_Select(t *testing.T) {
	tests := []struct {
		size  int
		want  int
		found bool
	}{
		{1, 1, true},  // 10-byte hole is the tightest
		{10, 1, true}, // exact fit
		{15, 2, true},
		{21, 0, true},
		{31, 3, true},
		{51, 0, false},
	}
	for _, tt := range tests {
		i, ok := BestFit{}.Select(holes, tt.size)
		require.Equal(t, tt.found, ok, "size %d", tt.size)
		if ok {
			require.Equal(t, tt.want, i, "size %d", tt.size)
		}
	}
}

func TestBestFit_TiesGoToLowestAddress(t *testing.T) {
	free := []Region{{0, 20}, {30, 12}, {50, 12}, {70, 40}}
	i, ok := BestFit{}.Select(free, 11)
	require.True(t, ok)
	require.Equal(t, 1, i)
}

func TestNextFit_ResumesAfterLastAllocation(t *testing.T) {
	nf := &NextFit{}

	i, ok := nf.Select(holes, 5)
	require.True(t, ok)
	require.Equal(t, 0, i)

	// the ledger would now hold {5,25}; the rover sits at 5
	free := []Region{{5, 25}, {40, 10}, {60, 20}, {90, 50}}
	i, ok = nf.Select(free, 25)
	require.True(t, ok)
	require.Equal(t, 0, i)

	// rover at 30: next search starts at the region at 40
	free = []Region{{40, 10}, {60, 20}, {90, 50}}
	i, ok = nf.Select(free, 5)
	require.True(t, ok)
	require.Equal(t, 0, i)

	// rover at 45 lies inside {45,5}; a request too big for it moves on
	free = []Region{{45, 5}, {60, 20}, {90, 50}}
	i, ok = nf.Select(free, 15)
	require.True(t, ok)
	require.Equal(t, 1, i)
}

func TestNextFit_WrapsAround(t *testing.T) {
	nf := &NextFit{rover: 100}

	// only the region below the rover is large enough
	free := []Region{{0, 40}, {120, 10}}
	i, ok := nf.Select(free, 30)
	require.True(t, ok)
	require.Equal(t, 0, i)
	require.Equal(t, 30, nf.rover)

	// rover past every region: scanning starts from the bottom
	nf.rover = 500
	i, ok = nf.Select(free, 5)
	require.True(t, ok)
	require.Equal(t, 0, i)

	_, ok = nf.Select(free, 41)
	require.False(t, ok)
	_, ok = nf.Select(nil, 1)
	require.False(t, ok)
}

func TestNextFit_SpreadsAllocations(t *testing.T) {
	l, err := NewLedger(100, &NextFit{})
	require.NoError(t, err)

	mustAllocate(t, l, 10, 0)
	mustAllocate(t, l, 10, 10)
	mustRelease(t, l, 0, Inserted)

	// first-fit would reuse 0; next-fit continues from 20
	mustAllocate(t, l, 10, 20)
	require.Equal(t, []Region{{0, 10}, {30, 70}}, l.Free())
}

func TestBestFit_Ledger(t *testing.T) {
	l, err := NewLedger(100, BestFit{})
	require.NoError(t, err)

	mustAllocate(t, l, 30, 0)
	mustAllocate(t, l, 10, 30)
	mustAllocate(t, l, 20, 40)
	mustAllocate(t, l, 10, 60)
	mustRelease(t, l, 0, Inserted)
	mustRelease(t, l, 40, Inserted)
	require.Equal(t, []Region{{0, 30}, {40, 20}, {70, 30}}, l.Free())

	// 18 fits best in the 20-byte hole
	mustAllocate(t, l, 18, 40)
	require.Equal(t, []Region{{0, 30}, {58, 2}, {70, 30}}, l.Free())
}

func TestStrategyByName(t *testing.T) {
	tests := []struct {
		name string
		want Strategy
	}{
		{"", FirstFit{}},
		{"first", FirstFit{}},
		{"First-Fit", FirstFit{}},
		{"next", &NextFit{}},
		{"best-fit", BestFit{}},
		{" BEST ", BestFit{}},
	}
	for _, tt := range tests {
		got, err := StrategyByName(tt.name)
		require.NoError(t, err, tt.name)
		require.Equal(t, tt.want, got, tt.name)
	}

	_, err := StrategyByName("worst")
	require.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestStrategyByName_FreshNextFit(t *testing.T) {
	a, err := StrategyByName("next")
	require.NoError(t, err)
	b, err := StrategyByName("next")
	require.NoError(t, err)
	require.NotSame(t, a, b)
}

func TestStrategyString(t *testing.T) {
	require.Equal(t, "first-fit", FirstFit{}.String())
	require.Equal(t, "next-fit", (&NextFit{}).String())
	require.Equal(t, "best-fit", BestFit{}.String())
}
