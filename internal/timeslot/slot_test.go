package timeslot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/opencfp/schedule-engine/pkg/errors"
)

var testDay = time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)

func slotAt(t *testing.T, startHour, startMin, endHour, endMin int) TimeSlot {
	t.Helper()
	s, err := New(
		testDay.Add(time.Duration(startHour)*time.Hour+time.Duration(startMin)*time.Minute),
		testDay.Add(time.Duration(endHour)*time.Hour+time.Duration(endMin)*time.Minute),
	)
	require.NoError(t, err)
	return s
}

func TestNewRejectsInvalidBounds(t *testing.T) {
	start := testDay.Add(10 * time.Hour)

	_, err := New(start, start)
	require.Error(t, err, "zero-length slot")
	assert.True(t, appErrors.HasCode(err, appErrors.ErrInvalidSlot))

	_, err = New(start, start.Add(-time.Minute))
	require.Error(t, err, "inverted slot")
	assert.True(t, appErrors.HasCode(err, appErrors.ErrInvalidSlot))

	s, err := New(start, start.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, s.End().After(s.Start()))
}

func TestOverlapsIsSymmetricAndExcludesAdjacency(t *testing.T) {
	a := slotAt(t, 10, 0, 10, 30)
	adjacent := slotAt(t, 10, 30, 11, 0)
	overlapping := slotAt(t, 10, 15, 10, 45)
	disjoint := slotAt(t, 12, 0, 13, 0)

	assert.False(t, a.Overlaps(adjacent), "adjacency is not overlap")
	assert.False(t, adjacent.Overlaps(a))

	assert.True(t, a.Overlaps(overlapping))
	assert.True(t, overlapping.Overlaps(a))

	assert.False(t, a.Overlaps(disjoint))
	assert.False(t, disjoint.Overlaps(a))

	assert.True(t, a.Overlaps(a), "a slot overlaps itself")
}

func TestContains(t *testing.T) {
	outer := slotAt(t, 9, 0, 18, 0)

	assert.True(t, Contains(&outer, slotAt(t, 9, 0, 10, 0)))
	assert.True(t, Contains(&outer, outer))
	assert.False(t, Contains(&outer, slotAt(t, 8, 0, 10, 0)))
	assert.False(t, Contains(&outer, slotAt(t, 17, 0, 19, 0)))
	assert.False(t, Contains(nil, slotAt(t, 9, 0, 10, 0)), "absent window contains nothing")
}

func TestMergeAdjacentIsOrderIndependent(t *testing.T) {
	a := slotAt(t, 14, 0, 15, 0)
	b := slotAt(t, 15, 0, 16, 0)
	want := slotAt(t, 14, 0, 16, 0)

	merged, err := Merge(a, b)
	require.NoError(t, err)
	assert.True(t, merged.Equal(want))

	merged, err = Merge(b, a)
	require.NoError(t, err)
	assert.True(t, merged.Equal(want))
}

func TestMergeOverlappingBuildsHull(t *testing.T) {
	a := slotAt(t, 10, 0, 11, 0)
	b := slotAt(t, 10, 30, 11, 30)

	merged, err := Merge(a, b)
	require.NoError(t, err)
	assert.True(t, merged.Equal(slotAt(t, 10, 0, 11, 30)))

	// A contained slot must not shrink the hull.
	outer := slotAt(t, 10, 0, 12, 0)
	inner := slotAt(t, 10, 30, 11, 0)
	merged, err = Merge(outer, inner)
	require.NoError(t, err)
	assert.True(t, merged.Equal(outer))
}

func TestMergeRejectsDisjointSlots(t *testing.T) {
	a := slotAt(t, 10, 0, 10, 30)
	b := slotAt(t, 14, 0, 15, 0)

	_, err := Merge(a, b)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrDisjointSlots))
}

func TestShiftStartPreservesDuration(t *testing.T) {
	original := slotAt(t, 10, 0, 11, 30)
	newStart := testDay.Add(14 * time.Hour)

	shifted := original.ShiftStart(newStart)
	assert.True(t, shifted.Start().Equal(newStart))
	assert.Equal(t, original.Duration(), shifted.Duration())
	assert.True(t, original.Start().Equal(testDay.Add(10*time.Hour)), "original is untouched")
}

func TestDurationInSlotsTruncatesPartialUnits(t *testing.T) {
	slot := slotAt(t, 10, 0, 11, 20)

	assert.Equal(t, 2, slot.DurationInSlots(30*time.Minute))
	assert.Equal(t, 80, slot.DurationInSlots(time.Minute))
	assert.Equal(t, 1, slot.DurationInSlots(time.Hour))
	assert.Equal(t, 0, slot.DurationInSlots(0))
}

func TestOrderingHelpers(t *testing.T) {
	early := slotAt(t, 9, 0, 10, 0)
	late := slotAt(t, 11, 0, 12, 0)
	sameStart := slotAt(t, 9, 0, 9, 30)

	assert.True(t, late.IsAfter(early))
	assert.False(t, early.IsAfter(late))
	assert.False(t, early.IsAfter(sameStart), "equal starts are not after")
	assert.True(t, early.StartsSameInstant(sameStart))
	assert.False(t, early.StartsSameInstant(late))
}

func TestWithinLookahead(t *testing.T) {
	ref := slotAt(t, 10, 0, 10, 30)

	// Window with 20 slots of 30m: [10:00, 10:30 + 10h) = [10:00, 20:30).
	assert.True(t, WithinLookahead(ref, slotAt(t, 19, 30, 20, 0), 30*time.Minute, 0))
	assert.False(t, WithinLookahead(ref, slotAt(t, 20, 15, 20, 45), 30*time.Minute, 0))

	// Tighter window: 2 slots ahead -> [10:00, 11:30).
	assert.True(t, WithinLookahead(ref, slotAt(t, 11, 0, 11, 30), 30*time.Minute, 2))
	assert.False(t, WithinLookahead(ref, slotAt(t, 11, 0, 12, 0), 30*time.Minute, 2))

	assert.False(t, WithinLookahead(ref, slotAt(t, 10, 30, 11, 0), 0, 2), "granularity is required")
}
