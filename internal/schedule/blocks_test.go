package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionView(t *testing.T, id string, startHour, startMin, endHour, endMin int) SessionView {
	t.Helper()
	slot := gridSlot(t, startHour, startMin, endHour, endMin)
	return SessionView{Slot: slot}
}

func TestGroupIntoBlocks(t *testing.T) {
	views := []SessionView{
		sessionView(t, "a", 9, 0, 9, 30),
		sessionView(t, "b", 9, 30, 10, 0),
		sessionView(t, "c", 9, 45, 10, 15),
		sessionView(t, "d", 14, 0, 15, 0),
	}

	// One granularity unit of lookahead: window [09:00, 10:00). b fits,
	// c runs past it, d is far away.
	blocks := GroupIntoBlocks(views, 30*time.Minute, 1)
	require.Len(t, blocks, 3)
	assert.Len(t, blocks[0], 2)
	assert.Len(t, blocks[1], 1)
	assert.Len(t, blocks[2], 1)

	// The default window is 20 units (10h): everything before 14:00 with
	// an end inside [09:00, 19:30) clusters together.
	blocks = GroupIntoBlocks(views, 30*time.Minute, 0)
	require.Len(t, blocks, 1)
	assert.Len(t, blocks[0], 4)

	assert.Nil(t, GroupIntoBlocks(nil, 30*time.Minute, 1))
}
