package schedule

import (
	"time"

	"github.com/opencfp/schedule-engine/internal/timeslot"
)

// GroupIntoBlocks clusters a track's sessions (ordered by start) into visual
// blocks for rendering: a session joins the current block while its slot
// falls within the lookahead window of the block's opening slot, otherwise it
// starts a new block. Pending overlays are grouped by their previewed slot.
func GroupIntoBlocks(views []SessionView, granularity time.Duration, lookaheadSlots int) [][]SessionView {
	if len(views) == 0 {
		return nil
	}
	var blocks [][]SessionView
	current := []SessionView{views[0]}
	ref := views[0].Slot
	for _, view := range views[1:] {
		if timeslot.WithinLookahead(ref, view.Slot, granularity, lookaheadSlots) {
			current = append(current, view)
			continue
		}
		blocks = append(blocks, current)
		current = []SessionView{view}
		ref = view.Slot
	}
	return append(blocks, current)
}
