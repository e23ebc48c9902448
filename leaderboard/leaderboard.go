package leaderboard

import (
	"context"

	"progresskit/core"
)

// Entry ranks one learner by cumulative XP.
type Entry struct {
	Learner core.LearnerID `json:"learner_id"`
	XP      int64          `json:"xp"`
}

// Board abstracts leaderboard operations.
type Board interface {
	Update(learner core.LearnerID, xp int64)
	Remove(learner core.LearnerID)
	TopN(n int) []Entry
	Get(learner core.LearnerID) (Entry, bool)
}

// Follow subscribes the board to answer events so rankings track total XP.
// Returns the unsubscribe func.
func Follow(board Board, sub interface {
	Subscribe(core.EventType, func(context.Context, core.Event)) func()
}) func() {
	return sub.Subscribe(core.EventAnswerRecorded, func(_ context.Context, e core.Event) {
		board.Update(e.Learner, e.TotalXP)
	})
}
