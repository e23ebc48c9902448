package engine

import (
	"context"
	"errors"

	"progresskit/core"
)

// Store abstracts persistence of learner snapshots. Load reports a missing
// snapshot with ok=false and a nil error; a snapshot that exists but cannot
// be decoded is reported with an error wrapping ErrCorruptSnapshot so the
// service can fall back to first-use defaults without masking real outages.
type Store interface {
	Load(ctx context.Context, learner core.LearnerID) (snap core.ProgressionSnapshot, ok bool, err error)
	Save(ctx context.Context, learner core.LearnerID, snap core.ProgressionSnapshot) error
}

// ErrCorruptSnapshot marks persisted data that exists but cannot be decoded.
var ErrCorruptSnapshot = errors.New("corrupt snapshot")

// ErrNotSaved wraps persistence write failures. Callers must treat the
// in-memory result as discarded: the previously persisted snapshot stays
// authoritative and no progress was recorded.
var ErrNotSaved = errors.New("snapshot not saved")
