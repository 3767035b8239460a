// Package collision tracks channel names while an archive is encoded.
package collision

import (
	"fmt"

	"github.com/arloliu/tunetrace/errs"
)

// MaxNameLength is the longest channel name the names payload can hold.
const MaxNameLength = 255

// Tracker records channel names and their IDs in insertion order.
//
// Two different names with the same ID are a collision: both are kept and the
// archive is flagged so readers resolve channels by name. The same name twice is
// an error.
type Tracker struct {
	ids          map[uint64]string
	names        map[string]struct{}
	ordered      []string
	hasCollision bool
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		ids:   make(map[uint64]string),
		names: make(map[string]struct{}),
	}
}

// Track adds a channel name with its ID.
//
// It fails with errs.ErrInvalidChannelName for an empty or overlong name and
// with errs.ErrDuplicateChannel when name was already tracked.
func (t *Tracker) Track(name string, id uint64) error {
	if name == "" || len(name) > MaxNameLength {
		return fmt.Errorf("%w: %q", errs.ErrInvalidChannelName, name)
	}
	if _, ok := t.names[name]; ok {
		return fmt.Errorf("%w: %s", errs.ErrDuplicateChannel, name)
	}

	if _, ok := t.ids[id]; ok {
		t.hasCollision = true
	} else {
		t.ids[id] = name
	}
	t.names[name] = struct{}{}
	t.ordered = append(t.ordered, name)

	return nil
}

// HasCollision reports whether two tracked names share an ID.
func (t *Tracker) HasCollision() bool {
	return t.hasCollision
}

// Names returns the tracked names in insertion order.
func (t *Tracker) Names() []string {
	return t.ordered
}

// Count returns the number of tracked names.
func (t *Tracker) Count() int {
	return len(t.ordered)
}

// Reset clears the tracker for reuse, keeping allocated capacity.
func (t *Tracker) Reset() {
	clear(t.ids)
	clear(t.names)
	t.ordered = t.ordered[:0]
	t.hasCollision = false
}
