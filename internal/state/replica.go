package state

import (
	"sort"
	"sync"
)

// Replica rebuilds a stroke stack from relayed session events. Applying
// the same event twice is harmless, so it can be fed from a reconnecting
// stream that replays history.
type Replica struct {
	mu      sync.RWMutex
	clock   Clock
	strokes []Stroke
	seen    map[string]bool
}

func NewReplica() *Replica {
	return &Replica{seen: make(map[string]bool)}
}

// Apply merges ev into the replica and reports whether the visible stack
// changed.
func (r *Replica) Apply(ev Event) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch ev.Kind {
	case EventCommit:
		if ev.Stroke == nil || ev.Stroke.ID == "" {
			return false
		}
		if c := ev.Stroke.Curve; len(c) > 0 && c[0].Verb != MoveTo {
			Logger().Debug("replica: stroke without a starting point ignored", "id", ev.Stroke.ID)
			return false
		}
		if r.seen[ev.Stroke.ID] {
			Logger().Debug("replica: duplicate stroke ignored", "id", ev.Stroke.ID)
			return false
		}
		r.seen[ev.Stroke.ID] = true
		r.clock.Update(ev.Stroke.Seq)

		st := *ev.Stroke
		i := sort.Search(len(r.strokes), func(i int) bool { return r.strokes[i].Seq > st.Seq })
		r.strokes = append(r.strokes, Stroke{})
		copy(r.strokes[i+1:], r.strokes[i:])
		r.strokes[i] = st
		return true

	case EventUndo:
		if ev.Stroke == nil {
			return false
		}
		for i := len(r.strokes) - 1; i >= 0; i-- {
			if r.strokes[i].ID == ev.Stroke.ID {
				r.strokes = append(r.strokes[:i], r.strokes[i+1:]...)
				return true
			}
		}
		// An undo can overtake its commit; remember the ID so the late
		// commit is dropped.
		r.seen[ev.Stroke.ID] = true
		return false

	case EventClear:
		changed := len(r.strokes) > 0
		r.strokes = nil
		return changed
	}
	return false
}

// Strokes returns the stack in drawing order.
func (r *Replica) Strokes() []Stroke {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Stroke, len(r.strokes))
	copy(out, r.strokes)
	return out
}

func (r *Replica) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.strokes)
}

// Seq is the highest sequence number seen so far.
func (r *Replica) Seq() uint64 {
	return r.clock.Now()
}
