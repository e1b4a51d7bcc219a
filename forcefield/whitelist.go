package forcefield

import "github.com/google/uuid"

// WhiteList is a set of entity identities
// It holds no entity pointers, a destroyed entity just stops matching any candidate
type WhiteList struct {
	ids   map[uuid.UUID]struct{}
	order []uuid.UUID
}

// Add inserts id, reporting false if already present
func (w *WhiteList) Add(id uuid.UUID) bool {
	if w.ids == nil {
		w.ids = make(map[uuid.UUID]struct{})
	}
	if _, ok := w.ids[id]; ok {
		return false
	}
	w.ids[id] = struct{}{}
	w.order = append(w.order, id)
	return true
}

// Remove deletes id, reporting false if absent
func (w *WhiteList) Remove(id uuid.UUID) bool {
	if _, ok := w.ids[id]; !ok {
		return false
	}
	delete(w.ids, id)
	for i, o := range w.order {
		if o == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	return true
}

func (w *WhiteList) Contains(id uuid.UUID) bool {
	_, ok := w.ids[id]
	return ok
}

func (w *WhiteList) Clear() {
	clear(w.ids)
	w.order = w.order[:0]
}

func (w *WhiteList) Len() int { return len(w.order) }

// IDs returns members in insertion order
func (w *WhiteList) IDs() []uuid.UUID {
	out := make([]uuid.UUID, len(w.order))
	copy(out, w.order)
	return out
}
