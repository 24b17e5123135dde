package draft

// DropEvent describes the end of a section drag gesture: the grabbed
// section and the section it was dropped over.
type DropEvent struct {
	ActiveID string
	OverID   string
}

// ApplyDrop resolves both identifiers against the current section order and
// moves the active section to the target position. Returns false without
// touching the order when either section is gone (deleted mid-drag) or both
// resolve to the same index.
func (d *Draft) ApplyDrop(ev DropEvent) bool {
	oldIndex := d.sectionIndex(ev.ActiveID)
	newIndex := d.sectionIndex(ev.OverID)
	if oldIndex < 0 || newIndex < 0 || oldIndex == newIndex {
		return false
	}
	d.MoveSection(oldIndex, newIndex)
	return true
}

func (d *Draft) sectionIndex(id string) int {
	for i, s := range d.Sections {
		if s.ID == id {
			return i
		}
	}
	return -1
}
