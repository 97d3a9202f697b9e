package registry

import "fmt"

func (r *Registry) Select(id string) error {
	if !r.Exists(id) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	r.selected[id] = true
	return nil
}

func (r *Registry) Deselect(id string) {
	delete(r.selected, id)
}

// Toggle flips the selection of id and reports whether it is now selected.
func (r *Registry) Toggle(id string) (bool, error) {
	if !r.Exists(id) {
		return false, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if r.selected[id] {
		delete(r.selected, id)
		return false, nil
	}
	r.selected[id] = true
	return true, nil
}

func (r *Registry) IsSelected(id string) bool { return r.selected[id] }

// SelectedIDs returns the selection in insertion order.
func (r *Registry) SelectedIDs() []string {
	var out []string
	for _, id := range r.order {
		if r.selected[id] {
			out = append(out, id)
		}
	}
	return out
}

func (r *Registry) ClearSelection() {
	clear(r.selected)
}

// DeleteSelected removes the selected features and returns how many went.
func (r *Registry) DeleteSelected() int {
	return r.remove(func(f *Feature) bool { return r.selected[f.ID] })
}
