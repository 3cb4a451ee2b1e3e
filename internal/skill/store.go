// Package skill holds the active skill filter shared by the skills picker
// and the projects list.
package skill

// AllTag is the tag that means "show every project".
const AllTag = "All"

// State is a snapshot of the store. Tag is meaningless when Active is false.
type State struct {
	Tag    string
	Active bool
}

// Listener is called synchronously after every mutation.
type Listener func(State)

// Store holds at most one selected skill tag.
//
// A Store has a single writer. It does no locking of its own; callers that
// share one across goroutines must serialise access.
type Store struct {
	state     State
	listeners []*Listener
}

// NewStore returns an unfiltered store.
func NewStore() *Store {
	return &Store{}
}

// Tag returns the selected tag and whether one is selected.
func (s *Store) Tag() (string, bool) {
	return s.state.Tag, s.state.Active
}

// Active reports whether a filter is selected.
func (s *Store) Active() bool {
	return s.state.Active
}

// State returns the current state.
func (s *Store) State() State {
	return s.state
}

// Select sets the active tag, overwriting any prior selection.
func (s *Store) Select(tag string) {
	s.set(State{Tag: tag, Active: true})
}

// Reset clears the active tag.
func (s *Store) Reset() {
	s.set(State{})
}

// Toggle clears the filter when tag is already selected and selects it
// otherwise.
func (s *Store) Toggle(tag string) {
	if s.state.Active && s.state.Tag == tag {
		s.Reset()
		return
	}
	s.Select(tag)
}

// Subscribe registers fn for change notifications. The returned func
// removes it again.
func (s *Store) Subscribe(fn Listener) func() {
	l := &fn
	s.listeners = append(s.listeners, l)
	return func() {
		for i, cur := range s.listeners {
			if cur == l {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) set(st State) {
	s.state = st
	// copy so a listener may unsubscribe while being notified
	listeners := append([]*Listener(nil), s.listeners...)
	for _, l := range listeners {
		(*l)(st)
	}
}
