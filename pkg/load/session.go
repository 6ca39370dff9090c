package load

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vkshell/vkshell/pkg/coords"
	"github.com/vkshell/vkshell/pkg/geom"
)

var (
	// ErrNoObjects is returned by Import when the text holds no object block
	ErrNoObjects = errors.New("no objects found")
	// ErrNotFound is returned for an unknown object ID
	ErrNotFound = errors.New("object not found")
)

// Snapshot captures a copy of the session for rendering without holding the
// session lock while laying out or exporting.
type Snapshot struct {
	Objects  []*Object
	Swap     bool
	Selected int
	Status   string

	Center    Center
	HasCenter bool

	LastUpdated time.Time
}

// SelectedObject returns the selected object of the snapshot, if any
func (s Snapshot) SelectedObject() *Object {
	if s.Selected < 0 || s.Selected >= len(s.Objects) {
		return nil
	}
	return s.Objects[s.Selected]
}

// PlotCenter returns the load center in plot coordinates
func (s Snapshot) PlotCenter() (geom.Point, bool) {
	if !s.HasCenter {
		return geom.Point{}, false
	}
	if s.Swap {
		return s.Center.Point.Swap(), true
	}
	return s.Center.Point, true
}

// Session tracks the objects being edited. It is shared between the viewer
// event loop and the file watcher goroutine, so every access goes through
// the mutex.
type Session struct {
	mu sync.RWMutex

	objects  []*Object
	swap     bool
	selected int
	status   string

	// requireAll makes the load center undefined while any P is blank
	requireAll bool

	lastUpdated time.Time
}

// NewSession returns an empty session. swap fixes the axis convention of the
// plot coordinates for the session's lifetime.
func NewSession(swap bool) *Session {
	return &Session{
		swap:        swap,
		selected:    -1,
		requireAll:  true,
		status:      "Idle",
		lastUpdated: time.Now(),
	}
}

// Swap reports the session axis convention
func (s *Session) Swap() bool {
	return s.swap
}

// SetRequireAllFilled changes how blank P values affect the load center
func (s *Session) SetRequireAllFilled(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requireAll = v
	s.touch()
}

// Import parses the load-object format and appends the objects. The session
// is left untouched when the text holds nothing to import.
func (s *Session) Import(text string) (int, error) {
	blocks := coords.ParseObjects(text)
	if len(blocks) == 0 {
		return 0, ErrNoObjects
	}
	imported := make([]*Object, 0, len(blocks))
	for _, b := range blocks {
		imported = append(imported, NewObject(b.Cadastral, b.Points, s.swap))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = append(s.objects, imported...)
	s.status = fmt.Sprintf("Imported %d objects", len(imported))
	s.touch()
	return len(imported), nil
}

// Add appends an object. The plot coordinates are rebuilt from the original
// ones under the session's axis convention.
func (s *Session) Add(o *Object) {
	c := o.Clone()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.Plot = plotOf(c.Original, s.swap)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = append(s.objects, c)
	s.touch()
}

// Replace swaps the full object list, used when a project is loaded or a
// watched file is re-read.
func (s *Session) Replace(objs []*Object) {
	next := make([]*Object, len(objs))
	for i, o := range objs {
		c := o.Clone()
		c.Plot = plotOf(c.Original, s.swap)
		next[i] = c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = next
	s.selected = -1
	s.touch()
}

// Remove deletes an object by ID
func (s *Session) Remove(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return ErrNotFound
	}
	s.objects = append(s.objects[:idx], s.objects[idx+1:]...)
	switch {
	case s.selected == idx:
		s.selected = -1
	case s.selected > idx:
		s.selected--
	}
	s.touch()
	return nil
}

// Clear removes every object and returns how many there were
func (s *Session) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.objects)
	s.objects = nil
	s.selected = -1
	s.status = "All objects removed"
	s.touch()
	return n
}

// Len returns the number of objects
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// Objects returns copies of the objects in order
func (s *Session) Objects() []*Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.objects)
}

// Object returns a copy of one object
func (s *Session) Object(id uuid.UUID) (*Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	return s.objects[idx].Clone(), nil
}

// SetField edits one electrical attribute of an object
func (s *Session) SetField(id uuid.UUID, f Field, v string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return ErrNotFound
	}
	s.objects[idx].SetField(f, v)
	s.touch()
	return nil
}

// SetText edits the cadastral number and address of an object
func (s *Session) SetText(id uuid.UUID, cadastral, address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return ErrNotFound
	}
	s.objects[idx].Cadastral = cadastral
	s.objects[idx].Address = address
	s.touch()
	return nil
}

// SetCenter sets or, with a nil point, clears the center override
func (s *Session) SetCenter(id uuid.UUID, p *geom.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return ErrNotFound
	}
	if p == nil {
		s.objects[idx].Center = nil
	} else {
		c := *p
		s.objects[idx].Center = &c
	}
	s.touch()
	return nil
}

// Select marks the object at index as selected; -1 clears the selection.
// Selecting the already selected object clears it.
func (s *Session) Select(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case index < 0 || index >= len(s.objects):
		s.selected = -1
	case index == s.selected:
		s.selected = -1
	default:
		s.selected = index
	}
	s.touch()
}

// SetStatus records the message shown to the operator
func (s *Session) SetStatus(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = msg
	s.touch()
}

// LoadCenter computes the load center of the current objects
func (s *Session) LoadCenter() (Center, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return LoadCenter(s.objects, s.requireAll)
}

// Snapshot returns a copy of the mutable state for rendering
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	center, ok := LoadCenter(s.objects, s.requireAll)
	return Snapshot{
		Objects:     cloneAll(s.objects),
		Swap:        s.swap,
		Selected:    s.selected,
		Status:      s.status,
		Center:      center,
		HasCenter:   ok,
		LastUpdated: s.lastUpdated,
	}
}

func (s *Session) indexLocked(id uuid.UUID) int {
	for i, o := range s.objects {
		if o.ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) touch() {
	s.lastUpdated = time.Now()
}

func cloneAll(objs []*Object) []*Object {
	out := make([]*Object, len(objs))
	for i, o := range objs {
		out[i] = o.Clone()
	}
	return out
}
