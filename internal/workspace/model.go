// Package workspace holds what the viewer shows: a set of parsed contours
// or a load-center session, reloadable from the file they came from.
package workspace

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	"github.com/vkshell/vkshell/pkg/coords"
	"github.com/vkshell/vkshell/pkg/geom"
	"github.com/vkshell/vkshell/pkg/load"
	"github.com/vkshell/vkshell/pkg/project"
	"github.com/vkshell/vkshell/pkg/render"
	"github.com/vkshell/vkshell/pkg/report"
	"github.com/vkshell/vkshell/pkg/viewport"
)

// Model is the content of a viewer window
type Model interface {
	Title() string
	Bounds() geom.BoundingBox
	Scene(vp *viewport.Viewport, labels bool) render.Scene
	// Select toggles the item at index; -1 clears the selection
	Select(index int)
	// SelectedBounds returns the bounds of the selected item
	SelectedBounds() (geom.BoundingBox, bool)
	Info() []string
	// Reload re-reads the source file. On error the model is unchanged.
	Reload() error
}

// AreaModel shows parsed contours and their areas
type AreaModel struct {
	mu       sync.RWMutex
	path     string
	opts     coords.Options
	contours []geom.Contour
	summary  report.Area
	active   int
}

// NewAreaModel parses text. path is used by Reload and may be empty.
func NewAreaModel(path, text string, opts coords.Options) (*AreaModel, error) {
	m := &AreaModel{path: path, opts: opts, active: -1}
	if err := m.set(text); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *AreaModel) set(text string) error {
	contours, err := coords.ParseContours(text, m.opts)
	if err != nil {
		return err
	}
	summary := report.Summarize(contours, nil)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.contours = contours
	m.summary = summary
	if m.active >= len(contours) {
		m.active = -1
	}
	return nil
}

func (m *AreaModel) Title() string {
	if m.path == "" {
		return "ТопоПлан"
	}
	return "ТопоПлан - " + m.path
}

func (m *AreaModel) Bounds() geom.BoundingBox {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return geom.Bounds(m.contours...)
}

func (m *AreaModel) Scene(vp *viewport.Viewport, labels bool) render.Scene {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := render.AreaScene(vp, m.contours, m.active)
	s.ShowLabels = labels
	return s
}

func (m *AreaModel) Select(index int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if index < 0 || index >= len(m.contours) || index == m.active {
		m.active = -1
		return
	}
	m.active = index
}

func (m *AreaModel) SelectedBounds() (geom.BoundingBox, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.active < 0 {
		return geom.BoundingBox{}, false
	}
	return m.contours[m.active].Bounds(), true
}

// Summary returns the current area report
func (m *AreaModel) Summary() report.Area {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.summary
}

func (m *AreaModel) Info() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a := m.summary
	lines := []string{
		fmt.Sprintf("Contours: %d (closed %d)", len(a.Contours), a.Closed),
		fmt.Sprintf("Total: %s m² / %s ha", report.FormatGrouped(a.TotalM2, 2), report.FormatGrouped(a.TotalHa, 4)),
	}
	if m.active >= 0 {
		st := a.Contours[m.active]
		if st.Err != nil {
			lines = append(lines, fmt.Sprintf("#%d: %d points, %v", st.Index, st.Points, st.Err))
		} else {
			lines = append(lines, fmt.Sprintf("#%d: %d points, %s m²", st.Index, st.Points, report.FormatGrouped(st.AreaM2, 2)))
		}
	}
	return lines
}

func (m *AreaModel) Reload() error {
	if m.path == "" {
		return nil
	}
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", m.path, err)
	}
	return m.set(string(data))
}

// ReadObjects reads load objects from a project file or from the plain
// import format.
func ReadObjects(data []byte, swap bool) ([]*load.Object, error) {
	if project.IsProjectFile(data) {
		doc, err := project.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return doc.Objects, nil
	}
	blocks := coords.ParseObjects(string(data))
	if len(blocks) == 0 {
		return nil, load.ErrNoObjects
	}
	objs := make([]*load.Object, len(blocks))
	for i, b := range blocks {
		objs[i] = load.NewObject(b.Cadastral, b.Points, swap)
	}
	return objs, nil
}

// LoadModel shows a load-center session
type LoadModel struct {
	path    string
	session *load.Session
}

// NewLoadModel wraps a session. path is used by Reload and may be empty.
func NewLoadModel(path string, s *load.Session) *LoadModel {
	return &LoadModel{path: path, session: s}
}

// Session returns the wrapped session
func (m *LoadModel) Session() *load.Session { return m.session }

func (m *LoadModel) Title() string {
	if m.path == "" {
		return "Центр нагрузок"
	}
	return "Центр нагрузок - " + m.path
}

func (m *LoadModel) Bounds() geom.BoundingBox {
	bb := geom.NewBoundingBox()
	for _, o := range m.session.Objects() {
		bb.ExpandBox(o.Plot.Bounds())
	}
	return bb
}

func (m *LoadModel) Scene(vp *viewport.Viewport, labels bool) render.Scene {
	return render.LoadScene(vp, m.session.Snapshot(), labels)
}

func (m *LoadModel) Select(index int) {
	m.session.Select(index)
}

func (m *LoadModel) SelectedBounds() (geom.BoundingBox, bool) {
	o := m.session.Snapshot().SelectedObject()
	if o == nil {
		return geom.BoundingBox{}, false
	}
	return o.Plot.Bounds(), true
}

func (m *LoadModel) Info() []string {
	snap := m.session.Snapshot()
	lines := []string{fmt.Sprintf("Objects: %d", len(snap.Objects))}
	if snap.HasCenter {
		lines = append(lines, fmt.Sprintf("Load center: %.2f, %.2f (ΣP %s)",
			snap.Center.X, snap.Center.Y, load.FormatValue(snap.Center.TotalPower)))
	} else {
		lines = append(lines, "Load center: undefined")
	}
	if o := snap.SelectedObject(); o != nil {
		v := o.Resolved()
		lines = append(lines,
			o.Cadastral,
			fmt.Sprintf("P %s  Q %s  S %s  cos φ %s",
				orDash(load.FormatValue(v.P)), orDash(load.FormatValue(v.Q)),
				orDash(load.FormatValue(v.S)), orDash(load.FormatValue(v.PF))),
		)
		if o.Address != "" {
			lines = append(lines, o.Address)
		}
	}
	if snap.Status != "" {
		lines = append(lines, snap.Status)
	}
	return lines
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (m *LoadModel) Reload() error {
	if m.path == "" {
		return nil
	}
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", m.path, err)
	}
	objs, err := ReadObjects(data, m.session.Swap())
	if err != nil {
		return err
	}
	m.session.Replace(objs)
	m.session.SetStatus(fmt.Sprintf("Reloaded %d objects", len(objs)))
	return nil
}
