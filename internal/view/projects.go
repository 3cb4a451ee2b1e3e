// Package view builds the render state of the skills and projects sections
// from the skill store and the static catalog.
package view

import (
	"github.com/hephzaron/portfolio/internal/catalog"
	"github.com/hephzaron/portfolio/internal/paging"
	"github.com/hephzaron/portfolio/internal/skill"
)

// DefaultProjectsPerPage is used when no page size is configured.
const DefaultProjectsPerPage = 6

// Action is a link or button offered to the visitor.
type Action struct {
	Label  string
	Href   string
	Method string
}

// Empty-state recovery actions.
var (
	BackToSkills = Action{Label: "Back to skills", Href: "/#skills", Method: "GET"}
	ShowAll      = Action{Label: "Show all projects", Href: "/skills/reset", Method: "POST"}
)

// ProjectsSnapshot is everything the projects section needs to render.
type ProjectsSnapshot struct {
	Tag      string
	Filtered bool
	Projects []catalog.Project
	Matching int
	Page     int
	Pages    []int
	Total    int
	HasPrev  bool
	HasNext  bool

	Empty        bool
	EmptyActions []Action
}

// ProjectsView filters the catalog by the store's tag and pages the result.
type ProjectsView struct {
	all      []catalog.Project
	store    *skill.Store
	window   *paging.Window
	filtered []catalog.Project
	unsub    func()
}

// NewProjectsView subscribes to store; the window returns to page 1 on every
// filter change.
func NewProjectsView(projects []catalog.Project, perPage int, store *skill.Store) *ProjectsView {
	if perPage <= 0 {
		perPage = DefaultProjectsPerPage
	}
	v := &ProjectsView{all: projects, store: store}
	v.filtered = catalog.Filter(projects, store.State().Tag, store.State().Active)
	v.window = paging.NewWindow(perPage, len(v.filtered))
	v.unsub = store.Subscribe(v.onFilter)
	return v
}

func (v *ProjectsView) onFilter(st skill.State) {
	v.filtered = catalog.Filter(v.all, st.Tag, st.Active)
	v.window.Reset(len(v.filtered))
}

// Close detaches the view from its store.
func (v *ProjectsView) Close() {
	if v.unsub != nil {
		v.unsub()
		v.unsub = nil
	}
}

// GoToPage moves to page n; out of range pages are ignored.
func (v *ProjectsView) GoToPage(n int) bool { return v.window.GoToPage(n) }

// NextPage moves forward one page.
func (v *ProjectsView) NextPage() bool { return v.window.Next() }

// PrevPage moves back one page.
func (v *ProjectsView) PrevPage() bool { return v.window.Prev() }

// CurrentPage is the 1-based page number.
func (v *ProjectsView) CurrentPage() int { return v.window.Current() }

// Filtered returns the projects matching the active filter.
func (v *ProjectsView) Filtered() []catalog.Project { return v.filtered }

// Snapshot returns the current render state.
func (v *ProjectsView) Snapshot() ProjectsSnapshot {
	st := v.store.State()
	s := ProjectsSnapshot{
		Tag:      st.Tag,
		Filtered: st.Active,
		Matching: len(v.filtered),
		Page:     v.window.Current(),
		Pages:    v.window.Numbers(),
		Total:    v.window.Total(),
		HasPrev:  v.window.HasPrev(),
		HasNext:  v.window.HasNext(),
	}
	if len(v.filtered) == 0 {
		s.Empty = true
		s.EmptyActions = []Action{BackToSkills, ShowAll}
		return s
	}
	s.Projects = paging.Page(v.filtered, v.window.PerPage(), v.window.Current())
	return s
}
