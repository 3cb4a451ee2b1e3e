package view

import (
	"github.com/hephzaron/portfolio/internal/catalog"
	"github.com/hephzaron/portfolio/internal/skill"
)

// SkillCard is one skill in the picker grid.
type SkillCard struct {
	Name     string
	Level    int
	Rating   catalog.StarRating
	Selected bool
}

// CategoryTab is one category button.
type CategoryTab struct {
	Name   string
	Active bool
}

// SkillsSnapshot is the render state of the skills section.
type SkillsSnapshot struct {
	Categories []CategoryTab
	Skills     []SkillCard
	Tag        string
	Filtered   bool
}

// SkillsView lists the skills of one category at a time and drives the
// shared store.
type SkillsView struct {
	catalog  *catalog.Catalog
	store    *skill.Store
	category string
}

// NewSkillsView starts on the first category.
func NewSkillsView(c *catalog.Catalog, store *skill.Store) *SkillsView {
	v := &SkillsView{catalog: c, store: store}
	if len(c.Categories) > 0 {
		v.category = c.Categories[0]
	}
	return v
}

// Category is the active category.
func (v *SkillsView) Category() string { return v.category }

// SetCategory switches category and clears the filter. Unknown categories
// are ignored.
func (v *SkillsView) SetCategory(category string) bool {
	if !v.catalog.HasCategory(category) {
		return false
	}
	v.category = category
	v.store.Reset()
	return true
}

// Click toggles name in the store. It reports whether the click selected a
// skill, in which case the caller should bring the projects into view.
func (v *SkillsView) Click(name string) bool {
	v.store.Toggle(name)
	return v.store.Active()
}

// Snapshot returns the current render state.
func (v *SkillsView) Snapshot() SkillsSnapshot {
	st := v.store.State()
	s := SkillsSnapshot{Tag: st.Tag, Filtered: st.Active}
	for _, c := range v.catalog.Categories {
		s.Categories = append(s.Categories, CategoryTab{Name: c, Active: c == v.category})
	}
	for _, sk := range v.catalog.SkillsIn(v.category) {
		s.Skills = append(s.Skills, SkillCard{
			Name:     sk.Name,
			Level:    sk.Level,
			Rating:   sk.Rating(),
			Selected: st.Active && st.Tag == sk.Name,
		})
	}
	return s
}
