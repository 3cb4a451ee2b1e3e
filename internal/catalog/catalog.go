// Package catalog loads the static portfolio content: projects, skills and
// skill categories. The content is read once at startup and never mutated.
package catalog

import (
	_ "embed"
	"math"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/hephzaron/portfolio/internal/skill"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Project is a portfolio entry.
type Project struct {
	ID          int      `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Image       string   `yaml:"image" json:"image"`
	Tags        []string `yaml:"tags" json:"tags"`
	DemoURL     string   `yaml:"demo_url" json:"demo_url"`
	RepoURL     string   `yaml:"repo_url" json:"repo_url"`
}

// HasTag reports whether tag is one of the project's tags. Matching is exact
// and case-sensitive.
func (p Project) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Skill is a named proficiency. Name doubles as the project filter key.
type Skill struct {
	Name     string `yaml:"name" json:"name"`
	Level    int    `yaml:"level" json:"level"`
	Category string `yaml:"category" json:"category"`
}

// Stars maps Level onto a 0-5 scale.
func (s Skill) Stars() float64 {
	return float64(s.Level) / 20
}

// StarRating is a star widget broken into its parts.
type StarRating struct {
	Full  int
	Half  bool
	Empty int
}

// Rating splits Stars into full, half and empty stars out of five.
func (s Skill) Rating() StarRating {
	return NewStarRating(s.Stars(), 5)
}

// NewStarRating splits rating into stars out of total. Any fractional part
// renders as a half star.
func NewStarRating(rating float64, total int) StarRating {
	if rating < 0 {
		rating = 0
	}
	if rating > float64(total) {
		rating = float64(total)
	}
	full := int(math.Floor(rating))
	r := StarRating{Full: full, Half: rating-float64(full) > 0}
	r.Empty = total - full
	if r.Half {
		r.Empty--
	}
	return r
}

// Catalog is the full content set.
type Catalog struct {
	Categories []string  `yaml:"categories" json:"categories"`
	Skills     []Skill   `yaml:"skills" json:"skills"`
	Projects   []Project `yaml:"projects" json:"projects"`
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog from a YAML file. An empty path returns Default.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read catalog %s", path)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "catalog %s", path)
	}
	return c, nil
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(err, "failed to parse catalog")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the invariants the views rely on.
func (c *Catalog) Validate() error {
	categories := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		if categories[cat] {
			return errors.Errorf("duplicate category %q", cat)
		}
		categories[cat] = true
	}

	names := make(map[string]bool, len(c.Skills))
	for _, s := range c.Skills {
		if s.Name == "" {
			return errors.New("skill with empty name")
		}
		if names[s.Name] {
			return errors.Errorf("duplicate skill %q", s.Name)
		}
		names[s.Name] = true
		if s.Level < 0 || s.Level > 100 {
			return errors.Errorf("skill %q: level %d out of range 0-100", s.Name, s.Level)
		}
		if !categories[s.Category] {
			return errors.Errorf("skill %q: unknown category %q", s.Name, s.Category)
		}
	}

	ids := make(map[int]bool, len(c.Projects))
	for _, p := range c.Projects {
		if ids[p.ID] {
			return errors.Errorf("duplicate project id %d", p.ID)
		}
		ids[p.ID] = true
		if len(p.Tags) == 0 {
			return errors.Errorf("project %d has no tags", p.ID)
		}
	}
	return nil
}

// SkillsIn returns the skills of category in catalog order.
func (c *Catalog) SkillsIn(category string) []Skill {
	var out []Skill
	for _, s := range c.Skills {
		if s.Category == category {
			out = append(out, s)
		}
	}
	return out
}

// HasCategory reports whether category is listed.
func (c *Catalog) HasCategory(category string) bool {
	for _, cat := range c.Categories {
		if cat == category {
			return true
		}
	}
	return false
}

// Filter returns the projects tagged with tag, in their original order.
// When active is false or tag is skill.AllTag the projects are returned
// unchanged.
func Filter(projects []Project, tag string, active bool) []Project {
	if !active || tag == skill.AllTag {
		return projects
	}
	out := make([]Project, 0, len(projects))
	for _, p := range projects {
		if p.HasTag(tag) {
			out = append(out, p)
		}
	}
	return out
}
