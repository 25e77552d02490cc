// Package catalog holds the built-in exercise table used to resolve exercise
// names from imports and to group volume by category.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"gopkg.in/yaml.v3"
)

// Unknown is the category reported for ids not in the catalog.
const Unknown = "unknown"

//go:embed exercises.yaml
var exercisesYAML []byte

// Exercise is one catalog entry.
type Exercise struct {
	ID        string   `yaml:"id" json:"id"`
	Name      string   `yaml:"name" json:"name"`
	Category  string   `yaml:"category" json:"category"`
	Muscle    string   `yaml:"muscle" json:"muscle"`
	Equipment string   `yaml:"equipment" json:"equipment"`
	Aliases   []string `yaml:"aliases" json:"aliases,omitempty"`
}

// Catalog indexes exercises by id and by normalized name or alias.
type Catalog struct {
	exercises []Exercise
	byID      map[string]int
	byName    map[string]string
}

// Parse builds a catalog from YAML. Ids must be unique and non-empty.
func Parse(data []byte) (*Catalog, error) {
	var list []Exercise
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	c := &Catalog{
		exercises: list,
		byID:      make(map[string]int, len(list)),
		byName:    make(map[string]string, len(list)*3),
	}
	for i, ex := range list {
		if ex.ID == "" || ex.Name == "" {
			return nil, fmt.Errorf("catalog entry %d: id and name are required", i)
		}
		if _, dup := c.byID[ex.ID]; dup {
			return nil, fmt.Errorf("catalog entry %d: duplicate id %q", i, ex.ID)
		}
		c.byID[ex.ID] = i
		c.byName[Slug(ex.ID)] = ex.ID
		c.byName[Slug(ex.Name)] = ex.ID
		for _, a := range ex.Aliases {
			c.byName[Slug(a)] = ex.ID
		}
	}
	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded catalog. It panics if the embedded data is
// malformed.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(exercisesYAML)
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// All returns every exercise in catalog order.
func (c *Catalog) All() []Exercise {
	out := make([]Exercise, len(c.exercises))
	copy(out, c.exercises)
	return out
}

// Lookup returns the exercise with the given id.
func (c *Catalog) Lookup(id string) (Exercise, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Exercise{}, false
	}
	return c.exercises[i], true
}

// Category returns the category for id, or Unknown.
func (c *Catalog) Category(id string) string {
	if ex, ok := c.Lookup(id); ok {
		return ex.Category
	}
	return Unknown
}

// Resolve maps a free-form exercise name to a catalog id. Names the catalog
// does not know resolve to their slug, so they still group consistently.
func (c *Catalog) Resolve(name string) string {
	s := Slug(name)
	if id, ok := c.byName[s]; ok {
		return id
	}
	return s
}

// Slug lowercases s and collapses every run of non-alphanumeric characters
// into a single underscore. "Pull-Ups (Weighted)" becomes "pull_ups_weighted".
func Slug(s string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}
