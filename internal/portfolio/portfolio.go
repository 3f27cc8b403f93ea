// Package portfolio serves the agency's showcase projects from data
// compiled into the binary.
package portfolio

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed projects.yaml
var projectsYAML []byte

// ErrUnknownCategory is returned for a category filter that matches no known category
var ErrUnknownCategory = errors.New("unknown portfolio category")

// CategoryAll disables filtering
const CategoryAll = "all"

// Categories lists the filterable categories in display order
var Categories = []string{"website", "mobile", "iot", "ml", "uiux"}

// Project is one showcase entry
type Project struct {
	ID          string   `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Category    string   `yaml:"category" json:"category"`
	Year        int      `yaml:"year" json:"year"`
	Description string   `yaml:"description" json:"description"`
	Image       string   `yaml:"image" json:"image"`
	Tags        []string `yaml:"tags" json:"tags"`
	URL         string   `yaml:"url,omitempty" json:"url,omitempty"`
}

type document struct {
	Projects []Project `yaml:"projects"`
}

// Catalog is an immutable, ordered list of projects
type Catalog struct {
	projects []Project
}

// Load parses the embedded project list
func Load() (*Catalog, error) {
	return Parse(projectsYAML)
}

// Parse builds a catalog from YAML, newest projects first
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse portfolio: %w", err)
	}

	seen := make(map[string]bool, len(doc.Projects))
	for i, p := range doc.Projects {
		if p.ID == "" || p.Title == "" {
			return nil, fmt.Errorf("portfolio entry %d: id and title are required", i)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("portfolio entry %q is duplicated", p.ID)
		}
		seen[p.ID] = true
		if !knownCategory(p.Category) {
			return nil, fmt.Errorf("portfolio entry %q: %w %q", p.ID, ErrUnknownCategory, p.Category)
		}
	}

	projects := doc.Projects
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].Year > projects[j].Year
	})

	return &Catalog{projects: projects}, nil
}

// List returns projects in category; "" and "all" return everything
func (c *Catalog) List(category string) ([]Project, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" || category == CategoryAll {
		return append([]Project(nil), c.projects...), nil
	}
	if !knownCategory(category) {
		return nil, ErrUnknownCategory
	}

	out := []Project{}
	for _, p := range c.projects {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

// Len is the number of projects in the catalog
func (c *Catalog) Len() int {
	return len(c.projects)
}

func knownCategory(category string) bool {
	for _, known := range Categories {
		if category == known {
			return true
		}
	}
	return false
}
