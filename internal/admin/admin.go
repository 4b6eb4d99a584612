// Package admin describes how models are presented in the admin changelist.
package admin

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const defaultPerPage = 100

// ModelAdmin is the declarative changelist configuration for one model.
type ModelAdmin struct {
	Name             string   `yaml:"-" json:"name"`
	Path             string   `yaml:"-" json:"path"`
	Fields           []string `yaml:"-" json:"fields"`
	ListDisplay      []string `yaml:"list_display" json:"list_display"`
	ListDisplayLinks []string `yaml:"list_display_links" json:"list_display_links"`
	ListFilter       []string `yaml:"list_filter" json:"list_filter"`
	SearchFields     []string `yaml:"search_fields" json:"search_fields"`
	Ordering         string   `yaml:"ordering" json:"ordering"`
	ListPerPage      int      `yaml:"list_per_page" json:"list_per_page"`
}

// PostModelAdmin is the changelist for blog posts.
func PostModelAdmin() ModelAdmin {
	return ModelAdmin{
		Name:             "post",
		Path:             "/api/admin/posts",
		Fields:           []string{"id", "title", "content", "timestamp", "updated"},
		ListDisplay:      []string{"title", "updated", "timestamp"},
		ListDisplayLinks: []string{"updated"},
		ListFilter:       []string{"updated"},
		SearchFields:     []string{"title", "content"},
		Ordering:         "-updated",
		ListPerPage:      defaultPerPage,
	}
}

// Validate checks that every configured field exists on the model.
func (m ModelAdmin) Validate() error {
	known := make(map[string]bool, len(m.Fields))
	for _, f := range m.Fields {
		known[f] = true
	}
	check := func(option string, fields []string) error {
		for _, f := range fields {
			if !known[f] {
				return fmt.Errorf("%s: %s refers to unknown field %q", m.Name, option, f)
			}
		}
		return nil
	}
	if len(m.ListDisplay) == 0 {
		return fmt.Errorf("%s: list_display must not be empty", m.Name)
	}
	for _, opt := range []struct {
		name   string
		fields []string
	}{
		{"list_display", m.ListDisplay},
		{"list_display_links", m.ListDisplayLinks},
		{"list_filter", m.ListFilter},
		{"search_fields", m.SearchFields},
		{"ordering", []string{strings.TrimPrefix(m.Ordering, "-")}},
	} {
		if err := check(opt.name, opt.fields); err != nil {
			return err
		}
	}
	display := make(map[string]bool, len(m.ListDisplay))
	for _, f := range m.ListDisplay {
		display[f] = true
	}
	for _, f := range m.ListDisplayLinks {
		if !display[f] {
			return fmt.Errorf("%s: list_display_links field %q is not in list_display", m.Name, f)
		}
	}
	if m.ListPerPage <= 0 {
		return fmt.Errorf("%s: list_per_page must be positive", m.Name)
	}
	return nil
}

// HasFilter reports whether field is offered as a changelist filter.
func (m ModelAdmin) HasFilter(field string) bool {
	for _, f := range m.ListFilter {
		if f == field {
			return true
		}
	}
	return false
}

// Registry holds the ModelAdmin for each registered model.
type Registry struct {
	mu     sync.RWMutex
	models map[string]ModelAdmin
}

func NewRegistry() *Registry {
	return &Registry{models: make(map[string]ModelAdmin)}
}

// DefaultRegistry returns a registry with every built-in ModelAdmin registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	if err := r.Register(PostModelAdmin()); err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) Register(m ModelAdmin) error {
	if err := m.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models[m.Name] = m
	return nil
}

func (r *Registry) Get(name string) (ModelAdmin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.models[name]
	return m, ok
}

// All returns the registered configurations sorted by name.
func (r *Registry) All() []ModelAdmin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ModelAdmin, 0, len(r.models))
	for _, m := range r.models {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// overrideFile is the YAML layout accepted by LoadOverrides:
//
//	models:
//	  post:
//	    list_display: [title, updated]
//	    list_per_page: 50
type overrideFile struct {
	Models map[string]ModelAdmin `yaml:"models"`
}

// LoadOverrides merges options from a YAML file into already registered models.
// Options absent from the file keep their registered values. An empty path is a no-op.
func (r *Registry) LoadOverrides(path string) error {
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path) // #nosec G304: operator-supplied config path
	if err != nil {
		return fmt.Errorf("read admin config: %w", err)
	}
	return r.ApplyOverrides(raw)
}

// ApplyOverrides merges YAML-encoded options into already registered models.
func (r *Registry) ApplyOverrides(raw []byte) error {
	var file overrideFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse admin config: %w", err)
	}

	for name, o := range file.Models {
		base, ok := r.Get(name)
		if !ok {
			return fmt.Errorf("admin config: unknown model %q", name)
		}
		if o.ListDisplay != nil {
			base.ListDisplay = o.ListDisplay
		}
		if o.ListDisplayLinks != nil {
			base.ListDisplayLinks = o.ListDisplayLinks
		}
		if o.ListFilter != nil {
			base.ListFilter = o.ListFilter
		}
		if o.SearchFields != nil {
			base.SearchFields = o.SearchFields
		}
		if o.Ordering != "" {
			base.Ordering = o.Ordering
		}
		if o.ListPerPage != 0 {
			base.ListPerPage = o.ListPerPage
		}
		if err := r.Register(base); err != nil {
			return fmt.Errorf("admin config: %w", err)
		}
	}
	return nil
}
