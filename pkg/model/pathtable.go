package model

import "sort"

// PathTable is the flattened view of a references configuration: for every
// assembly, tag and artifact kind, the absolute path of the materialized
// artifact. A PathTable is built fresh at resolution time and never mutated
// after being returned.
type PathTable map[string]map[string]map[string]string

// PathEntry is one row of a flattened PathTable.
type PathEntry struct {
	Assembly string `json:"assembly" yaml:"assembly"`
	Tag      string `json:"tag" yaml:"tag"`
	Kind     string `json:"kind" yaml:"kind"`
	Path     string `json:"path" yaml:"path"`
	_        struct{}
}

// Lookup yields the path registered for (assembly, tag, kind)
func (t PathTable) Lookup(assembly, tag, kind string) (string, bool) {
	tags, ok := t[assembly]
	if !ok {
		return "", false
	}
	kinds, ok := tags[tag]
	if !ok {
		return "", false
	}
	pth, ok := kinds[kind]
	return pth, ok
}

// Assemblies lists the assemblies in the table, sorted
func (t PathTable) Assemblies() []string {
	assemblies := make([]string, 0, len(t))
	for assembly := range t {
		assemblies = append(assemblies, assembly)
	}
	sort.Strings(assemblies)
	return assemblies
}

// Flatten yields all rows of the table, sorted by assembly, tag and kind
func (t PathTable) Flatten() []PathEntry {
	entries := make([]PathEntry, 0, len(t))
	for assembly, tags := range t {
		for tag, kinds := range tags {
			for kind, pth := range kinds {
				entries = append(entries, PathEntry{
					Assembly: assembly,
					Tag:      tag,
					Kind:     kind,
					Path:     pth,
				})
			}
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Assembly != entries[j].Assembly {
			return entries[i].Assembly < entries[j].Assembly
		}
		if entries[i].Tag != entries[j].Tag {
			return entries[i].Tag < entries[j].Tag
		}
		return entries[i].Kind < entries[j].Kind
	})
	return entries
}
