/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/
package graph

// Memory is an in-memory BundleGraph. Insertion order is traversal order,
// so graphs built the same way always link the same way.
type Memory struct {
	bundles     map[string]*Bundle
	deps        map[string][]*Dependency
	resolutions map[string]*BundleGroup
	referenced  map[string]*Bundle
}

// NewMemory creates an empty in-memory bundle graph.
func NewMemory() *Memory {
	return &Memory{
		bundles:     make(map[string]*Bundle),
		deps:        make(map[string][]*Dependency),
		resolutions: make(map[string]*BundleGroup),
		referenced:  make(map[string]*Bundle),
	}
}

// AddBundle registers a bundle with the graph and returns it.
func (m *Memory) AddBundle(b *Bundle) *Bundle {
	m.bundles[b.ID] = b
	return b
}

// AddGroup creates a bundle group from the given bundles. The first bundle
// is the group's entry. Bundles not yet registered are registered.
func (m *Memory) AddGroup(bundles ...*Bundle) *BundleGroup {
	for _, b := range bundles {
		if _, ok := m.bundles[b.ID]; !ok {
			m.AddBundle(b)
		}
	}
	return &BundleGroup{bundles: bundles}
}

// AddDependency records d as an external dependency of from.
func (m *Memory) AddDependency(from *Bundle, d *Dependency) *Dependency {
	m.deps[from.ID] = append(m.deps[from.ID], d)
	return d
}

// Resolve records that dependency d points at bundle group g. Passing a
// nil group leaves d external.
func (m *Memory) Resolve(d *Dependency, g *BundleGroup) {
	if g == nil {
		return
	}
	m.resolutions[d.ID] = g
}

// Bundle returns the registered bundle with the given ID, or nil.
func (m *Memory) Bundle(id string) *Bundle {
	return m.bundles[id]
}

// ExternalDependencies implements BundleGraph.
func (m *Memory) ExternalDependencies(b *Bundle) []*Dependency {
	return m.deps[b.ID]
}

// ResolveExternalDependency implements BundleGraph.
func (m *Memory) ResolveExternalDependency(d *Dependency) *BundleGroup {
	return m.resolutions[d.ID]
}

// ReferencedBundles implements BundleGraph. Traversal is breadth-first in
// dependency insertion order; inline bundles never appear in the result
// because they are not emitted as sibling files.
func (m *Memory) ReferencedBundles(b *Bundle, recursive bool) []*Bundle {
	var result []*Bundle
	seen := map[string]bool{b.ID: true}
	queue := []*Bundle{b}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, next := range m.neighbors(current) {
			if seen[next.ID] {
				continue
			}
			seen[next.ID] = true
			result = append(result, next)
			if recursive {
				queue = append(queue, next)
			}
		}
	}

	return result
}

// neighbors returns the non-inline bundles one hop from b, in dependency
// insertion order with group order breaking ties.
func (m *Memory) neighbors(b *Bundle) []*Bundle {
	var result []*Bundle
	seen := make(map[string]bool)
	for _, d := range m.deps[b.ID] {
		group := m.resolutions[d.ID]
		if group == nil {
			continue
		}
		for _, gb := range group.Bundles() {
			if gb.IsInline || gb.ID == b.ID || seen[gb.ID] {
				continue
			}
			seen[gb.ID] = true
			result = append(result, gb)
		}
	}
	return result
}

// ReferencedBundle implements BundleGraph. It returns the entry bundle of
// the group d resolves to, unless that bundle is inline.
func (m *Memory) ReferencedBundle(d *Dependency, from *Bundle) *Bundle {
	entry := m.resolutions[d.ID].Entry()
	if entry == nil || entry.IsInline {
		return nil
	}
	return entry
}
