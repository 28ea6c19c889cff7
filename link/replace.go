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
package link

import "strings"

// Replacement rewrites every occurrence of From in a packaged buffer to To.
// From is a placeholder token chosen by the upstream collect stage to be
// improbable as a substring of ordinary content.
type Replacement struct {
	From string
	To   string
}

// ReplacementMap maps dependency IDs to replacements, preserving insertion
// order. Substitution order is insertion order, which callers populate in
// graph-traversal order. Within one buffer no two dependencies may share a
// From token; re-adding a dependency ID overwrites its replacement in
// place.
type ReplacementMap struct {
	order   []string
	entries map[string]Replacement
}

// NewReplacementMap creates an empty replacement map.
func NewReplacementMap() *ReplacementMap {
	return &ReplacementMap{entries: make(map[string]Replacement)}
}

// Add records the replacement for a dependency ID.
func (m *ReplacementMap) Add(depID string, r Replacement) {
	if _, ok := m.entries[depID]; !ok {
		m.order = append(m.order, depID)
	}
	m.entries[depID] = r
}

// Len returns the number of replacements.
func (m *ReplacementMap) Len() int {
	return len(m.order)
}

// Get returns the replacement recorded for a dependency ID.
func (m *ReplacementMap) Get(depID string) (Replacement, bool) {
	r, ok := m.entries[depID]
	return r, ok
}

// Replacements returns the replacements in insertion order.
func (m *ReplacementMap) Replacements() []Replacement {
	result := make([]Replacement, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, m.entries[id])
	}
	return result
}

// Apply rewrites contents, replacing every literal occurrence of each
// entry's From token with its To text. Entries are applied one at a time
// against the already partially rewritten buffer, so a To text that
// happens to contain a later entry's From token verbatim will itself be
// substituted on that later iteration. Token uniqueness within one buffer
// is the upstream collect stage's responsibility.
func (m *ReplacementMap) Apply(contents string) string {
	for _, id := range m.order {
		r := m.entries[id]
		contents = strings.ReplaceAll(contents, r.From, r.To)
	}
	return contents
}
