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
package link_test

import (
	"testing"

	"bennypowers.dev/legare/link"
)

func TestReplacementMapApply(t *testing.T) {
	tests := []struct {
		name     string
		entries  []link.Replacement
		contents string
		expected string
	}{
		{
			name: "single token",
			entries: []link.Replacement{
				{From: "f9a1c2b3d4e5f607", To: "app.js"},
			},
			contents: `<script src="f9a1c2b3d4e5f607"></script>`,
			expected: `<script src="app.js"></script>`,
		},
		{
			name: "every occurrence replaced",
			entries: []link.Replacement{
				{From: "tok", To: "x"},
			},
			contents: "tok tok tok",
			expected: "x x x",
		},
		{
			name: "insertion order",
			entries: []link.Replacement{
				{From: "a1", To: "first"},
				{From: "b2", To: "second"},
			},
			contents: "a1 b2",
			expected: "first second",
		},
		{
			name: "replacement containing a later token is substituted again",
			entries: []link.Replacement{
				{From: "a1", To: "see b2"},
				{From: "b2", To: "second"},
			},
			contents: "a1 b2",
			expected: "see second second",
		},
		{
			name:     "no entries leaves buffer unchanged",
			entries:  nil,
			contents: "untouched",
			expected: "untouched",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rm := link.NewReplacementMap()
			for i, r := range tt.entries {
				rm.Add(string(rune('a'+i)), r)
			}

			got := rm.Apply(tt.contents)
			if got != tt.expected {
				t.Errorf("Apply mismatch:\n  got:      %q\n  expected: %q", got, tt.expected)
			}
		})
	}
}

func TestReplacementMapReAddOverwritesInPlace(t *testing.T) {
	rm := link.NewReplacementMap()
	rm.Add("dep1", link.Replacement{From: "a1", To: "old"})
	rm.Add("dep2", link.Replacement{From: "b2", To: "B"})
	rm.Add("dep1", link.Replacement{From: "a1", To: "new"})

	if rm.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", rm.Len())
	}

	replacements := rm.Replacements()
	if replacements[0].To != "new" {
		t.Errorf("expected dep1 to keep first position with new value, got %+v", replacements[0])
	}

	if got := rm.Apply("a1 b2"); got != "new B" {
		t.Errorf("Apply mismatch: got %q", got)
	}
}

func TestReplacementMapGet(t *testing.T) {
	rm := link.NewReplacementMap()
	rm.Add("dep1", link.Replacement{From: "a1", To: "x"})

	if r, ok := rm.Get("dep1"); !ok || r.To != "x" {
		t.Errorf("Get(dep1) = %+v, %v", r, ok)
	}
	if _, ok := rm.Get("missing"); ok {
		t.Error("Get(missing) should not be found")
	}
}
