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
package graph_test

import (
	"reflect"
	"testing"

	"bennypowers.dev/legare/graph"
)

func ids(bundles []*graph.Bundle) []string {
	var result []string
	for _, b := range bundles {
		result = append(result, b.ID)
	}
	return result
}

// diamond builds a -> b, a -> c, b -> d, c -> d.
func diamond(t *testing.T) (*graph.Memory, *graph.Bundle) {
	t.Helper()
	g := graph.NewMemory()
	a := g.AddBundle(&graph.Bundle{ID: "a", Name: "a.html", Type: graph.TypeHTML})
	b := &graph.Bundle{ID: "b", Name: "b.js", Type: graph.TypeJS}
	c := &graph.Bundle{ID: "c", Name: "c.js", Type: graph.TypeJS}
	d := &graph.Bundle{ID: "d", Name: "d.js", Type: graph.TypeJS}

	gb := g.AddGroup(b)
	gc := g.AddGroup(c)
	gd := g.AddGroup(d)

	g.Resolve(g.AddDependency(a, &graph.Dependency{ID: "a-b", Specifier: "./b"}), gb)
	g.Resolve(g.AddDependency(a, &graph.Dependency{ID: "a-c", Specifier: "./c"}), gc)
	g.Resolve(g.AddDependency(b, &graph.Dependency{ID: "b-d", Specifier: "./d"}), gd)
	g.Resolve(g.AddDependency(c, &graph.Dependency{ID: "c-d", Specifier: "./d"}), gd)

	return g, a
}

func TestReferencedBundlesRecursive(t *testing.T) {
	g, a := diamond(t)

	got := ids(g.ReferencedBundles(a, true))
	expected := []string{"b", "c", "d"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("recursive traversal = %v, expected %v (shared bundle once, insertion order)", got, expected)
	}
}

func TestReferencedBundlesDirect(t *testing.T) {
	g, a := diamond(t)

	got := ids(g.ReferencedBundles(a, false))
	expected := []string{"b", "c"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("direct traversal = %v, expected %v", got, expected)
	}
}

func TestReferencedBundlesDeterministic(t *testing.T) {
	g, a := diamond(t)

	first := ids(g.ReferencedBundles(a, true))
	for range 10 {
		if got := ids(g.ReferencedBundles(a, true)); !reflect.DeepEqual(got, first) {
			t.Fatalf("traversal order changed between runs: %v vs %v", got, first)
		}
	}
}

func TestReferencedBundlesExcludesInline(t *testing.T) {
	g := graph.NewMemory()
	doc := g.AddBundle(&graph.Bundle{ID: "doc", Name: "index.html", Type: graph.TypeHTML})
	inline := &graph.Bundle{ID: "inline", Name: "inline.css", Type: graph.TypeCSS, IsInline: true}
	sibling := &graph.Bundle{ID: "sib", Name: "app.js", Type: graph.TypeJS}

	g.Resolve(g.AddDependency(doc, &graph.Dependency{ID: "d1", Specifier: "./inline.css"}), g.AddGroup(inline))
	g.Resolve(g.AddDependency(doc, &graph.Dependency{ID: "d2", Specifier: "./app.js"}), g.AddGroup(sibling))

	got := ids(g.ReferencedBundles(doc, true))
	if !reflect.DeepEqual(got, []string{"sib"}) {
		t.Errorf("traversal = %v, inline bundles must not appear", got)
	}
}

func TestReferencedBundleGroupEntry(t *testing.T) {
	g := graph.NewMemory()
	doc := g.AddBundle(&graph.Bundle{ID: "doc", Name: "index.html", Type: graph.TypeHTML})
	entry := &graph.Bundle{ID: "entry", Name: "entry.js", Type: graph.TypeJS}
	shared := &graph.Bundle{ID: "shared", Name: "shared.js", Type: graph.TypeJS}
	group := g.AddGroup(entry, shared)
	dep := g.AddDependency(doc, &graph.Dependency{ID: "d1", Specifier: "./entry.js"})
	g.Resolve(dep, group)

	if got := g.ReferencedBundle(dep, doc); got != entry {
		t.Errorf("ReferencedBundle = %v, expected the group entry", got)
	}
}

func TestReferencedBundleInlineEntry(t *testing.T) {
	g := graph.NewMemory()
	doc := g.AddBundle(&graph.Bundle{ID: "doc", Name: "index.html", Type: graph.TypeHTML})
	inline := &graph.Bundle{ID: "inline", Name: "inline.css", Type: graph.TypeCSS, IsInline: true}
	dep := g.AddDependency(doc, &graph.Dependency{ID: "d1", Specifier: "./inline.css"})
	g.Resolve(dep, g.AddGroup(inline))

	if got := g.ReferencedBundle(dep, doc); got != nil {
		t.Errorf("ReferencedBundle = %v, expected nil for an inline entry", got)
	}
}

func TestReferencedBundleUnresolved(t *testing.T) {
	g := graph.NewMemory()
	doc := g.AddBundle(&graph.Bundle{ID: "doc", Name: "index.html", Type: graph.TypeHTML})
	dep := g.AddDependency(doc, &graph.Dependency{ID: "d1", Specifier: "https://example.com/x.js"})

	if got := g.ReferencedBundle(dep, doc); got != nil {
		t.Errorf("ReferencedBundle = %v, expected nil for an unresolved dependency", got)
	}
}

func TestDependencyPlaceholder(t *testing.T) {
	tests := []struct {
		name     string
		dep      graph.Dependency
		expected string
	}{
		{
			name:     "defaults to the id",
			dep:      graph.Dependency{ID: "dep-1"},
			expected: "dep-1",
		},
		{
			name: "meta override wins",
			dep: graph.Dependency{
				ID:   "dep-1",
				Meta: map[string]string{"placeholder": "f3a9c2d8e1b4a6c0"},
			},
			expected: "f3a9c2d8e1b4a6c0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dep.Placeholder(); got != tt.expected {
				t.Errorf("Placeholder() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestEnvironmentSupports(t *testing.T) {
	var nilEnv *graph.Environment
	if nilEnv.Supports(graph.FeatureImportMaps) {
		t.Error("nil environment must not support any feature")
	}

	env := &graph.Environment{Features: map[graph.Feature]bool{graph.FeatureESModules: true}}
	if !env.Supports(graph.FeatureESModules) {
		t.Error("declared feature should be supported")
	}
	if env.Supports(graph.FeatureImportMaps) {
		t.Error("undeclared feature must not be supported")
	}
}
