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
package importmap_test

import (
	"strings"
	"testing"

	"bennypowers.dev/legare/importmap"
)

func TestMerge(t *testing.T) {
	base := importmap.New()
	base.Set("app/util", "/util.v1.js")
	base.Set("app/core", "/core.js")

	other := importmap.New()
	other.Set("app/util", "/util.v2.js")
	other.Set("app/extra", "/extra.js")

	merged := base.Merge(other)

	expected := map[string]string{
		"app/util":  "/util.v2.js",
		"app/core":  "/core.js",
		"app/extra": "/extra.js",
	}
	for specifier, url := range expected {
		if merged.Imports[specifier] != url {
			t.Errorf("Imports[%q] = %q, expected %q", specifier, merged.Imports[specifier], url)
		}
	}

	if base.Imports["app/util"] != "/util.v1.js" {
		t.Error("Merge must not modify the receiver")
	}
	if other.Imports["app/core"] != "" {
		t.Error("Merge must not modify the argument")
	}
}

func TestMergePreservesScopesAndIntegrity(t *testing.T) {
	existing, err := importmap.Parse([]byte(`{
	  "imports": {"a": "/a.js"},
	  "scopes": {"/admin/": {"a": "/admin/a.js"}},
	  "integrity": {"/a.js": "sha384-abc"}
	}`))
	if err != nil {
		t.Fatal(err)
	}

	collected := importmap.New()
	collected.Set("b", "/b.js")

	merged := existing.Merge(collected)

	if merged.Imports["a"] != "/a.js" || merged.Imports["b"] != "/b.js" {
		t.Errorf("Imports = %v", merged.Imports)
	}
	if merged.Scopes["/admin/"]["a"] != "/admin/a.js" {
		t.Errorf("Scopes = %v, author-written scopes must survive the merge", merged.Scopes)
	}
	if merged.Integrity["/a.js"] != "sha384-abc" {
		t.Errorf("Integrity = %v, author-written integrity must survive the merge", merged.Integrity)
	}
}

func TestMergeNil(t *testing.T) {
	var nilMap *importmap.ImportMap

	if got := nilMap.Merge(nil); got == nil || !got.Empty() {
		t.Errorf("nil.Merge(nil) = %v, expected an empty map", got)
	}

	im := importmap.New()
	im.Set("a", "/a.js")
	if got := nilMap.Merge(im); got.Imports["a"] != "/a.js" {
		t.Errorf("nil.Merge(im) = %v", got)
	}
	if got := im.Merge(nil); got.Imports["a"] != "/a.js" {
		t.Errorf("im.Merge(nil) = %v", got)
	}
}

func TestParse(t *testing.T) {
	im, err := importmap.Parse([]byte(`{"imports": {"lit": "/node_modules/lit/index.js"}}`))
	if err != nil {
		t.Fatal(err)
	}
	if im.Imports["lit"] != "/node_modules/lit/index.js" {
		t.Errorf("Imports = %v", im.Imports)
	}

	if _, err := importmap.Parse([]byte(`not json`)); err == nil {
		t.Error("expected an error for malformed JSON")
	}
}

func TestToJSON(t *testing.T) {
	if got := importmap.New().ToJSON(); got != "" {
		t.Errorf("empty map ToJSON() = %q, expected empty string", got)
	}

	im := importmap.New()
	im.Set("app", "/app.js")
	got := im.ToJSON()
	if !strings.Contains(got, `"imports"`) || !strings.Contains(got, `"/app.js"`) {
		t.Errorf("ToJSON() = %q", got)
	}
}

func TestEmpty(t *testing.T) {
	var nilMap *importmap.ImportMap
	if !nilMap.Empty() {
		t.Error("nil map is empty")
	}
	if !importmap.New().Empty() {
		t.Error("new map is empty")
	}

	im := importmap.New()
	im.Set("a", "/a.js")
	if im.Empty() {
		t.Error("populated map is not empty")
	}
}
