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
package pack_test

import (
	"strings"
	"testing"

	"bennypowers.dev/legare/graph"
	"bennypowers.dev/legare/internal/mapfs"
	"bennypowers.dev/legare/pack"
	"bennypowers.dev/legare/testutil"
)

const documentManifest = `{
  "targets": {
    "default": {"publicUrl": "/", "distDir": "dist"}
  },
  "environments": {
    "doc": {"context": "browser", "features": ["esmodules", "import-maps"]},
    "modern": {"context": "browser", "sourceType": "module", "outputFormat": "esmodule", "features": ["esmodules", "import-maps"]}
  },
  "bundles": [
    {"id": "doc", "name": "index.html", "type": "html", "target": "default", "env": "doc", "assets": ["src/index.html"]},
    {"id": "styles", "name": "styles.css", "type": "css", "target": "default", "env": "doc"},
    {"id": "logo", "name": "logo.png", "type": "png", "target": "default", "env": "doc"},
    {"id": "app", "name": "app.js", "type": "js", "target": "default", "env": "modern", "importMap": {"app/util": "util.js"}},
    {"id": "inline-css", "name": "inline.css", "type": "css", "isInline": true, "target": "default", "env": "doc", "contents": "a{color:red}"}
  ],
  "groups": [
    {"id": "g-styles", "bundles": ["styles"]},
    {"id": "g-logo", "bundles": ["logo"]},
    {"id": "g-app", "bundles": ["app"]},
    {"id": "g-inline", "bundles": ["inline-css"]}
  ],
  "dependencies": [
    {"id": "d-css", "from": "doc", "specifier": "./styles.css", "specifierType": "url", "meta": {"placeholder": "tok_css"}, "group": "g-styles"},
    {"id": "d-img", "from": "doc", "specifier": "./logo.png", "specifierType": "url", "meta": {"placeholder": "tok_img"}, "group": "g-logo"},
    {"id": "d-inline", "from": "doc", "specifier": "./inline.css", "specifierType": "url", "meta": {"placeholder": "tok_inline"}, "group": "g-inline"},
    {"id": "d-app", "from": "styles", "specifier": "./app.js", "specifierType": "esm", "group": "g-app"}
  ]
}`

const documentHTML = `<!doctype html><html><head>` +
	`<link rel="stylesheet" href="tok_css">` +
	`<style data-legare-key="tok_inline"></style>` +
	`</head><body>` +
	`<img src="tok_img">` +
	`</body></html>`

func documentFixture(t *testing.T) (*mapfs.MapFileSystem, *graph.Manifest) {
	t.Helper()

	m, err := graph.ParseManifest([]byte(documentManifest))
	if err != nil {
		t.Fatal(err)
	}

	mfs := mapfs.New()
	mfs.AddFile("dist/index.html", documentHTML, 0644)
	return mfs, m
}

func TestPackageDocument(t *testing.T) {
	mfs, m := documentFixture(t)
	p := pack.NewPackager(mfs, m, true)

	doc := m.Documents()[0]
	linked, _, err := p.Package(doc)
	if err != nil {
		t.Fatal(err)
	}

	for name, substring := range map[string]string{
		"stylesheet url":          `href="styles.css"`,
		"image url":               `src="logo.png"`,
		"spliced inline style":    `<style>a{color:red}</style>`,
		"indirect module script":  `<script type="module" src="/app.js">`,
		"rebased importmap entry": `"/util.js"`,
	} {
		if !strings.Contains(linked, substring) {
			t.Errorf("%s missing: expected substring %q in:\n%s", name, substring, linked)
		}
	}

	for name, substring := range map[string]string{
		"placeholder token":            "tok_css",
		"key attribute":                "data-legare-key",
		"tag for direct css sibling":   `href="/styles.css"`,
		"tag for non-reference bundle": `src="/logo.png"`,
	} {
		if strings.Contains(linked, substring) {
			t.Errorf("%s must not survive linking: found %q in:\n%s", name, substring, linked)
		}
	}
}

func TestPackageNonDocument(t *testing.T) {
	m, err := graph.ParseManifest([]byte(`{
	  "targets": {"default": {"publicUrl": "/", "distDir": "dist"}},
	  "bundles": [
	    {"id": "css", "name": "styles.css", "type": "css", "target": "default"},
	    {"id": "bg", "name": "images/bg.png", "type": "png", "target": "default"}
	  ],
	  "groups": [{"id": "g-bg", "bundles": ["bg"]}],
	  "dependencies": [
	    {"id": "d-bg", "from": "css", "specifier": "./bg.png", "specifierType": "url", "meta": {"placeholder": "tok_bg"}, "group": "g-bg"}
	  ]
	}`))
	if err != nil {
		t.Fatal(err)
	}

	mfs := mapfs.New()
	mfs.AddFile("dist/styles.css", "body{background:url(tok_bg)}", 0644)

	p := pack.NewPackager(mfs, m, true)
	linked, _, err := p.Package(m.Graph().Bundle("css"))
	if err != nil {
		t.Fatal(err)
	}

	if linked != "body{background:url(images/bg.png)}" {
		t.Errorf("linked = %q", linked)
	}
}

func TestPackageDocumentGolden(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "link-document", "")
	m, err := graph.ParseManifest(testutil.LoadFixtureFile(t, "link-document/manifest.json"))
	if err != nil {
		t.Fatal(err)
	}

	p := pack.NewPackager(mfs, m, true)
	linked, _, err := p.Package(m.Documents()[0])
	if err != nil {
		t.Fatal(err)
	}

	testutil.UpdateGoldenFile(t, "index.linked.golden.html", []byte(linked))
	golden := testutil.LoadGoldenFile(t, "index.linked.golden.html")
	if golden == nil {
		return
	}
	if linked != string(golden) {
		t.Errorf("linked document does not match golden file:\n  got:      %q\n  expected: %q", linked, golden)
	}
}

func TestLinkBatch(t *testing.T) {
	mfs, m := documentFixture(t)

	var results []pack.Result
	for r := range pack.LinkBatch(mfs, m, m.Documents(), pack.Options{Relative: true, Parallel: 2}) {
		results = append(results, r)
	}

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %+v", results)
	}
	r := results[0]
	if r.Error != "" {
		t.Fatalf("unexpected error: %s", r.Error)
	}
	if !r.Modified {
		t.Error("linking should modify the document")
	}
	if r.File != "dist/index.html" {
		t.Errorf("File = %q", r.File)
	}

	written, err := mfs.ReadFile("dist/index.html")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(written), `href="styles.css"`) {
		t.Errorf("linked output not written:\n%s", written)
	}
}

func TestLinkBatchDryRun(t *testing.T) {
	mfs, m := documentFixture(t)

	for r := range pack.LinkBatch(mfs, m, m.Documents(), pack.Options{Relative: true, DryRun: true}) {
		if r.Error != "" {
			t.Fatalf("unexpected error: %s", r.Error)
		}
		if !r.Modified {
			t.Error("dry run still reports what would change")
		}
	}

	written, err := mfs.ReadFile("dist/index.html")
	if err != nil {
		t.Fatal(err)
	}
	if string(written) != documentHTML {
		t.Error("dry run must not write files")
	}
}

func TestLinkBatchMissingFile(t *testing.T) {
	_, m := documentFixture(t)
	empty := mapfs.New()

	for r := range pack.LinkBatch(empty, m, m.Documents(), pack.Options{Relative: true}) {
		if r.Error == "" {
			t.Error("expected an error for a missing output file")
		}
		if r.Modified {
			t.Error("a failed document must not be reported as modified")
		}
	}
}
