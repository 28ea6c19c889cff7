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

// Package collect finds bundle dependencies in HTML documents and stamps
// placeholder tokens into the buffer for the linking engine to rewrite.
// Tokens are hashes of the dependency's identifying fields, so they are
// opaque, deterministic, and improbable as substrings of ordinary content.
package collect

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"bennypowers.dev/legare/graph"
)

// Dependency is one reference from a document to a module or resource,
// found during collection.
type Dependency struct {
	// Specifier is the original URL or module specifier as written.
	Specifier string

	// SpecifierType says how the specifier should be interpreted.
	SpecifierType graph.SpecifierType

	// Priority describes when the referenced bundle is expected to load.
	Priority graph.Priority

	// Placeholder is the token stamped into the buffer in place of the
	// specifier. Empty for dependencies found inside inline scripts,
	// whose rewriting belongs to the script's own packaging pass.
	Placeholder string

	// Line is the 1-indexed source line the dependency appears on.
	Line int
}

// Result is the outcome of collecting one document.
type Result struct {
	// Contents is the document with URL attribute values replaced by
	// placeholder tokens.
	Contents []byte

	// Dependencies lists the collected dependencies in document order.
	Dependencies []Dependency
}

// urlAttrs maps element names to the attributes that reference other
// bundles, with the load priority each implies.
var urlAttrs = map[string]map[string]graph.Priority{
	"script": {"src": graph.PriorityParallel},
	"link":   {"href": graph.PriorityParallel},
	"img":    {"src": graph.PriorityLazy, "srcset": graph.PriorityLazy},
	"source": {"src": graph.PriorityLazy, "srcset": graph.PriorityLazy},
	"video":  {"src": graph.PriorityLazy, "poster": graph.PriorityLazy},
	"audio":  {"src": graph.PriorityLazy},
	"iframe": {"src": graph.PriorityLazy},
	"use":    {"href": graph.PriorityLazy},
}

type attrCapture struct {
	name       string
	value      string
	start, end int
}

type elementCapture struct {
	tag     string
	attrs   []attrCapture
	content string
	line    int
}

// splice is one pending byte-range rewrite of the document buffer.
type splice struct {
	start, end int
	text       string
}

// Dependencies parses an HTML document, collects every bundle dependency,
// and returns the buffer with specifiers replaced by placeholder tokens.
// Inline module scripts contribute import dependencies without buffer
// rewriting.
func Dependencies(contents []byte) (*Result, error) {
	qm, err := GetQueryManager()
	if err != nil {
		return nil, err
	}

	parser := getHTMLParser()
	defer putHTMLParser(parser)

	tree := parser.Parse(contents, nil)
	defer tree.Close()

	query, err := qm.Query("html", "urlElements")
	if err != nil {
		return nil, err
	}

	cursor := ts.NewQueryCursor()
	defer cursor.Close()

	var deps []Dependency
	var splices []splice

	matches := cursor.Matches(query, tree.RootNode(), contents)
	captureNames := query.CaptureNames()

	for {
		match := matches.Next()
		if match == nil {
			break
		}

		element := elementCapture{line: -1}
		var pendingAttr string

		for _, capture := range match.Captures {
			name := captureNames[capture.Index]
			text := capture.Node.Utf8Text(contents)

			switch name {
			case "tag":
				element.tag = strings.ToLower(text)
				element.line = int(capture.Node.StartPosition().Row) + 1
			case "attr.name":
				pendingAttr = strings.ToLower(text)
				// Valueless attribute until a value capture pairs up.
				element.attrs = append(element.attrs, attrCapture{name: pendingAttr})
			case "attr.value":
				if n := len(element.attrs); n > 0 && element.attrs[n-1].name == pendingAttr {
					element.attrs[n-1].value = text
					element.attrs[n-1].start = int(capture.Node.StartByte())
					element.attrs[n-1].end = int(capture.Node.EndByte())
				}
			case "content":
				element.content = text
			}
		}

		elementDeps, elementSplices, err := collectElement(element)
		if err != nil {
			return nil, err
		}
		deps = append(deps, elementDeps...)
		splices = append(splices, elementSplices...)
	}

	return &Result{
		Contents:     applySplices(contents, splices),
		Dependencies: deps,
	}, nil
}

// collectElement turns one element's URL attributes (and inline module
// content) into dependencies and buffer rewrites.
func collectElement(element elementCapture) ([]Dependency, []splice, error) {
	attrs := urlAttrs[element.tag]

	var deps []Dependency
	var splices []splice

	isModule := element.attr("type") == "module"

	for _, attr := range element.attrs {
		priority, ok := attrs[attr.name]
		if !ok || attr.value == "" || !collectable(attr.value) {
			continue
		}

		if attr.name == "srcset" {
			sources := ParseSrcset(attr.value)
			rewritten := make([]ImageSource, 0, len(sources))
			for _, source := range sources {
				if !collectable(source.URL) {
					rewritten = append(rewritten, source)
					continue
				}
				dep := newDependency(source.URL, graph.SpecifierURL, priority, element.line)
				deps = append(deps, dep)
				rewritten = append(rewritten, ImageSource{URL: dep.Placeholder, Descriptor: source.Descriptor})
			}
			splices = append(splices, splice{attr.start, attr.end, SerializeSrcset(rewritten)})
			continue
		}

		specifierType := graph.SpecifierURL
		if element.tag == "script" && attr.name == "src" && isModule {
			specifierType = graph.SpecifierESM
		}

		dep := newDependency(attr.value, specifierType, priority, element.line)
		deps = append(deps, dep)
		splices = append(splices, splice{attr.start, attr.end, dep.Placeholder})
	}

	// Imports inside inline module scripts become dependencies of the
	// document, but their specifiers are rewritten by the script's own
	// packaging pass, not here.
	if element.tag == "script" && isModule && element.content != "" {
		imports, err := Imports([]byte(element.content))
		if err != nil {
			return nil, nil, err
		}
		for _, imp := range imports {
			deps = append(deps, Dependency{
				Specifier:     imp.Specifier,
				SpecifierType: graph.SpecifierESM,
				Priority:      importPriority(imp),
				Line:          element.line + imp.Line - 1,
			})
		}
	}

	return deps, splices, nil
}

func (e *elementCapture) attr(name string) string {
	for _, attr := range e.attrs {
		if attr.name == name {
			return attr.value
		}
	}
	return ""
}

// collectable filters out references that are not bundle dependencies:
// other origins, data URLs, and same-document fragments.
func collectable(specifier string) bool {
	if specifier == "" || strings.HasPrefix(specifier, "#") {
		return false
	}
	if strings.HasPrefix(specifier, "//") || strings.Contains(specifier, "://") {
		return false
	}
	if strings.HasPrefix(specifier, "data:") || strings.HasPrefix(specifier, "mailto:") || strings.HasPrefix(specifier, "javascript:") {
		return false
	}
	return true
}

// newDependency builds a dependency with its placeholder token: a hash of
// the fields that identify the dependency, so collection is deterministic
// and tokens never collide with ordinary content.
func newDependency(specifier string, st graph.SpecifierType, priority graph.Priority, line int) Dependency {
	h := fnv.New64a()
	h.Write([]byte(specifier))
	h.Write([]byte(st))
	h.Write([]byte(priority))

	return Dependency{
		Specifier:     specifier,
		SpecifierType: st,
		Priority:      priority,
		Placeholder:   fmt.Sprintf("%016x", h.Sum64()),
		Line:          line,
	}
}

func importPriority(imp ModuleImport) graph.Priority {
	if imp.IsDynamic {
		return graph.PriorityLazy
	}
	return graph.PrioritySync
}

// applySplices rewrites the buffer back to front so earlier offsets stay
// valid.
func applySplices(contents []byte, splices []splice) []byte {
	sort.Slice(splices, func(i, j int) bool {
		return splices[i].start > splices[j].start
	})

	result := append([]byte(nil), contents...)
	for _, s := range splices {
		result = append(result[:s.start], append([]byte(s.text), result[s.end:]...)...)
	}
	return result
}
