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

import (
	"bennypowers.dev/legare/graph"
	"bennypowers.dev/legare/importmap"
)

// RefType distinguishes the kinds of sibling-bundle references a document
// packager emits.
type RefType string

const (
	RefScript     RefType = "Script"
	RefStyleSheet RefType = "StyleSheet"
)

// BundleReference is one sibling bundle a document must load by tag.
type BundleReference struct {
	Type RefType `json:"type"`

	// URL is the absolute URL of the sibling output file.
	URL string `json:"url"`

	// Module marks scripts packaged as ES modules.
	Module bool `json:"module,omitempty"`

	// NoModule marks classic-script fallbacks for module-source siblings,
	// loaded only by runtimes without ES module support.
	NoModule bool `json:"nomodule,omitempty"`
}

// CollectReferences walks the bundles transitively reachable from the
// target document and produces the script and stylesheet references its
// packager must emit, plus the document's merged import map.
//
// Directly referenced bundles are skipped: the document's own dependency
// rewriting already accounts for them, and emitting a tag as well would
// load them twice. Ordering follows the graph's deterministic traversal.
func CollectReferences(g graph.BundleGraph, target *graph.Bundle) ([]BundleReference, *importmap.ImportMap) {
	referenced := g.ReferencedBundles(target, true)

	direct := make(map[string]bool)
	for _, b := range g.ReferencedBundles(target, false) {
		direct[b.ID] = true
	}

	supportsImportMaps := target.Env.Supports(graph.FeatureImportMaps)

	var refs []BundleReference
	im := importmap.New()

	for _, rb := range referenced {
		switch rb.Type {
		case graph.TypeCSS:
			if !direct[rb.ID] {
				refs = append(refs, BundleReference{
					Type: RefStyleSheet,
					URL:  JoinURL(publicURL(rb), rb.Name),
				})
			}
		case graph.TypeJS:
			if !direct[rb.ID] {
				module := rb.Env != nil && rb.Env.OutputFormat == graph.FormatESModule
				refs = append(refs, BundleReference{
					Type:     RefScript,
					URL:      JoinURL(publicURL(rb), rb.Name),
					Module:   module,
					NoModule: !module && needsClassicFallback(rb.Env),
				})
			}
			if supportsImportMaps {
				// Import map entries are resolved by the consuming
				// document, so values are rebased onto its public URL
				// root rather than the producing bundle's.
				for specifier, value := range rb.ImportMap {
					im.Set(specifier, JoinURL(publicURL(target), value))
				}
			}
		}
	}

	return refs, im
}

// needsClassicFallback reports whether a sibling was hoisted from module
// sources into a classic-script format, requiring a nomodule guard so
// module-capable runtimes do not run it twice.
func needsClassicFallback(env *graph.Environment) bool {
	return env != nil &&
		env.SourceType == graph.SourceModule &&
		env.ShouldScopeHoist
}
