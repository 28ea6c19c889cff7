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
	"fmt"

	"bennypowers.dev/legare/graph"
)

// InlineBundle is the fully packaged, already-substituted content of an
// inline bundle, escaped for its host document and ready to splice.
type InlineBundle struct {
	// Contents is the escaped packaged content.
	Contents string

	// Module marks inline scripts that must run as ES modules.
	Module bool
}

// InlineResolver obtains the packaged contents of an inline bundle. It may
// recurse back into this package: packaging an inline bundle performs a
// full linking pass of its own, and the recursion terminates because
// bundle groups form an acyclic graph. The returned source map is passed
// through unmodified.
type InlineResolver func(b *graph.Bundle) (contents string, sourceMap []byte, err error)

// refKind classifies a dependency for the substitution builder. Every
// dependency lands in exactly one of these; kinds without a replacement
// path are refSkip so that no classification falls through silently.
type refKind int

const (
	// refSkip produces no replacement: the dependency either resolves to
	// nothing referenceable or is handled by a different path (sibling
	// script/stylesheet tags, ambiguous inline kinds).
	refSkip refKind = iota

	// refInline splices the target bundle's packaged content.
	refInline

	// refSiblingURL rewrites the token to the URL of a sibling output
	// file.
	refSiblingURL

	// refExternalPassthrough leaves the original specifier untouched for
	// references the build intentionally did not bundle.
	refExternalPassthrough
)

type classified struct {
	kind   refKind
	target *graph.Bundle
}

// classify decides how one dependency of the host bundle is rewritten.
// Graph inconsistencies (a group with no entry bundle) classify as skip:
// nothing to reference is not an error.
func classify(g graph.BundleGraph, host *graph.Bundle, dep *graph.Dependency) classified {
	group := g.ResolveExternalDependency(dep)
	if group == nil {
		return classified{kind: refExternalPassthrough}
	}

	entry := group.Entry()
	if entry == nil {
		return classified{kind: refSkip}
	}

	if entry.IsInline {
		return classified{kind: refInline, target: entry}
	}

	if dep.IsURL() {
		target := g.ReferencedBundle(dep, host)
		if target == nil {
			target = entry
		}
		return classified{kind: refSiblingURL, target: target}
	}

	// Module dependencies on sibling files are satisfied by the document's
	// script tags and import map, not by textual rewriting.
	return classified{kind: refSkip}
}

// CollectInlineBundles resolves the host bundle's inline dependencies into
// a textual replacement map and a token-keyed set of inline bundles for
// document packagers. A nil resolver collects nothing; inline kinds other
// than the empty kind and "string" are left for the caller and produce no
// entry.
func CollectInlineBundles(g graph.BundleGraph, host *graph.Bundle, resolver InlineResolver) (*ReplacementMap, map[string]InlineBundle, error) {
	rm := NewReplacementMap()
	inline := make(map[string]InlineBundle)
	if resolver == nil {
		return rm, inline, nil
	}

	for _, dep := range g.ExternalDependencies(host) {
		c := classify(g, host, dep)
		if c.kind != refInline {
			continue
		}

		ib, ok, err := resolveInline(host, c.target, dep, resolver)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			continue
		}

		rm.Add(dep.ID, Replacement{From: dep.Placeholder(), To: ib.Contents})
		inline[dep.Placeholder()] = ib
	}

	return rm, inline, nil
}

// resolveInline packages one inline bundle and escapes it for the host
// document. ok is false for inline kinds this path does not splice.
func resolveInline(host, entry *graph.Bundle, dep *graph.Dependency, resolver InlineResolver) (InlineBundle, bool, error) {
	switch dep.InlineType() {
	case "", "string":
	default:
		return InlineBundle{}, false, nil
	}

	contents, _, err := resolver(entry)
	if err != nil {
		return InlineBundle{}, false, fmt.Errorf("packaging inline bundle %s: %w", entry.Name, err)
	}

	return InlineBundle{
		Contents: escapeInline(host.Type, entry.Type, contents),
		Module:   entry.Env != nil && entry.Env.OutputFormat == graph.FormatESModule,
	}, true, nil
}
