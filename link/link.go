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

// Package link rewrites placeholder tokens in packaged bundle output into
// their final runtime form: an inlined payload, a relative or absolute URL
// to a sibling output file, an unresolved external passthrough, or an
// entry in a module-resolution map.
//
// One linking pass operates on one bundle's buffer and holds no state
// shared with concurrent passes; callers may link sibling bundles
// concurrently. A pass runs to completion or fails without returning a
// partial buffer.
package link

import "bennypowers.dev/legare/graph"

// Options configures one linking pass.
type Options struct {
	// ReplaceInline obtains packaged content for inline bundles. When
	// nil, inline dependencies are left untouched for the caller.
	ReplaceInline InlineResolver

	// ReplaceURLs enables rewriting URL dependencies to sibling files
	// and passing unresolved references through unchanged.
	ReplaceURLs bool

	// Relative links sibling files by relative path instead of joining
	// them onto the target's public URL root.
	Relative bool
}

// DefaultOptions returns the options most packagers want: URL replacement
// on, relative sibling paths.
func DefaultOptions() Options {
	return Options{ReplaceURLs: true, Relative: true}
}

// Result is the outcome of a linking pass.
type Result struct {
	// Contents is the fully rewritten buffer.
	Contents string

	// Map is the source map handed in with the buffer, passed through
	// unchanged. Substitution does not adjust positions, so line and
	// column fidelity after linking is a known limitation.
	Map []byte
}

// ReplaceReferences performs one complete linking pass over a packaged
// buffer: every dependency of the bundle is classified and its
// placeholder token rewritten in a single insertion-ordered substitution
// pass. Used directly by script, stylesheet, and generic packagers;
// document packagers use CollectReferences and CollectInlineBundles
// instead and splice structurally.
func ReplaceReferences(g graph.BundleGraph, bundle *graph.Bundle, contents string, sourceMap []byte, opts Options) (Result, error) {
	rm := NewReplacementMap()

	for _, dep := range g.ExternalDependencies(bundle) {
		switch c := classify(g, bundle, dep); c.kind {
		case refInline:
			if opts.ReplaceInline == nil {
				continue
			}
			ib, ok, err := resolveInline(bundle, c.target, dep, opts.ReplaceInline)
			if err != nil {
				return Result{}, err
			}
			if !ok {
				continue
			}
			rm.Add(dep.ID, Replacement{From: dep.Placeholder(), To: ib.Contents})

		case refSiblingURL:
			if !opts.ReplaceURLs {
				continue
			}
			rm.Add(dep.ID, Replacement{
				From: dep.Placeholder(),
				To:   urlReplacement(dep, bundle, c.target, opts.Relative),
			})

		case refExternalPassthrough:
			if !opts.ReplaceURLs {
				continue
			}
			rm.Add(dep.ID, Replacement{From: dep.Placeholder(), To: dep.Specifier})

		case refSkip:
			// No replacement: the token was never emitted for this
			// dependency, or a sibling tag satisfies it.
		}
	}

	return Result{Contents: rm.Apply(contents), Map: sourceMap}, nil
}
