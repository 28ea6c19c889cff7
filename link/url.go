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
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"bennypowers.dev/legare/graph"
)

// CollectURLReplacements builds the replacement map for a bundle's
// URL-type dependencies: sibling output files become relative or absolute
// URLs, and dependencies the graph could not resolve pass through as their
// original specifier unchanged. Inline dependencies produce no entry here;
// see CollectInlineBundles.
func CollectURLReplacements(g graph.BundleGraph, host *graph.Bundle, relative bool) *ReplacementMap {
	rm := NewReplacementMap()
	for _, dep := range g.ExternalDependencies(host) {
		switch c := classify(g, host, dep); c.kind {
		case refSiblingURL:
			rm.Add(dep.ID, Replacement{
				From: dep.Placeholder(),
				To:   urlReplacement(dep, host, c.target, relative),
			})
		case refExternalPassthrough:
			rm.Add(dep.ID, Replacement{
				From: dep.Placeholder(),
				To:   dep.Specifier,
			})
		}
	}
	return rm
}

// urlReplacement computes the final URL for a sibling bundle reference.
// Only the path component of the original specifier is substituted, so its
// query string and fragment survive.
func urlReplacement(dep *graph.Dependency, from, to *graph.Bundle, relative bool) string {
	var result string
	if relative && from != nil {
		result = relativeBundlePath(from, to)
	} else {
		result = JoinURL(publicURL(to), to.Name)
	}

	if u, err := url.Parse(dep.Specifier); err == nil {
		if u.RawQuery != "" {
			result += "?" + u.RawQuery
		}
		if u.Fragment != "" {
			result += "#" + u.Fragment
		}
	}

	return result
}

// relativeBundlePath returns the path from one output file to another,
// without a leading "./".
func relativeBundlePath(from, to *graph.Bundle) string {
	rel, err := filepath.Rel(path.Dir(from.Name), to.Name)
	if err != nil {
		return to.Name
	}
	return filepath.ToSlash(rel)
}

// JoinURL joins a bundle name onto a public URL root.
func JoinURL(root, name string) string {
	if root == "" {
		root = "/"
	}
	return strings.TrimSuffix(root, "/") + "/" + strings.TrimPrefix(path.Clean("/"+name), "/")
}

// publicURL returns the public URL root a bundle is served under.
func publicURL(b *graph.Bundle) string {
	if b.Target == nil {
		return "/"
	}
	return b.Target.PublicURL
}
