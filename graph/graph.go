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

// Package graph defines the bundle graph model consumed by the linking
// engine: bundles, bundle groups, dependencies, and the read-only query
// facade over their relationships. The linking engine never mutates the
// graph; bundles and dependencies are owned by whoever built the graph
// and are read for the duration of one linking pass only.
package graph

// BundleType identifies the content type of a packaged bundle.
type BundleType string

const (
	TypeHTML BundleType = "html"
	TypeSVG  BundleType = "svg"
	TypeJS   BundleType = "js"
	TypeCSS  BundleType = "css"
)

// IsDocument returns true for host-document bundle types (HTML and SVG).
func (t BundleType) IsDocument() bool {
	return t == TypeHTML || t == TypeSVG
}

// SpecifierType describes how a dependency specifier should be interpreted.
type SpecifierType string

const (
	SpecifierESM SpecifierType = "esm"
	SpecifierURL SpecifierType = "url"
)

// Priority describes when a dependency's bundle is expected to load.
type Priority string

const (
	PrioritySync     Priority = "sync"
	PriorityParallel Priority = "parallel"
	PriorityLazy     Priority = "lazy"
)

// OutputFormat is the module format a bundle was packaged into.
type OutputFormat string

const (
	FormatGlobal   OutputFormat = "global"
	FormatCommonJS OutputFormat = "commonjs"
	FormatESModule OutputFormat = "esmodule"
)

// SourceType is the module system the bundle's sources were written in.
type SourceType string

const (
	SourceModule SourceType = "module"
	SourceScript SourceType = "script"
)

// Feature is a capability of the environment a bundle targets.
type Feature string

const (
	// FeatureESModules means the runtime can load <script type=module>.
	FeatureESModules Feature = "esmodules"
	// FeatureDynamicImport means the runtime supports import().
	FeatureDynamicImport Feature = "dynamic-import"
	// FeatureImportMaps means the runtime resolves module specifiers
	// through <script type=importmap>.
	FeatureImportMaps Feature = "import-maps"
)

// Environment describes the runtime a bundle targets. It determines module
// format fallbacks (nomodule scripts) and whether import maps are emitted.
type Environment struct {
	// Context is the execution context, e.g. "browser" or "node".
	Context string

	// SourceType is the module system of the bundle's sources.
	SourceType SourceType

	// OutputFormat is the format the bundle was packaged into.
	OutputFormat OutputFormat

	// ShouldScopeHoist records whether the packager hoisted module scopes
	// into a single classic-script scope.
	ShouldScopeHoist bool

	// Features is the set of runtime capabilities the environment declares.
	Features map[Feature]bool
}

// Supports reports whether the environment declares the given capability.
func (e *Environment) Supports(f Feature) bool {
	if e == nil {
		return false
	}
	return e.Features[f]
}

// Target describes where a bundle's output is published.
type Target struct {
	// PublicURL is the URL root under which output files are served.
	PublicURL string

	// DistDir is the output directory on disk.
	DistDir string
}

// Bundle identifies one packaged output unit. Bundles are immutable once
// packaged and are owned by the bundle graph.
type Bundle struct {
	// ID uniquely identifies the bundle within the graph.
	ID string

	// Name is the output path of the bundle relative to the dist dir.
	Name string

	// Type is the bundle's content type.
	Type BundleType

	// IsInline marks bundles spliced into a host document rather than
	// emitted as separate files.
	IsInline bool

	// Env is the environment the bundle targets.
	Env *Environment

	// Target describes where the bundle is published.
	Target *Target

	// ImportMap holds the bundle's module-specifier map entries, expressed
	// relative to the producing bundle. The reference collector rebases
	// them onto the consuming document's public URL root.
	ImportMap map[string]string
}

// BundleGroup is the ordered set of bundles produced from one entry point.
type BundleGroup struct {
	bundles []*Bundle
}

// Entry returns the group's entry bundle, or nil for an inconsistent group
// with no bundles. Callers treat a nil entry as "nothing to reference".
func (g *BundleGroup) Entry() *Bundle {
	if g == nil || len(g.bundles) == 0 {
		return nil
	}
	return g.bundles[0]
}

// Bundles returns the group's bundles in order, first being the entry.
func (g *BundleGroup) Bundles() []*Bundle {
	if g == nil {
		return nil
	}
	return g.bundles
}

// Dependency is an edge from a bundle's source code to a module or
// resource. Its ID doubles as the placeholder token embedded in packaged
// content unless Meta carries an explicit "placeholder" override.
type Dependency struct {
	// ID is the dependency's stable identifier.
	ID string

	// Specifier is the original string written by the author.
	Specifier string

	// SpecifierType says how Specifier should be interpreted.
	SpecifierType SpecifierType

	// Priority describes when the dependency's bundle loads.
	Priority Priority

	// Meta carries free-form metadata. Recognized keys: "placeholder"
	// (token override) and "inlineType" (inline splice kind).
	Meta map[string]string
}

// IsURL reports whether the dependency is a URL-type reference.
func (d *Dependency) IsURL() bool {
	return d.SpecifierType == SpecifierURL
}

// Placeholder returns the token standing in for this dependency inside
// packaged content: the Meta override when present, the ID otherwise.
func (d *Dependency) Placeholder() string {
	if p, ok := d.Meta["placeholder"]; ok {
		return p
	}
	return d.ID
}

// InlineType returns the dependency's inline splice kind. Only the empty
// kind and "string" are spliced textually; other kinds are handled by the
// document packager through a different path.
func (d *Dependency) InlineType() string {
	return d.Meta["inlineType"]
}

// BundleGraph is the read-only query facade over bundle relationships.
// Implementations must traverse deterministically; reference ordering in
// linked output follows traversal order.
type BundleGraph interface {
	// ExternalDependencies returns the dependencies of the bundle's
	// sources that point outside the bundle.
	ExternalDependencies(b *Bundle) []*Dependency

	// ResolveExternalDependency resolves a dependency to the bundle group
	// it points to, or nil when the dependency is genuinely external.
	ResolveExternalDependency(d *Dependency) *BundleGroup

	// ReferencedBundles returns the bundles reachable from b: every
	// transitively reachable bundle when recursive is true, bundles
	// exactly one hop away otherwise.
	ReferencedBundles(b *Bundle, recursive bool) []*Bundle

	// ReferencedBundle returns the non-inline sibling bundle a dependency
	// of from resolves to, or nil.
	ReferencedBundle(d *Dependency, from *Bundle) *Bundle
}
