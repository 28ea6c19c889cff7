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

// Package pack drives linking over the bundles of a manifest: it reads
// each bundle's packaged buffer, runs the linking pass, and recurses into
// inline bundles, which may themselves require a full packaging pass of
// their own. Recursion terminates because bundle groups form an acyclic
// graph.
package pack

import (
	"fmt"
	"path/filepath"
	"runtime"
	"sync"

	"bennypowers.dev/legare/fs"
	"bennypowers.dev/legare/graph"
	"bennypowers.dev/legare/inject"
	"bennypowers.dev/legare/link"
)

// Options configures a linking run.
type Options struct {
	// Relative links sibling bundles by relative path.
	Relative bool

	// Parallel is the number of parallel workers for batch mode.
	Parallel int

	// DryRun prevents writing files when true.
	DryRun bool
}

// Result holds the result of linking a single document bundle.
type Result struct {
	Bundle   string `json:"bundle"`
	File     string `json:"file"`
	Modified bool   `json:"modified"`
	Error    string `json:"error,omitempty"`
}

// Stats holds aggregate statistics from a linking run.
type Stats struct {
	Total  int `json:"total"`
	Linked int `json:"linked"`
	Errors int `json:"errors"`
}

// Packager links bundles from a manifest. It holds no mutable state, so
// one Packager may link sibling bundles concurrently.
type Packager struct {
	fs       fs.FileSystem
	manifest *graph.Manifest
	relative bool
}

// NewPackager creates a Packager over a manifest's bundle graph.
func NewPackager(osfs fs.FileSystem, manifest *graph.Manifest, relative bool) *Packager {
	return &Packager{fs: osfs, manifest: manifest, relative: relative}
}

// Package fully links one bundle and returns its final contents along
// with its unadjusted source map. Inline dependencies recurse back
// through Package, so it satisfies link.InlineResolver.
func (p *Packager) Package(b *graph.Bundle) (string, []byte, error) {
	contents, err := p.contents(b)
	if err != nil {
		return "", nil, err
	}

	if b.Type == graph.TypeHTML && !b.IsInline {
		out, err := p.packageDocument(b, contents)
		return out, nil, err
	}

	opts := link.Options{
		ReplaceInline: p.Package,
		ReplaceURLs:   true,
		Relative:      p.relative,
	}
	result, err := link.ReplaceReferences(p.manifest.Graph(), b, contents, nil, opts)
	if err != nil {
		return "", nil, err
	}
	return result.Contents, result.Map, nil
}

// packageDocument links an HTML document: URL placeholders are rewritten
// textually, then inline bundles, sibling references, and the import map
// are spliced structurally.
func (p *Packager) packageDocument(b *graph.Bundle, contents string) (string, error) {
	g := p.manifest.Graph()

	// Inline keys live in attributes, so inline splicing is structural;
	// the textual pass rewrites URLs only.
	opts := link.Options{ReplaceURLs: true, Relative: p.relative}
	result, err := link.ReplaceReferences(g, b, contents, nil, opts)
	if err != nil {
		return "", err
	}

	_, inline, err := link.CollectInlineBundles(g, b, p.Package)
	if err != nil {
		return "", err
	}

	refs, im := link.CollectReferences(g, b)

	out, err := inject.InsertBundleReferences([]byte(result.Contents), refs, inline, im)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// contents returns a bundle's packaged buffer: embedded manifest content
// when present, the output file under the target dist dir otherwise.
func (p *Packager) contents(b *graph.Bundle) (string, error) {
	if c, ok := p.manifest.Contents(b); ok {
		return c, nil
	}

	data, err := p.fs.ReadFile(p.OutputPath(b))
	if err != nil {
		return "", fmt.Errorf("reading bundle %s: %w", b.ID, err)
	}
	return string(data), nil
}

// OutputPath returns the on-disk path of a bundle's output file.
func (p *Packager) OutputPath(b *graph.Bundle) string {
	distDir := ""
	if b.Target != nil {
		distDir = b.Target.DistDir
	}
	return filepath.Join(distDir, filepath.FromSlash(b.Name))
}

// LinkBatch links the given document bundles of a manifest in parallel.
// A failing document reports its error and leaves sibling documents
// unaffected.
func LinkBatch(osfs fs.FileSystem, manifest *graph.Manifest, documents []*graph.Bundle, opts Options) <-chan Result {
	results := make(chan Result, len(documents))

	go func() {
		defer close(results)

		parallel := opts.Parallel
		if parallel <= 0 {
			parallel = runtime.NumCPU()
		}

		packager := NewPackager(osfs, manifest, opts.Relative)

		jobs := make(chan *graph.Bundle, len(documents))

		var wg sync.WaitGroup
		for range parallel {
			wg.Go(func() {
				for b := range jobs {
					results <- linkDocument(osfs, packager, b, opts.DryRun)
				}
			})
		}

		for _, b := range documents {
			jobs <- b
		}
		close(jobs)

		wg.Wait()
	}()

	return results
}

// linkDocument links one document bundle and writes its output file.
func linkDocument(osfs fs.FileSystem, packager *Packager, b *graph.Bundle, dryRun bool) Result {
	result := Result{Bundle: b.ID, File: packager.OutputPath(b)}

	original, err := packager.contents(b)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	linked, _, err := packager.Package(b)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	if linked == original {
		return result
	}
	result.Modified = true

	if !dryRun {
		if err := osfs.WriteFile(result.File, []byte(linked), 0644); err != nil {
			result.Error = err.Error()
			return result
		}
	}

	return result
}
