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
package graph

import (
	"encoding/json"
	"fmt"
)

// Manifest is the on-disk description of a bundle graph, produced by the
// packaging stage and consumed by the legare CLI. It carries the graph
// structure plus enough bookkeeping to locate each bundle's packaged
// content.
type Manifest struct {
	graph     *Memory
	documents []*Bundle
	contents  map[string]string
}

type manifestTarget struct {
	PublicURL string `json:"publicUrl"`
	DistDir   string `json:"distDir"`
}

type manifestEnvironment struct {
	Context          string   `json:"context"`
	SourceType       string   `json:"sourceType"`
	OutputFormat     string   `json:"outputFormat"`
	ShouldScopeHoist bool     `json:"shouldScopeHoist"`
	Features         []string `json:"features"`
}

type manifestBundle struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Type      string            `json:"type"`
	IsInline  bool              `json:"isInline"`
	Target    string            `json:"target"`
	Env       string            `json:"env"`
	ImportMap map[string]string `json:"importMap,omitempty"`
	Assets    []string          `json:"assets,omitempty"`
	Contents  string            `json:"contents,omitempty"`
}

type manifestGroup struct {
	ID      string   `json:"id"`
	Bundles []string `json:"bundles"`
}

type manifestDependency struct {
	ID            string            `json:"id"`
	From          string            `json:"from"`
	Specifier     string            `json:"specifier"`
	SpecifierType string            `json:"specifierType"`
	Priority      string            `json:"priority,omitempty"`
	Meta          map[string]string `json:"meta,omitempty"`
	Group         string            `json:"group,omitempty"`
}

type manifestFile struct {
	Targets      map[string]manifestTarget      `json:"targets"`
	Environments map[string]manifestEnvironment `json:"environments"`
	Bundles      []manifestBundle               `json:"bundles"`
	Groups       []manifestGroup                `json:"groups"`
	Dependencies []manifestDependency           `json:"dependencies"`
}

// ParseManifest parses a JSON bundle manifest into a queryable graph.
// A document bundle listing more than one top-level asset violates the
// packaging invariant and fails the load.
func ParseManifest(data []byte) (*Manifest, error) {
	var mf manifestFile
	if err := json.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	targets := make(map[string]*Target, len(mf.Targets))
	for name, t := range mf.Targets {
		targets[name] = &Target{PublicURL: t.PublicURL, DistDir: t.DistDir}
	}

	envs := make(map[string]*Environment, len(mf.Environments))
	for name, e := range mf.Environments {
		env := &Environment{
			Context:          e.Context,
			SourceType:       SourceType(e.SourceType),
			OutputFormat:     OutputFormat(e.OutputFormat),
			ShouldScopeHoist: e.ShouldScopeHoist,
			Features:         make(map[Feature]bool, len(e.Features)),
		}
		for _, f := range e.Features {
			env.Features[Feature(f)] = true
		}
		envs[name] = env
	}

	m := &Manifest{
		graph:    NewMemory(),
		contents: make(map[string]string),
	}

	for _, mb := range mf.Bundles {
		if BundleType(mb.Type).IsDocument() && len(mb.Assets) > 1 {
			return nil, fmt.Errorf("bundle %s: document bundles must contain exactly one top-level asset, got %d", mb.ID, len(mb.Assets))
		}
		b := &Bundle{
			ID:        mb.ID,
			Name:      mb.Name,
			Type:      BundleType(mb.Type),
			IsInline:  mb.IsInline,
			Env:       envs[mb.Env],
			Target:    targets[mb.Target],
			ImportMap: mb.ImportMap,
		}
		m.graph.AddBundle(b)
		if mb.Contents != "" {
			m.contents[b.ID] = mb.Contents
		}
		if b.Type.IsDocument() && !b.IsInline {
			m.documents = append(m.documents, b)
		}
	}

	groups := make(map[string]*BundleGroup, len(mf.Groups))
	for _, mg := range mf.Groups {
		bundles := make([]*Bundle, 0, len(mg.Bundles))
		for _, id := range mg.Bundles {
			b := m.graph.Bundle(id)
			if b == nil {
				return nil, fmt.Errorf("group %s: unknown bundle %s", mg.ID, id)
			}
			bundles = append(bundles, b)
		}
		groups[mg.ID] = m.graph.AddGroup(bundles...)
	}

	for _, md := range mf.Dependencies {
		from := m.graph.Bundle(md.From)
		if from == nil {
			return nil, fmt.Errorf("dependency %s: unknown bundle %s", md.ID, md.From)
		}
		d := &Dependency{
			ID:            md.ID,
			Specifier:     md.Specifier,
			SpecifierType: SpecifierType(md.SpecifierType),
			Priority:      Priority(md.Priority),
			Meta:          md.Meta,
		}
		m.graph.AddDependency(from, d)
		if md.Group != "" {
			group, ok := groups[md.Group]
			if !ok {
				return nil, fmt.Errorf("dependency %s: unknown group %s", md.ID, md.Group)
			}
			m.graph.Resolve(d, group)
		}
	}

	return m, nil
}

// Graph returns the manifest's bundle graph.
func (m *Manifest) Graph() *Memory {
	return m.graph
}

// Documents returns the non-inline document bundles, in manifest order.
// These are the bundles the CLI links.
func (m *Manifest) Documents() []*Bundle {
	return m.documents
}

// Contents returns the packaged content embedded in the manifest for the
// given bundle, if any. Bundles without embedded content are read from
// their output file under the target dist dir.
func (m *Manifest) Contents(b *Bundle) (string, bool) {
	c, ok := m.contents[b.ID]
	return c, ok
}
