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
// Package importmap provides types and operations for ES module import maps.
// See https://developer.mozilla.org/en-US/docs/Web/HTML/Element/script/type/importmap
package importmap

import (
	"encoding/json"
	"maps"
)

// ImportMap represents an ES module import map. The reference collector
// accumulates one per linked document from the import maps of the script
// bundles the document reaches; scopes and integrity entries come from
// author-written maps already present in the document and survive merging.
type ImportMap struct {
	// Imports maps module specifiers to URLs.
	Imports map[string]string `json:"imports,omitempty"`

	// Scopes maps URL prefixes to import maps that apply when the referrer
	// URL starts with the scope prefix.
	Scopes map[string]map[string]string `json:"scopes,omitempty"`

	// Integrity maps module URLs to their expected subresource integrity values.
	Integrity map[string]string `json:"integrity,omitempty"`
}

// New creates an empty import map.
func New() *ImportMap {
	return &ImportMap{Imports: make(map[string]string)}
}

// Parse parses JSON data into an ImportMap.
func Parse(data []byte) (*ImportMap, error) {
	var im ImportMap
	if err := json.Unmarshal(data, &im); err != nil {
		return nil, err
	}
	return &im, nil
}

// Empty reports whether the import map has no entries.
func (im *ImportMap) Empty() bool {
	return im == nil || (len(im.Imports) == 0 && len(im.Scopes) == 0 && len(im.Integrity) == 0)
}

// Set records a specifier→URL mapping, overwriting any previous value.
func (im *ImportMap) Set(specifier, url string) {
	if im.Imports == nil {
		im.Imports = make(map[string]string)
	}
	im.Imports[specifier] = url
}

// Merge combines this import map with another, with the other taking
// precedence. The result is a new ImportMap; neither input is modified.
func (im *ImportMap) Merge(other *ImportMap) *ImportMap {
	if im == nil {
		if other == nil {
			return &ImportMap{}
		}
		return other.Clone()
	}
	if other == nil {
		return im.Clone()
	}

	result := &ImportMap{
		Imports:   make(map[string]string),
		Scopes:    make(map[string]map[string]string),
		Integrity: make(map[string]string),
	}

	maps.Copy(result.Imports, im.Imports)
	maps.Copy(result.Imports, other.Imports)

	for scope, imports := range im.Scopes {
		result.Scopes[scope] = make(map[string]string, len(imports))
		maps.Copy(result.Scopes[scope], imports)
	}
	for scope, imports := range other.Scopes {
		if result.Scopes[scope] == nil {
			result.Scopes[scope] = make(map[string]string, len(imports))
		}
		maps.Copy(result.Scopes[scope], imports)
	}

	maps.Copy(result.Integrity, im.Integrity)
	maps.Copy(result.Integrity, other.Integrity)

	if len(result.Imports) == 0 {
		result.Imports = nil
	}
	if len(result.Scopes) == 0 {
		result.Scopes = nil
	}
	if len(result.Integrity) == 0 {
		result.Integrity = nil
	}

	return result
}

// Clone creates a deep copy of the import map.
func (im *ImportMap) Clone() *ImportMap {
	if im == nil {
		return nil
	}

	result := &ImportMap{}

	if im.Imports != nil {
		result.Imports = make(map[string]string, len(im.Imports))
		maps.Copy(result.Imports, im.Imports)
	}

	if im.Scopes != nil {
		result.Scopes = make(map[string]map[string]string, len(im.Scopes))
		for scope, imports := range im.Scopes {
			result.Scopes[scope] = make(map[string]string, len(imports))
			maps.Copy(result.Scopes[scope], imports)
		}
	}

	if im.Integrity != nil {
		result.Integrity = make(map[string]string, len(im.Integrity))
		maps.Copy(result.Integrity, im.Integrity)
	}

	return result
}

// ToJSON converts the import map to an indented JSON string.
// Returns an empty string if the import map is nil or entirely empty.
func (im *ImportMap) ToJSON() string {
	if im.Empty() {
		return ""
	}

	bytes, err := json.MarshalIndent(im, "", "  ")
	if err != nil {
		return ""
	}

	return string(bytes)
}

// MarshalJSON implements json.Marshaler.
func (im *ImportMap) MarshalJSON() ([]byte, error) {
	type alias ImportMap
	return json.Marshal((*alias)(im))
}
