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
package collect

import "strings"

// ImageSource is one candidate in a srcset attribute.
type ImageSource struct {
	// URL is the candidate's image URL.
	URL string

	// Descriptor is the candidate's width or density descriptor, without
	// surrounding whitespace. Empty when the candidate has none.
	Descriptor string
}

// ParseSrcset splits a srcset attribute value into image candidates,
// following the WHATWG parsing algorithm: candidates are separated by
// commas, a URL runs to the first whitespace, and a URL's own trailing
// commas terminate the candidate without a descriptor. Descriptors may
// contain parenthesized groups, inside which commas do not split.
func ParseSrcset(input string) []ImageSource {
	var sources []ImageSource

	i, n := 0, len(input)
	for i < n {
		for i < n && (isSrcsetSpace(input[i]) || input[i] == ',') {
			i++
		}
		if i >= n {
			break
		}

		start := i
		for i < n && !isSrcsetSpace(input[i]) {
			i++
		}
		url := input[start:i]

		if trimmed := strings.TrimRight(url, ","); trimmed != url {
			if trimmed != "" {
				sources = append(sources, ImageSource{URL: trimmed})
			}
			continue
		}

		for i < n && isSrcsetSpace(input[i]) {
			i++
		}

		descStart := i
		inParens := false
		for i < n {
			switch input[i] {
			case '(':
				inParens = true
			case ')':
				inParens = false
			case ',':
				if !inParens {
					goto done
				}
			}
			i++
		}
	done:
		sources = append(sources, ImageSource{
			URL:        url,
			Descriptor: strings.TrimSpace(input[descStart:i]),
		})
	}

	return sources
}

// SerializeSrcset renders image candidates back into a srcset attribute
// value.
func SerializeSrcset(sources []ImageSource) string {
	parts := make([]string, 0, len(sources))
	for _, source := range sources {
		if source.Descriptor != "" {
			parts = append(parts, source.URL+" "+source.Descriptor)
		} else {
			parts = append(parts, source.URL)
		}
	}
	return strings.Join(parts, ", ")
}

func isSrcsetSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}
