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
package collect_test

import (
	"reflect"
	"testing"

	"bennypowers.dev/legare/collect"
)

func TestParseSrcset(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []collect.ImageSource
	}{
		{
			name:  "single url",
			input: "logo.png",
			expected: []collect.ImageSource{
				{URL: "logo.png"},
			},
		},
		{
			name:  "width descriptors",
			input: "small.png 480w, large.png 1080w",
			expected: []collect.ImageSource{
				{URL: "small.png", Descriptor: "480w"},
				{URL: "large.png", Descriptor: "1080w"},
			},
		},
		{
			name:  "density descriptor",
			input: "logo.png 2x",
			expected: []collect.ImageSource{
				{URL: "logo.png", Descriptor: "2x"},
			},
		},
		{
			name:  "trailing comma on url ends the candidate",
			input: "a.png, b.png 2x",
			expected: []collect.ImageSource{
				{URL: "a.png"},
				{URL: "b.png", Descriptor: "2x"},
			},
		},
		{
			name:  "extra whitespace",
			input: "  a.png   1x ,\n\tb.png 2x  ",
			expected: []collect.ImageSource{
				{URL: "a.png", Descriptor: "1x"},
				{URL: "b.png", Descriptor: "2x"},
			},
		},
		{
			name:  "parenthesized descriptor keeps its comma",
			input: "a.png calc(1px, 2px)",
			expected: []collect.ImageSource{
				{URL: "a.png", Descriptor: "calc(1px, 2px)"},
			},
		},
		{
			name:     "empty input",
			input:    "",
			expected: nil,
		},
		{
			name:     "only separators",
			input:    " , , ",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect.ParseSrcset(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ParseSrcset(%q) = %+v, expected %+v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSerializeSrcset(t *testing.T) {
	sources := []collect.ImageSource{
		{URL: "a.png", Descriptor: "480w"},
		{URL: "b.png"},
		{URL: "c.png", Descriptor: "2x"},
	}
	expected := "a.png 480w, b.png, c.png 2x"
	if got := collect.SerializeSrcset(sources); got != expected {
		t.Errorf("SerializeSrcset = %q, expected %q", got, expected)
	}
}

func TestSrcsetRoundTrip(t *testing.T) {
	input := "small.png 480w, large.png 1080w"
	if got := collect.SerializeSrcset(collect.ParseSrcset(input)); got != input {
		t.Errorf("round trip = %q, expected %q", got, input)
	}
}
