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
	"regexp"
	"strings"

	"bennypowers.dev/legare/graph"
)

// Static escape tables. The regexps capture the tag name so the original
// case survives the inserted backslash: "</SCRIPT" becomes "</\SCRIPT".
var (
	scriptEndPattern = regexp.MustCompile(`(?i)</(script)`)
	styleEndPattern  = regexp.MustCompile(`(?i)</(style)`)
)

// escapeInline transforms fully packaged inline content so it can be
// spliced into a host document without prematurely closing its containing
// tag or breaking XML well-formedness. Applied after the inner content is
// packaged, never before, so nested escaping cannot double-apply.
func escapeInline(host, inner graph.BundleType, contents string) string {
	switch host {
	case graph.TypeHTML:
		return escapeHTMLInline(inner, contents)
	case graph.TypeSVG:
		return escapeXMLInline(contents)
	default:
		return contents
	}
}

// escapeHTMLInline escapes content for splicing into an HTML script or
// style element.
func escapeHTMLInline(inner graph.BundleType, contents string) string {
	switch inner {
	case graph.TypeJS:
		// Legacy comment openers start an escaped-script-data state in
		// the HTML parser; break them up along with closing script tags.
		contents = strings.ReplaceAll(contents, "<!--", `<\!--`)
		return scriptEndPattern.ReplaceAllString(contents, `</\${1}`)
	case graph.TypeCSS:
		return styleEndPattern.ReplaceAllString(contents, `</\${1}`)
	default:
		return contents
	}
}

// escapeXMLInline wraps content containing markup-significant characters
// in a CDATA section, neutralizing any literal "]]>" inside it first.
func escapeXMLInline(contents string) string {
	if !strings.ContainsAny(contents, "<&") {
		return contents
	}
	contents = strings.ReplaceAll(contents, "]]>", `]\]>`)
	return "<![CDATA[\n" + contents + "\n]]>"
}
