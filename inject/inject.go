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

// Package inject performs the structural half of linking a document: it
// splices inline bundle content into the elements that carry its key,
// emits script and link tags for sibling bundles, and writes the
// document's import map. Textual placeholder rewriting happens before
// injection, in the link package.
package inject

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"bennypowers.dev/legare/importmap"
	"bennypowers.dev/legare/link"
)

// KeyAttr is the attribute the collect stage leaves on elements whose
// content is produced by an inline bundle. Its value is the bundle's
// placeholder token; injection consumes and removes it.
const KeyAttr = "data-legare-key"

// InsertBundleReferences rewrites a linked HTML document: inline bundles
// are spliced into their keyed elements and attributes, sibling bundle
// references are prepended to <head> in reference order, and a non-empty
// import map is merged into the document's importmap script (creating one
// when absent, moving it before all other scripts otherwise).
func InsertBundleReferences(contents []byte, refs []link.BundleReference, inline map[string]link.InlineBundle, im *importmap.ImportMap) ([]byte, error) {
	doc, err := html.Parse(bytes.NewReader(contents))
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	var importMapNode *html.Node

	walk(doc, func(node *html.Node) {
		if node.Type != html.ElementNode {
			return
		}

		switch node.Data {
		case "script":
			if key, ok := getAttr(node, KeyAttr); ok {
				if bundle, ok := inline[key]; ok {
					removeAttr(node, KeyAttr)
					setTextContent(node, bundle.Contents)
					if bundle.Module {
						setAttr(node, "type", "module")
					}
				}
			} else if t, ok := getAttr(node, "type"); ok && t == "importmap" {
				importMapNode = node
			}
		case "style":
			if key, ok := getAttr(node, KeyAttr); ok {
				if bundle, ok := inline[key]; ok {
					removeAttr(node, KeyAttr)
					setTextContent(node, bundle.Contents)
				}
			}
		}

		for i, attr := range node.Attr {
			if bundle, ok := inline[attr.Val]; ok {
				node.Attr[i].Val = bundle.Contents
			}
		}
	})

	if head := find(doc, "head"); head != nil {
		for i := len(refs) - 1; i >= 0; i-- {
			prepend(head, referenceNode(refs[i]))
		}

		if !im.Empty() {
			insertImportMap(head, importMapNode, im)
		}
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, fmt.Errorf("serializing document: %w", err)
	}
	return buf.Bytes(), nil
}

// referenceNode builds the element a bundle reference loads through.
func referenceNode(ref link.BundleReference) *html.Node {
	switch ref.Type {
	case link.RefStyleSheet:
		node := element("link")
		setAttr(node, "rel", "stylesheet")
		setAttr(node, "href", ref.URL)
		return node
	default:
		node := element("script")
		if ref.Module {
			setAttr(node, "type", "module")
		}
		if ref.NoModule {
			setAttr(node, "nomodule", "")
			setAttr(node, "defer", "")
		}
		setAttr(node, "src", ref.URL)
		return node
	}
}

// insertImportMap merges the collected import map into an existing
// importmap script, or creates one. Either way the script ends up first
// in head so it precedes every module script.
func insertImportMap(head, existing *html.Node, im *importmap.ImportMap) {
	if existing != nil {
		if merged, err := importmap.Parse([]byte(textContent(existing))); err == nil {
			setTextContent(existing, merged.Merge(im).ToJSON())
		}
		if existing.Parent != nil {
			existing.Parent.RemoveChild(existing)
		}
		prepend(head, existing)
		return
	}

	node := element("script")
	setAttr(node, "type", "importmap")
	setTextContent(node, im.ToJSON())
	prepend(head, node)
}

// walk visits every node under root in document order.
func walk(root *html.Node, visit func(*html.Node)) {
	visit(root)
	for child := root.FirstChild; child != nil; child = child.NextSibling {
		walk(child, visit)
	}
}

// find returns the first element with the given tag name, or nil.
func find(root *html.Node, name string) *html.Node {
	var found *html.Node
	walk(root, func(node *html.Node) {
		if found == nil && node.Type == html.ElementNode && node.Data == name {
			found = node
		}
	})
	return found
}

func element(name string) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: name}
}

func prepend(parent, node *html.Node) {
	if parent.FirstChild != nil {
		parent.InsertBefore(node, parent.FirstChild)
		return
	}
	parent.AppendChild(node)
}

func getAttr(node *html.Node, name string) (string, bool) {
	for _, attr := range node.Attr {
		if attr.Key == name {
			return attr.Val, true
		}
	}
	return "", false
}

func setAttr(node *html.Node, name, value string) {
	for i, attr := range node.Attr {
		if attr.Key == name {
			node.Attr[i].Val = value
			return
		}
	}
	node.Attr = append(node.Attr, html.Attribute{Key: name, Val: value})
}

func removeAttr(node *html.Node, name string) {
	for i, attr := range node.Attr {
		if attr.Key == name {
			node.Attr = append(node.Attr[:i], node.Attr[i+1:]...)
			return
		}
	}
}

// setTextContent replaces the node's children with a single text node.
func setTextContent(node *html.Node, text string) {
	for node.FirstChild != nil {
		node.RemoveChild(node.FirstChild)
	}
	node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// textContent concatenates the text of the node's direct children.
func textContent(node *html.Node) string {
	var sb strings.Builder
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode {
			sb.WriteString(child.Data)
		}
	}
	return sb.String()
}
