package catalog

import (
	"os"
	"strings"

	"github.com/antchfx/xmlquery"
)

// parseFile reads, transcodes, and parses an XML file, returning its
// document element.
func parseFile(path string) (*xmlquery.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, loadErrorf("C001", path, "read catalog file: %w", err)
	}
	decoded, err := decodeToUTF8(data)
	if err != nil {
		return nil, loadErrorf("C001", path, "decode catalog file: %w", err)
	}
	doc, err := xmlquery.Parse(strings.NewReader(string(decoded)))
	if err != nil {
		return nil, loadErrorf("C002", path, "parse catalog file: %w", err)
	}
	root := documentElement(doc)
	if root == nil {
		return nil, loadErrorf("C003", path, "no document element")
	}
	return root, nil
}

func documentElement(doc *xmlquery.Node) *xmlquery.Node {
	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			return n
		}
	}
	return nil
}

// children yields the element children of n with the given local name.
func children(n *xmlquery.Node, local string) []*xmlquery.Node {
	var out []*xmlquery.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == local {
			out = append(out, c)
		}
	}
	return out
}

// firstChild returns the first element child of n with the given local
// name, or nil.
func firstChild(n *xmlquery.Node, local string) *xmlquery.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == local {
			return c
		}
	}
	return nil
}

// elementChildren yields all element children of n in document order.
func elementChildren(n *xmlquery.Node) []*xmlquery.Node {
	var out []*xmlquery.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// descendants yields all descendant elements of n with the given local
// name, in document order.
func descendants(n *xmlquery.Node, local string) []*xmlquery.Node {
	var out []*xmlquery.Node
	var walk func(*xmlquery.Node)
	walk = func(cur *xmlquery.Node) {
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != xmlquery.ElementNode {
				continue
			}
			if c.Data == local {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// attr returns the value of the attribute with the given local name,
// ignoring any prefix (so xlink:href matches "href").
func attr(n *xmlquery.Node, local string) string {
	for _, a := range n.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func hasAttr(n *xmlquery.Node, local string) bool {
	for _, a := range n.Attr {
		if a.Name.Local == local {
			return true
		}
	}
	return false
}

// text returns the concatenated text content of n.
func text(n *xmlquery.Node) string {
	if n == nil {
		return ""
	}
	return n.InnerText()
}

// innerXML serializes the element content of n without the enclosing
// tag, for inline source documents and expected XML fragments.
func innerXML(n *xmlquery.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(c.OutputXML(true))
	}
	return sb.String()
}
