package engine

import "strings"

// ItemKind is the dynamic type of one sequence item.
type ItemKind int

const (
	ItemNode ItemKind = iota
	ItemString
	ItemInteger
	ItemDouble
	ItemBoolean
	ItemQName
)

func (k ItemKind) String() string {
	switch k {
	case ItemNode:
		return "node"
	case ItemString:
		return "string"
	case ItemInteger:
		return "integer"
	case ItemDouble:
		return "double"
	case ItemBoolean:
		return "boolean"
	case ItemQName:
		return "qname"
	default:
		return "unknown"
	}
}

// Item is one member of a result sequence. Value holds the item's
// string form; Name is the node or QName name when one applies.
type Item struct {
	Kind  ItemKind
	Name  string
	Value string
}

func (i Item) String() string { return i.Value }

// Sequence is an ordered engine result.
type Sequence struct {
	Items []Item
}

func (s Sequence) Count() int  { return len(s.Items) }
func (s Sequence) Empty() bool { return len(s.Items) == 0 }

// String joins the items' string forms with single spaces, matching the
// serialization assertions compare against.
func (s Sequence) String() string {
	return strings.Join(s.Strings(), " ")
}

// Strings returns the items' string forms in order.
func (s Sequence) Strings() []string {
	out := make([]string, len(s.Items))
	for i, it := range s.Items {
		out[i] = it.Value
	}
	return out
}
