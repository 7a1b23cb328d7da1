package resp

import (
	"fmt"
	"strconv"
	"strings"
)

// Format renders node the way redis-cli prints replies on a terminal.
func Format(node Node) string {
	var b strings.Builder
	formatNode(&b, node, "")
	return b.String()
}

func formatNode(b *strings.Builder, node Node, indent string) {
	switch n := node.(type) {
	case SimpleString:
		b.WriteString(n.Value)
	case Error:
		b.WriteString("(error) " + n.Message)
	case Integer:
		fmt.Fprintf(b, "(integer) %d", n.Value)
	case BlobString:
		b.WriteString(strconv.Quote(n.Value))
	case Null:
		b.WriteString("(nil)")
	case Boolean:
		if n.Value {
			b.WriteString("(true)")
		} else {
			b.WriteString("(false)")
		}
	case VerbatimString:
		b.WriteString(n.Value)
	case Array:
		formatList(b, n.Elements, indent, "(empty array)")
	case Set:
		formatList(b, n.Elements, indent, "(empty set)")
	case Map:
		if len(n.Entries) == 0 {
			b.WriteString("(empty hash)")
			return
		}
		width := len(strconv.Itoa(len(n.Entries)))
		for i, e := range n.Entries {
			if i > 0 {
				b.WriteString("\n" + indent)
			}
			prefix := fmt.Sprintf("%*d# ", width, i+1)
			b.WriteString(prefix)
			formatNode(b, e.Key, indent+strings.Repeat(" ", len(prefix)))
			b.WriteString(" => ")
			formatNode(b, e.Value, indent+strings.Repeat(" ", len(prefix)))
		}
	default:
		fmt.Fprintf(b, "(unknown %T)", node)
	}
}

// formatList numbers elements "1) ", right aligning the counter and
// indenting nested aggregates under their parent's counter.
func formatList(b *strings.Builder, elems []Node, indent, empty string) {
	if len(elems) == 0 {
		b.WriteString(empty)
		return
	}
	width := len(strconv.Itoa(len(elems)))
	for i, e := range elems {
		if i > 0 {
			b.WriteString("\n" + indent)
		}
		prefix := fmt.Sprintf("%*d) ", width, i+1)
		b.WriteString(prefix)
		formatNode(b, e, indent+strings.Repeat(" ", len(prefix)))
	}
}

// FormatRaw renders node without type decorations, one value per line,
// which is what redis-cli prints when stdout is not a terminal.
func FormatRaw(node Node) string {
	switch n := node.(type) {
	case SimpleString:
		return n.Value
	case Error:
		return "ERR " + n.Message
	case Integer:
		return strconv.Itoa(n.Value)
	case BlobString:
		return n.Value
	case Null:
		return ""
	case Boolean:
		return strconv.FormatBool(n.Value)
	case VerbatimString:
		return n.Value
	case Array:
		return formatRawList(n.Elements)
	case Set:
		return formatRawList(n.Elements)
	case Map:
		parts := make([]string, 0, 2*len(n.Entries))
		for _, e := range n.Entries {
			parts = append(parts, FormatRaw(e.Key), FormatRaw(e.Value))
		}
		return strings.Join(parts, "\n")
	default:
		return fmt.Sprintf("%v", node)
	}
}

func formatRawList(elems []Node) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = FormatRaw(e)
	}
	return strings.Join(parts, "\n")
}
