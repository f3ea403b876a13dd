package resp

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// FormatReply renders a decoded reply the way redis-cli prints it:
//
//	1) "a"
//	2) (integer) 1
//	3) 1# "k" => (nil)
//
// Error values render as "(error) <message>".
func FormatReply(v any) string {
	var sb strings.Builder
	formatReply(&sb, v, "")
	return sb.String()
}

func formatReply(sb *strings.Builder, v any, indent string) {
	switch v := v.(type) {
	case nil:
		sb.WriteString("(nil)")
	case string:
		sb.WriteString(strconv.Quote(v))
	case []byte:
		sb.WriteString(strconv.Quote(string(v)))
	case int64:
		sb.WriteString("(integer) ")
		sb.WriteString(strconv.FormatInt(v, 10))
	case float64:
		sb.WriteString("(double) ")
		sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	case bool:
		if v {
			sb.WriteString("(true)")
		} else {
			sb.WriteString("(false)")
		}
	case *big.Int:
		sb.WriteString("(big number) ")
		sb.WriteString(v.String())
	case error:
		sb.WriteString("(error) ")
		sb.WriteString(v.Error())
	case []any:
		formatList(sb, v, ')', "(empty array)", indent)
	case Push:
		formatList(sb, v, ')', "(empty push)", indent)
	case *Set:
		formatList(sb, v.Members(), '~', "(empty set)", indent)
	case *Map:
		formatMap(sb, v, indent)
	default:
		fmt.Fprintf(sb, "%v", v)
	}
}

func formatList(sb *strings.Builder, items []any, mark byte, empty, indent string) {
	if len(items) == 0 {
		sb.WriteString(empty)
		return
	}
	width := len(strconv.Itoa(len(items)))
	for i, item := range items {
		prefix := itemPrefix(i, width, mark)
		if i > 0 {
			sb.WriteByte('\n')
			sb.WriteString(indent)
		}
		sb.WriteString(prefix)
		formatReply(sb, item, indent+strings.Repeat(" ", len(prefix)))
	}
}

func formatMap(sb *strings.Builder, m *Map, indent string) {
	if m.Len() == 0 {
		sb.WriteString("(empty hash)")
		return
	}
	width := len(strconv.Itoa(m.Len()))
	for i, e := range m.Entries() {
		prefix := itemPrefix(i, width, '#')
		if i > 0 {
			sb.WriteByte('\n')
			sb.WriteString(indent)
		}
		sb.WriteString(prefix)
		nested := indent + strings.Repeat(" ", len(prefix))
		formatReply(sb, e.Key, nested)
		sb.WriteString(" => ")
		formatReply(sb, e.Value, nested)
	}
}

// itemPrefix right-aligns the 1-based index: " 1) ", "10) ".
func itemPrefix(i, width int, mark byte) string {
	n := strconv.Itoa(i + 1)
	return strings.Repeat(" ", width-len(n)) + n + string(mark) + " "
}
