package buf

import (
	"fmt"
	"reflect"
	"strings"
)

const (
	detailHeadBytes = 16
	detailMaxBytes  = 32
)

// detailString renders a bounded debug view of the buffer: type, identity,
// capacity, remaining and at most detailMaxBytes of content. Rendering
// tolerates concurrent structural change by reporting, not propagating, any
// inconsistency it runs into.
func detailString(name string, b Buffer) (s string) {
	var sb strings.Builder

	defer func() {
		if r := recover(); r != nil {
			sb.WriteString("!!concurrent mod!!}")
			s = sb.String()
		}
	}()

	fmt.Fprintf(&sb, "%s@%x[c=%d,r=%d]={", name, identityOf(b), b.Capacity(), b.Remaining())

	appendDebugBytes(&sb, b)

	sb.WriteString("}")

	return sb.String()
}

func identityOf(b Buffer) uintptr {
	return reflect.ValueOf(b).Pointer()
}

func appendDebugBytes(sb *strings.Builder, b Buffer) {
	slice := b.Slice()
	defer slice.Release()

	sb.WriteString("<<<")

	skip := slice.Remaining() - detailMaxBytes
	if skip < 0 {
		skip = 0
	}

	count := 0

	for slice.HasRemaining() {
		c, err := slice.Get()
		if err != nil {
			break
		}

		appendDebugByte(sb, c)

		count++
		if skip > 0 && count == detailHeadBytes {
			sb.WriteString("...")
			slice.Skip(skip)
		}
	}

	sb.WriteString(">>>")
}

func appendDebugByte(sb *strings.Builder, c byte) {
	switch {
	case c == '\\':
		sb.WriteString(`\\`)
	case c >= ' ' && c <= '~':
		sb.WriteByte(c)
	case c == '\r':
		sb.WriteString(`\r`)
	case c == '\n':
		sb.WriteString(`\n`)
	case c == '\t':
		sb.WriteString(`\t`)
	default:
		fmt.Fprintf(sb, `\x%02x`, c)
	}
}
