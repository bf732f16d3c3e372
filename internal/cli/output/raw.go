package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yndnr/respkv/pkg/resp"
)

// RawFormatter prints replies the way redis-cli does on a terminal.
type RawFormatter struct{}

// Format writes v followed by a newline.
func (f *RawFormatter) Format(w io.Writer, v resp.Value) error {
	var b strings.Builder
	writeRaw(&b, v, "")
	_, err := io.WriteString(w, b.String())
	return err
}

// writeRaw renders v. indent is prepended to every line after the first so
// nested arrays line up under their parent's numbering.
func writeRaw(b *strings.Builder, v resp.Value, indent string) {
	switch v.Kind {
	case resp.KindSimpleString:
		b.WriteString(v.Str)
	case resp.KindError:
		b.WriteString("(error) ")
		b.WriteString(v.Str)
	case resp.KindBulkString:
		b.WriteString(strconv.Quote(v.Str))
	case resp.KindArray:
		if len(v.Elems) == 0 {
			b.WriteString("(empty array)")
			break
		}
		width := len(strconv.Itoa(len(v.Elems)))
		for i, e := range v.Elems {
			if i > 0 {
				b.WriteString(indent)
			}
			prefix := fmt.Sprintf("%*d) ", width, i+1)
			b.WriteString(prefix)
			writeRaw(b, e, indent+strings.Repeat(" ", len(prefix)))
		}
		return
	default:
		b.WriteString("(nil)")
	}
	b.WriteByte('\n')
}
