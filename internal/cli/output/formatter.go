package output

import (
	"fmt"
	"io"

	"github.com/yndnr/respkv/pkg/resp"
)

// Format represents the output format.
type Format string

const (
	FormatRaw  Format = "raw"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formatter writes one reply to w.
type Formatter interface {
	Format(w io.Writer, v resp.Value) error
}

// ParseFormat validates s as an output format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatRaw, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want raw, json or yaml)", s)
	}
}

// NewFormatter creates a formatter for the given format.
// Unknown formats fall back to raw.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return &RawFormatter{}
	}
}

// Plain converts v into Go values suitable for generic encoders.
// Strings become string, null becomes nil, arrays become []any and error
// replies become a map with a single "error" key.
func Plain(v resp.Value) any {
	switch v.Kind {
	case resp.KindSimpleString, resp.KindBulkString:
		return v.Str
	case resp.KindError:
		return map[string]string{"error": v.Str}
	case resp.KindArray:
		out := make([]any, len(v.Elems))
		for i, e := range v.Elems {
			out[i] = Plain(e)
		}
		return out
	default:
		return nil
	}
}
