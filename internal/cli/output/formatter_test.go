package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/yndnr/respkv/pkg/resp"
)

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"raw", "json", "yaml"} {
		f, err := ParseFormat(s)
		if err != nil || string(f) != s {
			t.Errorf("ParseFormat(%q) = %q, %v", s, f, err)
		}
	}
	if _, err := ParseFormat("table"); err == nil {
		t.Error("ParseFormat(table) should fail")
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON).(*JSONFormatter); !ok {
		t.Error("expected JSONFormatter")
	}
	if _, ok := NewFormatter(FormatYAML).(*YAMLFormatter); !ok {
		t.Error("expected YAMLFormatter")
	}
	if _, ok := NewFormatter(FormatRaw).(*RawFormatter); !ok {
		t.Error("expected RawFormatter")
	}
	if _, ok := NewFormatter("unknown").(*RawFormatter); !ok {
		t.Error("unknown format should default to raw")
	}
}

func render(t *testing.T, f Formatter, v resp.Value) string {
	t.Helper()
	var buf bytes.Buffer
	if err := f.Format(&buf, v); err != nil {
		t.Fatalf("Format(%s) error = %v", v, err)
	}
	return buf.String()
}

// ============================================================
// Raw
// ============================================================

func TestRawFormatter(t *testing.T) {
	tests := []struct {
		name  string
		value resp.Value
		want  string
	}{
		{"simple", resp.SimpleString("PONG"), "PONG\n"},
		{"error", resp.Error("ERR boom"), "(error) ERR boom\n"},
		{"bulk", resp.BulkString("hello"), "\"hello\"\n"},
		{"bulk escaped", resp.BulkString("a\r\nb"), "\"a\\r\\nb\"\n"},
		{"null", resp.Null(), "(nil)\n"},
		{"empty array", resp.Array(), "(empty array)\n"},
		{
			"flat array",
			resp.Array(resp.BulkString("a"), resp.Null()),
			"1) \"a\"\n2) (nil)\n",
		},
		{
			"nested array",
			resp.Array(
				resp.BulkString("a"),
				resp.Array(resp.BulkString("b"), resp.BulkString("c")),
			),
			"1) \"a\"\n2) 1) \"b\"\n   2) \"c\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := render(t, &RawFormatter{}, tt.value); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRawFormatter_NumberWidth(t *testing.T) {
	elems := make([]resp.Value, 10)
	for i := range elems {
		elems[i] = resp.SimpleString("x")
	}
	got := render(t, &RawFormatter{}, resp.Array(elems...))
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	if lines[0] != " 1) x" || lines[9] != "10) x" {
		t.Errorf("numbering not aligned: %q", lines)
	}
}

// ============================================================
// JSON / YAML
// ============================================================

func TestJSONFormatter(t *testing.T) {
	tests := []struct {
		name  string
		value resp.Value
		want  string
	}{
		{"string", resp.BulkString("v"), "\"v\"\n"},
		{"null", resp.Null(), "null\n"},
		{"error", resp.Error("ERR x"), "{\n  \"error\": \"ERR x\"\n}\n"},
		{"array", resp.Array(resp.SimpleString("OK"), resp.Null()), "[\n  \"OK\",\n  null\n]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := render(t, &JSONFormatter{}, tt.value); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestYAMLFormatter(t *testing.T) {
	tests := []struct {
		name  string
		value resp.Value
		want  string
	}{
		{"string", resp.SimpleString("PONG"), "PONG\n"},
		{"null", resp.Null(), "null\n"},
		{"error", resp.Error("ERR x"), "error: ERR x\n"},
		{"array", resp.Array(resp.BulkString("a"), resp.BulkString("b")), "- a\n- b\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := render(t, &YAMLFormatter{}, tt.value); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPlain(t *testing.T) {
	v := resp.Array(resp.BulkString("a"), resp.Array(resp.Null()))
	got, ok := Plain(v).([]any)
	if !ok || len(got) != 2 {
		t.Fatalf("Plain() = %#v", Plain(v))
	}
	if got[0] != "a" {
		t.Errorf("got[0] = %#v", got[0])
	}
	inner, ok := got[1].([]any)
	if !ok || len(inner) != 1 || inner[0] != nil {
		t.Errorf("got[1] = %#v", got[1])
	}
}
