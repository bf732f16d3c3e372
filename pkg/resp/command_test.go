package resp

import (
	"errors"
	"testing"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name     string
		input    Value
		wantName string
		wantArgs []string
	}{
		{
			name:     "no arguments",
			input:    Array(BulkString("PING")),
			wantName: "PING",
		},
		{
			name:     "name case preserved",
			input:    Array(BulkString("eCHo"), BulkString("Hello")),
			wantName: "eCHo",
			wantArgs: []string{"Hello"},
		},
		{
			name:     "set with expiry",
			input:    Array(BulkString("set"), BulkString("k"), BulkString("MixedCase"), BulkString("px"), BulkString("100")),
			wantName: "set",
			wantArgs: []string{"k", "MixedCase", "px", "100"},
		},
		{
			name:     "empty bulk arguments",
			input:    Array(BulkString("SET"), BulkString(""), BulkString("")),
			wantName: "SET",
			wantArgs: []string{"", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := ParseCommand(tt.input)
			if err != nil {
				t.Fatalf("ParseCommand() error = %v", err)
			}
			if cmd.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", cmd.Name, tt.wantName)
			}
			if len(cmd.Args) != len(tt.wantArgs) {
				t.Fatalf("len(Args) = %d, want %d", len(cmd.Args), len(tt.wantArgs))
			}
			for i, want := range tt.wantArgs {
				if cmd.Args[i].Kind != KindBulkString {
					t.Errorf("Args[%d].Kind = %s, want bulk-string", i, cmd.Args[i].Kind)
				}
				if cmd.Args[i].Str != want {
					t.Errorf("Args[%d] = %q, want %q", i, cmd.Args[i].Str, want)
				}
			}
		})
	}
}

func TestParseCommand_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input Value
	}{
		{"bulk string", BulkString("PING")},
		{"simple string", SimpleString("PING")},
		{"null", Null()},
		{"empty array", Array()},
		{"simple string name", Array(SimpleString("PING"))},
		{"null argument", Array(BulkString("GET"), Null())},
		{"nested array argument", Array(BulkString("GET"), Array(BulkString("k")))},
		{"error argument", Array(BulkString("ECHO"), Error("x"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCommand(tt.input)
			if !errors.Is(err, ErrMalformedCommand) {
				t.Errorf("ParseCommand() error = %v, want ErrMalformedCommand", err)
			}
		})
	}
}

func TestCommand_Is(t *testing.T) {
	cmd := Command{Name: "gEt"}
	for _, name := range []string{"GET", "get", "Get"} {
		if !cmd.Is(name) {
			t.Errorf("Is(%q) = false, want true", name)
		}
	}
	if cmd.Is("SET") {
		t.Error("Is(\"SET\") = true, want false")
	}
}

func TestCommand_Arg(t *testing.T) {
	cmd := Command{Name: "SET", Args: []Value{BulkString("k"), BulkString("v")}}

	if got, ok := cmd.Arg(1); !ok || got != "v" {
		t.Errorf("Arg(1) = %q, %v; want \"v\", true", got, ok)
	}
	if _, ok := cmd.Arg(2); ok {
		t.Error("Arg(2) should not exist")
	}
	if _, ok := cmd.Arg(-1); ok {
		t.Error("Arg(-1) should not exist")
	}
}

func TestCommand_String(t *testing.T) {
	cmd := Command{Name: "SET", Args: []Value{BulkString("k"), BulkString("v")}}
	if got := cmd.String(); got != "SET k v" {
		t.Errorf("String() = %q, want %q", got, "SET k v")
	}
}
