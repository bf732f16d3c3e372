package repl

import (
	"errors"
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"empty", "", nil},
		{"blank", "   \t ", nil},
		{"words", "SET key value", []string{"SET", "key", "value"}},
		{"extra spaces", "  GET   key  ", []string{"GET", "key"}},
		{"double quoted", `SET k "hello world"`, []string{"SET", "k", "hello world"}},
		{"single quoted", `SET k 'a b'`, []string{"SET", "k", "a b"}},
		{"empty quoted", `SET k ""`, []string{"SET", "k", ""}},
		{"adjacent quote", `SET k pre"fix post"`, []string{"SET", "k", "prefix post"}},
		{"escapes", `ECHO "a\"b\\c\nd\te"`, []string{"ECHO", "a\"b\\c\nd\te"}},
		{"hex escape", `ECHO "\x41\x00z"`, []string{"ECHO", "A\x00z"}},
		{"bad hex escape", `ECHO "\xZZ"`, []string{"ECHO", "xZZ"}},
		{"single quote literal", `ECHO 'a\nb\'c'`, []string{"ECHO", `a\nb'c`}},
		{"backslash outside quotes", `ECHO a\b`, []string{"ECHO", `a\b`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.line)
			if err != nil {
				t.Fatalf("Tokenize(%q) error = %v", tt.line, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestTokenize_Unbalanced(t *testing.T) {
	for _, line := range []string{`SET k "open`, `SET k 'open`, `ECHO "trailing\`} {
		if _, err := Tokenize(line); !errors.Is(err, ErrUnbalancedQuotes) {
			t.Errorf("Tokenize(%q) error = %v, want ErrUnbalancedQuotes", line, err)
		}
	}
}
