package resp

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedCommand reports a decoded value that is not a command array.
var ErrMalformedCommand = errors.New("resp: malformed command")

// Command is a client request: a name followed by its arguments.
type Command struct {
	// Name is the command name exactly as the client sent it.
	Name string
	// Args holds the remaining array elements, all bulk strings, in order.
	Args []Value
}

// ParseCommand converts a decoded value into a Command.
//
// Clients always send commands as a non-empty array of bulk strings; any
// other shape is rejected with ErrMalformedCommand.
func ParseCommand(v Value) (Command, error) {
	if v.Kind != KindArray {
		return Command{}, fmt.Errorf("%w: expected array, got %s", ErrMalformedCommand, v.Kind)
	}
	if len(v.Elems) == 0 {
		return Command{}, fmt.Errorf("%w: empty array", ErrMalformedCommand)
	}
	for i, e := range v.Elems {
		if e.Kind != KindBulkString {
			return Command{}, fmt.Errorf("%w: element %d is %s, want bulk-string", ErrMalformedCommand, i, e.Kind)
		}
	}
	return Command{
		Name: v.Elems[0].Str,
		Args: v.Elems[1:],
	}, nil
}

// Is reports whether the command name matches name, ignoring ASCII case.
func (c Command) Is(name string) bool {
	return strings.EqualFold(c.Name, name)
}

// Arg returns the text of the i-th argument and whether it exists.
func (c Command) Arg(i int) (string, bool) {
	if i < 0 || i >= len(c.Args) {
		return "", false
	}
	return c.Args[i].Str, true
}

// String returns the command as space separated words.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Name)
	for _, a := range c.Args {
		parts = append(parts, a.Str)
	}
	return strings.Join(parts, " ")
}
