package resp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrInvalidValue reports a value that cannot be framed on the wire.
var ErrInvalidValue = errors.New("resp: invalid value")

// Writer encodes RESP values onto a byte stream.
type Writer struct {
	bw *bufio.Writer
}

// NewWriter creates a Writer on top of w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: bufio.NewWriter(w)}
}

// WriteValue encodes v and flushes it to the underlying stream.
// Nothing is written if v cannot be encoded.
func (w *Writer) WriteValue(v Value) error {
	if err := validate(v, 0); err != nil {
		return err
	}
	if err := w.encode(v); err != nil {
		return err
	}
	return w.bw.Flush()
}

// WriteCommand encodes args as an array of bulk strings and flushes it.
func (w *Writer) WriteCommand(args ...string) error {
	elems := make([]Value, len(args))
	for i, a := range args {
		elems[i] = BulkString(a)
	}
	return w.WriteValue(Array(elems...))
}

func (w *Writer) encode(v Value) error {
	switch v.Kind {
	case KindSimpleString, KindError:
		return w.writeLine(byte(v.Kind), v.Str)
	case KindBulkString:
		if err := w.writeLine('$', strconv.Itoa(len(v.Str))); err != nil {
			return err
		}
		if _, err := w.bw.WriteString(v.Str); err != nil {
			return err
		}
		_, err := w.bw.Write(crlf)
		return err
	case KindNull:
		return w.writeLine('$', "-1")
	case KindArray:
		if err := w.writeLine('*', strconv.Itoa(len(v.Elems))); err != nil {
			return err
		}
		for _, e := range v.Elems {
			if err := w.encode(e); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %s", ErrInvalidValue, v.Kind)
	}
}

func (w *Writer) writeLine(tag byte, s string) error {
	if err := w.bw.WriteByte(tag); err != nil {
		return err
	}
	if _, err := w.bw.WriteString(s); err != nil {
		return err
	}
	_, err := w.bw.Write(crlf)
	return err
}

func validate(v Value, depth int) error {
	switch v.Kind {
	case KindSimpleString, KindError:
		if strings.ContainsAny(v.Str, "\r\n") {
			return fmt.Errorf("%w: %s contains CR or LF", ErrInvalidValue, v.Kind)
		}
		return nil
	case KindBulkString, KindNull:
		return nil
	case KindArray:
		if depth >= MaxDepth {
			return fmt.Errorf("%w: array nesting deeper than %d", ErrInvalidValue, MaxDepth)
		}
		for _, e := range v.Elems {
			if err := validate(e, depth+1); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %s", ErrInvalidValue, v.Kind)
	}
}
