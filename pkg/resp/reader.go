package resp

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Protocol limits. They bound what a single peer can make the reader
// allocate; callers may tighten them with ReaderOptions.
const (
	// DefaultMaxBulkLen is the largest accepted bulk string payload (512MiB).
	DefaultMaxBulkLen = 512 * 1024 * 1024

	// DefaultMaxArrayLen is the largest accepted array element count.
	DefaultMaxArrayLen = 1024 * 1024

	// DefaultMaxLineLen bounds a header or simple string line, CRLF included.
	DefaultMaxLineLen = 64 * 1024

	// MaxDepth bounds array nesting.
	MaxDepth = 32
)

var (
	// ErrProtocol reports malformed or truncated framing.
	ErrProtocol = errors.New("resp: protocol error")

	// ErrLimitExceeded reports a frame larger than the configured limits.
	ErrLimitExceeded = errors.New("resp: limit exceeded")
)

var crlf = []byte("\r\n")

// Reader decodes RESP values from a byte stream.
type Reader struct {
	br          *bufio.Reader
	maxBulkLen  int64
	maxArrayLen int64
	maxLineLen  int
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithMaxBulkLen sets the largest accepted bulk string payload.
func WithMaxBulkLen(n int64) ReaderOption {
	return func(r *Reader) {
		if n > 0 {
			r.maxBulkLen = n
		}
	}
}

// WithMaxArrayLen sets the largest accepted array element count.
func WithMaxArrayLen(n int64) ReaderOption {
	return func(r *Reader) {
		if n > 0 {
			r.maxArrayLen = n
		}
	}
}

// WithMaxLineLen sets the longest accepted line.
func WithMaxLineLen(n int) ReaderOption {
	return func(r *Reader) {
		if n > 0 {
			r.maxLineLen = n
		}
	}
}

// NewReader creates a Reader on top of rd.
func NewReader(rd io.Reader, opts ...ReaderOption) *Reader {
	r := &Reader{
		br:          bufio.NewReader(rd),
		maxBulkLen:  DefaultMaxBulkLen,
		maxArrayLen: DefaultMaxArrayLen,
		maxLineLen:  DefaultMaxLineLen,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Buffered returns the number of bytes already read from the stream but not
// yet consumed.
func (r *Reader) Buffered() int {
	return r.br.Buffered()
}

// ReadValue decodes the next value from the stream.
//
// It returns io.EOF, unwrapped, only when the stream ends cleanly before the
// first byte of a value. A stream ending inside a value yields an error
// matching both ErrProtocol and io.ErrUnexpectedEOF. Transport errors such as
// deadlines are returned as they are.
func (r *Reader) ReadValue() (Value, error) {
	tag, err := r.br.ReadByte()
	if err != nil {
		return Value{}, err
	}
	return r.readBody(tag, 0)
}

func (r *Reader) readValue(depth int) (Value, error) {
	tag, err := r.br.ReadByte()
	if err != nil {
		return Value{}, truncated(err)
	}
	return r.readBody(tag, depth)
}

func (r *Reader) readBody(tag byte, depth int) (Value, error) {
	switch Kind(tag) {
	case KindSimpleString:
		line, err := r.readLine()
		if err != nil {
			return Value{}, err
		}
		return SimpleString(line), nil
	case KindError:
		line, err := r.readLine()
		if err != nil {
			return Value{}, err
		}
		return Error(line), nil
	case KindBulkString:
		return r.readBulk()
	case KindArray:
		return r.readArray(depth)
	default:
		return Value{}, fmt.Errorf("%w: unknown type byte %q", ErrProtocol, tag)
	}
}

func (r *Reader) readBulk() (Value, error) {
	n, err := r.readLength("bulk")
	if err != nil {
		return Value{}, err
	}
	if n == -1 {
		return Null(), nil
	}
	if n < 0 {
		return Value{}, fmt.Errorf("%w: invalid bulk length %d", ErrProtocol, n)
	}
	if n > r.maxBulkLen {
		return Value{}, fmt.Errorf("%w: bulk length %d exceeds limit %d", ErrLimitExceeded, n, r.maxBulkLen)
	}

	// Grow with the data actually received rather than trusting the header.
	var sb strings.Builder
	sb.Grow(int(min(n, int64(r.br.Size()))))
	if _, err := io.CopyN(&sb, r.br, n); err != nil {
		return Value{}, truncated(err)
	}
	if err := r.expectCRLF(); err != nil {
		return Value{}, err
	}
	return BulkString(sb.String()), nil
}

func (r *Reader) readArray(depth int) (Value, error) {
	n, err := r.readLength("array")
	if err != nil {
		return Value{}, err
	}
	if n < 0 {
		return Value{}, fmt.Errorf("%w: invalid array length %d", ErrProtocol, n)
	}
	if n > r.maxArrayLen {
		return Value{}, fmt.Errorf("%w: array length %d exceeds limit %d", ErrLimitExceeded, n, r.maxArrayLen)
	}
	if depth >= MaxDepth {
		return Value{}, fmt.Errorf("%w: array nesting deeper than %d", ErrLimitExceeded, MaxDepth)
	}

	elems := make([]Value, 0, min(n, 64))
	for i := int64(0); i < n; i++ {
		v, err := r.readValue(depth + 1)
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, v)
	}
	return Array(elems...), nil
}

func (r *Reader) readLength(what string) (int64, error) {
	line, err := r.readLine()
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(line, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s length %q", ErrProtocol, what, line)
	}
	return n, nil
}

// readLine reads up to and including the next LF and returns the line
// without its CRLF terminator.
func (r *Reader) readLine() (string, error) {
	var buf []byte
	for {
		frag, err := r.br.ReadSlice('\n')
		if err == nil {
			buf = append(buf, frag...)
			break
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			buf = append(buf, frag...)
			if len(buf) > r.maxLineLen {
				return "", fmt.Errorf("%w: line length exceeds limit %d", ErrLimitExceeded, r.maxLineLen)
			}
			continue
		}
		return "", truncated(err)
	}

	if len(buf) > r.maxLineLen {
		return "", fmt.Errorf("%w: line length exceeds limit %d", ErrLimitExceeded, r.maxLineLen)
	}
	if !bytes.HasSuffix(buf, crlf) {
		return "", fmt.Errorf("%w: missing CRLF", ErrProtocol)
	}
	return string(buf[:len(buf)-2]), nil
}

func (r *Reader) expectCRLF() error {
	var term [2]byte
	if _, err := io.ReadFull(r.br, term[:]); err != nil {
		return truncated(err)
	}
	if term[0] != '\r' || term[1] != '\n' {
		return fmt.Errorf("%w: invalid bulk terminator %q", ErrProtocol, term[:])
	}
	return nil
}

// truncated maps an end of stream met inside a value to a protocol error.
func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %w", ErrProtocol, io.ErrUnexpectedEOF)
	}
	return err
}
