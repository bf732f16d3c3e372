package repl

import (
	"errors"
	"strconv"
	"strings"
)

// ErrUnbalancedQuotes is returned for a line whose quote is never closed.
var ErrUnbalancedQuotes = errors.New("unbalanced quotes")

// Tokenize splits line into arguments.
//
// Inside double quotes \", \\, \n, \r, \t and \xHH are recognized.
// Inside single quotes only \' is. A quoted empty string yields an empty
// argument.
func Tokenize(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inWord  bool
		quote   byte
		escaped bool
	)

	for i := 0; i < len(line); i++ {
		c := line[i]

		switch {
		case escaped:
			escaped = false
			if quote == '\'' {
				if c != '\'' {
					cur.WriteByte('\\')
				}
				cur.WriteByte(c)
				continue
			}
			switch c {
			case 'n':
				cur.WriteByte('\n')
			case 'r':
				cur.WriteByte('\r')
			case 't':
				cur.WriteByte('\t')
			case 'x':
				if i+2 < len(line) {
					if b, err := strconv.ParseUint(line[i+1:i+3], 16, 8); err == nil {
						cur.WriteByte(byte(b))
						i += 2
						continue
					}
				}
				cur.WriteByte('x')
			default:
				cur.WriteByte(c)
			}

		case quote != 0:
			switch c {
			case '\\':
				escaped = true
			case quote:
				quote = 0
			default:
				cur.WriteByte(c)
			}

		case c == '"' || c == '\'':
			quote = c
			inWord = true

		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			if inWord {
				args = append(args, cur.String())
				cur.Reset()
				inWord = false
			}

		default:
			cur.WriteByte(c)
			inWord = true
		}
	}

	if quote != 0 || escaped {
		return nil, ErrUnbalancedQuotes
	}
	if inWord {
		args = append(args, cur.String())
	}
	return args, nil
}
