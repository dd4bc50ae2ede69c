package editengine

import (
	"bufio"
	"io"
	"os"
	"unicode/utf8"

	"mdtool/pkg/mderr"
)

// PayloadFromFile reads and UTF-8 validates a payload source file.
func PayloadFromFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &mderr.LocatedError{Path: path, Op: "read payload", Err: mderr.ErrPayloadSource}
	}
	if !utf8.Valid(data) {
		return nil, &mderr.LocatedError{Path: path, Op: "read payload", Err: mderr.ErrInvalidUTF8}
	}
	return data, nil
}

// PayloadFromReader reads a payload from stdin (or any reader) to EOF.
func PayloadFromReader(r io.Reader) ([]byte, error) {
	br := bufio.NewReader(r)
	data, err := io.ReadAll(br)
	if err != nil {
		return nil, &mderr.LocatedError{Op: "read payload", Err: mderr.ErrPayloadSource}
	}
	if !utf8.Valid(data) {
		return nil, &mderr.LocatedError{Op: "read payload", Err: mderr.ErrInvalidUTF8}
	}
	return data, nil
}

// PayloadFromString decodes the exact escape set mdtool supports for inline
// payload strings: \n -> LF, \t -> HTAB, \\ -> \, \" -> ". Any other \x
// sequence fails with PayloadEscapeError.
func PayloadFromString(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	b := []byte(s)
	for i := 0; i < len(b); i++ {
		if b[i] != '\\' {
			out = append(out, b[i])
			continue
		}
		if i+1 >= len(b) {
			return nil, &mderr.PayloadEscapeError{Sequence: `\`}
		}
		switch b[i+1] {
		case 'n':
			out = append(out, '\n')
		case 't':
			out = append(out, '\t')
		case '\\':
			out = append(out, '\\')
		case '"':
			out = append(out, '"')
		default:
			return nil, &mderr.PayloadEscapeError{Sequence: string(b[i : i+2])}
		}
		i++
	}
	return out, nil
}
