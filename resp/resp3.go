package resp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// RESP3 serializer and command reader.
// https://github.com/redis/redis-specifications/blob/master/protocol/RESP3.md

var ErrProtocol = errors.New("resp: protocol error")

// Limits on untrusted command input, matching redis defaults.
const (
	MaxBulkLen      = 512 << 20
	MaxMultiBulkLen = 1 << 20
)

// Encode writes node in RESP3 wire format.
func Encode(w io.Writer, node Node) error {
	bw := bufio.NewWriter(w)
	if err := encode(bw, node); err != nil {
		return err
	}
	return bw.Flush()
}

func encode(w *bufio.Writer, node Node) error {
	var err error
	switch n := node.(type) {
	case SimpleString:
		_, err = fmt.Fprintf(w, "%c%s%s", TypeSimple, n.Value, CRLF)
	case Error:
		_, err = fmt.Fprintf(w, "%c%s%s", TypeError, n.Message, CRLF)
	case Integer:
		_, err = fmt.Fprintf(w, "%c%d%s", TypeInteger, n.Value, CRLF)
	case BlobString:
		_, err = fmt.Fprintf(w, "%c%d%s%s%s", TypeBlob, len(n.Value), CRLF, n.Value, CRLF)
	case Null:
		_, err = fmt.Fprintf(w, "%c%s", TypeNull, CRLF)
	case Boolean:
		b := 'f'
		if n.Value {
			b = 't'
		}
		_, err = fmt.Fprintf(w, "%c%c%s", TypeBoolean, b, CRLF)
	case VerbatimString:
		// The length counts the three letter format and its colon.
		_, err = fmt.Fprintf(w, "%c%d%s%s:%s%s", TypeVerbatim, len(n.Value)+4, CRLF, n.Format, n.Value, CRLF)
	case Array:
		err = encodeAggregate(w, TypeArray, n.Elements)
	case Set:
		err = encodeAggregate(w, TypeSet, n.Elements)
	case Map:
		if _, err = fmt.Fprintf(w, "%c%d%s", TypeMap, len(n.Entries), CRLF); err != nil {
			return err
		}
		for _, e := range n.Entries {
			if err = encode(w, e.Key); err != nil {
				return err
			}
			if err = encode(w, e.Value); err != nil {
				return err
			}
		}
	default:
		err = fmt.Errorf("resp: cannot encode %T", node)
	}
	return err
}

func encodeAggregate(w *bufio.Writer, tp byte, elems []Node) error {
	if _, err := fmt.Fprintf(w, "%c%d%s", tp, len(elems), CRLF); err != nil {
		return err
	}
	for _, e := range elems {
		if err := encode(w, e); err != nil {
			return err
		}
	}
	return nil
}

// ReadCommand reads one command, either a RESP array of blob strings or
// an inline line of space separated words. It returns io.EOF once the
// input is exhausted between commands.
func ReadCommand(r *bufio.Reader) ([]string, error) {
	line, err := readLine(r)
	if err != nil {
		return nil, err
	}
	if len(line) == 0 || line[0] != TypeArray {
		return strings.Fields(line), nil
	}

	count, err := strconv.Atoi(line[1:])
	if err != nil || count < 0 {
		return nil, fmt.Errorf("%w: bad array header %q", ErrProtocol, line)
	}
	if count > MaxMultiBulkLen {
		return nil, fmt.Errorf("%w: invalid multibulk length %d", ErrProtocol, count)
	}
	argv := make([]string, 0, min(count, 64))
	for i := 0; i < count; i++ {
		header, err := readLine(r)
		if err != nil {
			return nil, unexpected(err)
		}
		if len(header) == 0 || header[0] != TypeBlob {
			return nil, fmt.Errorf("%w: expected blob string, got %q", ErrProtocol, header)
		}
		length, err := strconv.Atoi(header[1:])
		if err != nil || length < 0 {
			return nil, fmt.Errorf("%w: bad blob length %q", ErrProtocol, header)
		}
		if length > MaxBulkLen {
			return nil, fmt.Errorf("%w: invalid bulk length %d", ErrProtocol, length)
		}
		buf := make([]byte, length+2) // Add 2 for trailing \r\n
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, unexpected(err)
		}
		if string(buf[length:]) != CRLF {
			return nil, fmt.Errorf("%w: blob not terminated by CRLF", ErrProtocol)
		}
		argv = append(argv, string(buf[:length]))
	}
	return argv, nil
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
