package resp

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encoded(t *testing.T, node Node) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, node))
	return buf.String()
}

func TestEncodeScalars(t *testing.T) {
	assert.Equal(t, "+OK\r\n", encoded(t, OK))
	assert.Equal(t, "-Error message\r\n", encoded(t, Error{Message: "Error message"}))
	assert.Equal(t, ":1234\r\n", encoded(t, Integer{Value: 1234}))
	assert.Equal(t, "$5\r\nhello\r\n", encoded(t, BlobString{Value: "hello"}))
	assert.Equal(t, "_\r\n", encoded(t, Nil))
	assert.Equal(t, "#t\r\n", encoded(t, Boolean{Value: true}))
	assert.Equal(t, "=15\r\ntxt:Hello World\r\n", encoded(t, VerbatimString{Format: "txt", Value: "Hello World"}))
}

func TestEncodeAggregates(t *testing.T) {
	set := Set{Elements: []Node{SimpleString{Value: "First"}, SimpleString{Value: "Second"}}}
	assert.Equal(t, "~2\r\n+First\r\n+Second\r\n", encoded(t, set))

	m := Map{Entries: []MapEntry{
		{Key: SimpleString{Value: "Key1"}, Value: SimpleString{Value: "Value1"}},
		{Key: SimpleString{Value: "Key2"}, Value: Integer{Value: 2}},
	}}
	assert.Equal(t, "%2\r\n+Key1\r\n+Value1\r\n+Key2\r\n:2\r\n", encoded(t, m))

	arr := Array{Elements: []Node{Strings([]string{"a"}), Nil}}
	assert.Equal(t, "*2\r\n*1\r\n$1\r\na\r\n_\r\n", encoded(t, arr))
}

func TestEncodeUnknown(t *testing.T) {
	err := Encode(io.Discard, 3.5)
	assert.Error(t, err)
}

func TestEncodeCommand(t *testing.T) {
	assert.Equal(t, "*3\r\n$3\r\nSET\r\n$3\r\nkey\r\n$5\r\nvalue\r\n",
		encoded(t, Strings([]string{"SET", "key", "value"})))
	assert.Equal(t, "*5\r\n$4\r\nSADD\r\n$1\r\n1\r\n$3\r\none\r\n$1\r\n2\r\n$3\r\ntwo\r\n",
		encoded(t, Strings([]string{"SADD", "1", "one", "2", "two"})))
}

func TestReadCommandRoundTrip(t *testing.T) {
	var input bytes.Buffer
	require.NoError(t, Encode(&input, Strings([]string{"SADD", "a b", ""})))
	input.WriteString("SISMEMBER x\r\n")
	input.WriteString("DBSIZE")
	r := bufio.NewReader(&input)

	argv, err := ReadCommand(r)
	require.NoError(t, err)
	assert.Equal(t, []string{"SADD", "a b", ""}, argv)

	argv, err = ReadCommand(r)
	require.NoError(t, err)
	assert.Equal(t, []string{"SISMEMBER", "x"}, argv)

	argv, err = ReadCommand(r)
	require.NoError(t, err)
	assert.Equal(t, []string{"DBSIZE"}, argv)

	_, err = ReadCommand(r)
	assert.Equal(t, io.EOF, err)
}

func TestReadCommandErrors(t *testing.T) {
	for name, input := range map[string]string{
		"bad header":    "*x\r\n",
		"not a blob":    "*1\r\n+OK\r\n",
		"bad length":    "*1\r\n$-3\r\n",
		"no terminator": "*1\r\n$2\r\nabXY",
		"huge blob":     "*1\r\n$9223372036854775807\r\nx\r\n",
		"blob too long": "*1\r\n$536870913\r\nx\r\n",
		"huge array":    "*9223372036854775807\r\n",
		"array too big": "*1048577\r\n$1\r\na\r\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ReadCommand(bufio.NewReader(strings.NewReader(input)))
			assert.True(t, errors.Is(err, ErrProtocol), "got %v", err)
		})
	}

	_, err := ReadCommand(bufio.NewReader(strings.NewReader("*2\r\n$1\r\na\r\n")))
	assert.Equal(t, io.ErrUnexpectedEOF, err)
}
