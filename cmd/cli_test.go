package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/fzft/go-sparse-set/resp"
	"github.com/fzft/go-sparse-set/sparse"
)

func writeCommand(t *testing.T, w *bytes.Buffer, argv ...string) {
	t.Helper()
	require.NoError(t, resp.Encode(w, resp.Strings(argv)))
}

func newTestCli(mode OutputMode) (*SparseCli, *bytes.Buffer) {
	var out bytes.Buffer
	cli := NewSparseCli(&SparseCliCfg{Prompt: "test> ", Output: mode}, &out, nil)
	return cli, &out
}

func TestRunDemo(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, RunDemo(&out))
	assert.Equal(t, "Elements in the set: 10 20 30 \n"+
		"Found element: 20\n"+
		"Elements after erasing 20: 10 30 \n"+
		"String elements: hello world \n", out.String())
}

func TestDemoCommand(t *testing.T) {
	cli, out := newTestCli(OutputStandard)
	require.NoError(t, cli.RunScript(strings.NewReader("DEMO\n")))
	assert.Contains(t, out.String(), "Elements after erasing 20: 10 30 \n")
}

func TestSetCommands(t *testing.T) {
	cli, out := newTestCli(OutputStandard)
	script := `SADD a b c
SADD a
SCARD
SISMEMBER b
SREM b
SMEMBERS
SREVMEMBERS
`
	require.NoError(t, cli.RunScript(strings.NewReader(script)))
	assert.Equal(t, `(integer) 3
(integer) 0
(integer) 3
(integer) 1
(integer) 1
1) "a"
2) "c"
1) "c"
2) "a"
`, out.String())
}

func TestKeySetCommands(t *testing.T) {
	cli, out := newTestCli(OutputStandard)
	script := `SET a 1
SETNX a 2
SETNX b 2
GET a
GET missing
APPEND c foo
APPEND c bar
GET c
EXISTS c
DBSIZE
DEL c missing
GETALL
KEYS
`
	require.NoError(t, cli.RunScript(strings.NewReader(script)))
	assert.Equal(t, `OK
(integer) 0
(integer) 1
"1"
(nil)
(integer) 3
(integer) 6
"foobar"
(integer) 1
(integer) 3
(integer) 1
1# "a" => "1"
2# "b" => "2"
1) "a"
2) "b"
`, out.String())
}

func TestScriptCollectsErrors(t *testing.T) {
	cli, out := newTestCli(OutputStandard)
	script := `AT missing
NOPE
SADD x
GET
`
	err := cli.RunScript(strings.NewReader(script))
	require.Error(t, err)

	errs := multierr.Errors(err)
	require.Len(t, errs, 3)
	assert.True(t, errors.Is(errs[0], sparse.ErrKeyNotFound))
	assert.True(t, errors.Is(errs[1], ErrUnknownCommand))
	assert.True(t, errors.Is(errs[2], ErrWrongArity))
	assert.Contains(t, errs[2].Error(), "line 4")

	assert.Equal(t, `(error) sparse: key not found: missing
(error) unknown command 'NOPE'
(integer) 1
(error) wrong number of arguments for 'get'
`, out.String())
}

func TestRepeatPrefix(t *testing.T) {
	cli, out := newTestCli(OutputStandard)
	require.NoError(t, cli.RunScript(strings.NewReader("3 SADD x\n")))
	assert.Equal(t, "(integer) 1\n(integer) 0\n(integer) 0\n", out.String())

	out.Reset()
	assert.Error(t, cli.RunScript(strings.NewReader("0 SADD x\n")))
	assert.Equal(t, 1, cli.set.Len())
}

func TestQuitStopsScript(t *testing.T) {
	cli, out := newTestCli(OutputStandard)
	require.NoError(t, cli.RunScript(strings.NewReader("SADD a\nquit\nSADD b\n")))
	assert.Equal(t, "(integer) 1\n", out.String())
	assert.False(t, cli.set.Contains("b"))
}

func TestRawOutput(t *testing.T) {
	cli, out := newTestCli(OutputRaw)
	require.NoError(t, cli.RunScript(strings.NewReader("SADD a b\nSMEMBERS\nSCARD\n")))
	assert.Equal(t, "2\na\nb\n2\n", out.String())
}

func TestRunPipe(t *testing.T) {
	cli, out := newTestCli(OutputStandard)
	var in bytes.Buffer
	writeCommand(t, &in, "SADD", "a", "b")
	in.WriteString("SCARD\r\n")
	writeCommand(t, &in, "NOPE")
	writeCommand(t, &in, "GET", "a")

	require.NoError(t, cli.RunPipe(&in))
	assert.Equal(t, ":2\r\n:2\r\n-ERR unknown command 'NOPE'\r\n_\r\n", out.String())
}

func TestRunPipeBooleanReplies(t *testing.T) {
	cli, out := newTestCli(OutputResp)
	var in bytes.Buffer
	writeCommand(t, &in, "SADD", "a")
	writeCommand(t, &in, "SISMEMBER", "a")
	writeCommand(t, &in, "SISMEMBER", "b")

	require.NoError(t, cli.RunPipe(&in))
	assert.Equal(t, ":1\r\n#t\r\n#f\r\n", out.String())
}

func TestRunPipeOversizedBlob(t *testing.T) {
	cli, out := newTestCli(OutputResp)
	err := cli.RunPipe(strings.NewReader("*1\r\n$9223372036854775807\r\nx\r\n"))
	assert.ErrorIs(t, err, resp.ErrProtocol)
	assert.Empty(t, out.String())
}

func TestRunPipeTruncated(t *testing.T) {
	cli, _ := newTestCli(OutputResp)
	err := cli.RunPipe(strings.NewReader("*2\r\n$4\r\nSADD\r\n"))
	assert.Error(t, err)
}

func TestExecIsCaseInsensitive(t *testing.T) {
	cli, _ := newTestCli(OutputStandard)
	reply, err := cli.Exec([]string{"sadd", "a"})
	require.NoError(t, err)
	assert.Equal(t, resp.Integer{Value: 1}, reply)

	_, err = cli.Exec(nil)
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestTableCommands(t *testing.T) {
	cli, out := newTestCli(OutputStandard)
	script := `RESERVE 100
SADD a
REHASH 500
REHASH x
`
	err := cli.RunScript(strings.NewReader(script))
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 1)
	assert.GreaterOrEqual(t, cli.set.Capacity(), 100)
	assert.Equal(t, 500, cli.set.SparseCapacity())
	assert.Equal(t, 500, cli.keys.SparseCapacity())
	assert.True(t, strings.HasPrefix(out.String(), "OK\n(integer) 1\nOK\n(error) "))

	out.Reset()
	require.NoError(t, cli.RunScript(strings.NewReader("SET k v\nFLUSHALL\nSCARD\nDBSIZE\n")))
	assert.Equal(t, "OK\nOK\n(integer) 0\n(integer) 0\n", out.String())
}

func TestInfoReportsAllocatorBytes(t *testing.T) {
	cli, out := newTestCli(OutputStandard)
	require.NoError(t, cli.RunScript(strings.NewReader("SADD a b\nSET k v\nINFO\n")))
	assert.Positive(t, cli.alloc.UsedBytes())

	info := out.String()
	assert.Contains(t, info, "# set\nsize:2\n")
	assert.Contains(t, info, "# keyset\nsize:1\n")
	assert.Contains(t, info, "dense_bytes:")
}

func TestHelp(t *testing.T) {
	cli, out := newTestCli(OutputStandard)
	require.NoError(t, cli.RunScript(strings.NewReader("HELP sadd\n")))
	assert.Contains(t, out.String(), "summary: Add members to the set")

	out.Reset()
	require.NoError(t, cli.RunScript(strings.NewReader("HELP\n")))
	for _, group := range []string{"@set", "@keyset", "@table"} {
		assert.Contains(t, out.String(), group)
	}
}

func TestGetDotfilePath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	t.Setenv(SparseCliHisFileEnv, "")
	assert.Equal(t, "/home/tester/.sparsecli_history", getDotfilePath(SparseCliHisFileEnv, SparseCliHisFileDefault))

	t.Setenv(SparseCliHisFileEnv, "/tmp/hist")
	assert.Equal(t, "/tmp/hist", getDotfilePath(SparseCliHisFileEnv, SparseCliHisFileDefault))

	t.Setenv(SparseCliHisFileEnv, "/dev/null")
	assert.Empty(t, getDotfilePath(SparseCliHisFileEnv, SparseCliHisFileDefault))
}
