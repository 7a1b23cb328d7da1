package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/fzft/go-sparse-set/deps/linenoise"
	"github.com/fzft/go-sparse-set/resp"
	"github.com/fzft/go-sparse-set/sparse"
)

var (
	SparseCliHisFileEnv     = "SPARSECLI_HISTFILE"
	SparseCliHisFileDefault = ".sparsecli_history"
	SparseCliRCFileEnv      = "SPARSECLI_RCFILE"
	SparseCliRCFileDefault  = ".sparseclirc"
)

var errQuit = errors.New("quit")

type OutputMode uint8

const (
	OutputStandard OutputMode = iota
	OutputRaw
	OutputResp
)

type SparseCliCfg struct {
	Prompt string
	// HistoryFile and RCFile override the dotfile lookup when set.
	HistoryFile string
	RCFile      string
	Output      OutputMode
}

// SparseCli is a console over one Set[string] and one KeySet[string,
// string]. Every dense store of both containers draws from one accounting
// allocator so INFO can report their memory.
type SparseCli struct {
	config *SparseCliCfg
	set    *sparse.Set[string]
	keys   *sparse.KeySet[string, string]
	alloc  *sparse.AccountingAllocator[string]
	out    io.Writer
	logger *zap.Logger
}

func NewSparseCli(config *SparseCliCfg, out io.Writer, logger *zap.Logger, opts ...sparse.Option) *SparseCli {
	if logger == nil {
		logger = zap.NewNop()
	}
	alloc := sparse.NewAccountingAllocator[string]()
	opts = append(opts, sparse.WithAllocator[string](alloc), sparse.WithLogger(logger))
	return &SparseCli{
		config: config,
		set:    sparse.New[string](opts...),
		keys:   sparse.NewKeySet[string, string](opts...),
		alloc:  alloc,
		out:    out,
		logger: logger,
	}
}

// Exec runs one command. Command failures come back as errors, never as
// resp.Error nodes.
func (cli *SparseCli) Exec(argv []string) (resp.Node, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("%w ''", ErrUnknownCommand)
	}
	c, err := lookupCommand(argv)
	if err != nil {
		return nil, err
	}
	startTime := time.Now()
	reply, err := c.proc(cli, argv)
	cli.logger.Debug("command executed",
		zap.Strings("argv", argv),
		zap.Duration("elapsed", time.Since(startTime)),
		zap.Error(err))
	return reply, err
}

// Run reads commands interactively when in is a terminal and as a script
// otherwise.
func (cli *SparseCli) Run(in *os.File) error {
	if isatty.IsTerminal(in.Fd()) || isatty.IsCygwinTerminal(in.Fd()) {
		return cli.repl()
	}
	return cli.RunScript(in)
}

// RunScript executes r line by line. A failing line does not stop the
// script; all failures are returned together.
func (cli *SparseCli) RunScript(r io.Reader) error {
	var errs error
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		err := cli.execLine(scanner.Text())
		if errors.Is(err, errQuit) {
			break
		}
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("line %d: %w", lineNo, err))
		}
	}
	return multierr.Append(errs, scanner.Err())
}

// RunPipe reads RESP or inline commands from r and writes RESP3 replies.
// Command failures are encoded as error replies; only malformed input or a
// write failure ends the loop with an error.
func (cli *SparseCli) RunPipe(r io.Reader) error {
	br := bufio.NewReader(r)
	for {
		argv, err := resp.ReadCommand(br)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if len(argv) == 0 {
			continue
		}
		reply, err := cli.Exec(argv)
		if err != nil {
			reply = resp.Error{Message: "ERR " + err.Error()}
		}
		if err := resp.Encode(cli.out, reply); err != nil {
			return err
		}
	}
}

func (cli *SparseCli) repl() error {
	ln := linenoise.New()
	defer ln.Close()
	ln.SetCommands(commandNames())

	historyFile := cli.config.HistoryFile
	if historyFile == "" {
		historyFile = getDotfilePath(SparseCliHisFileEnv, SparseCliHisFileDefault)
	}
	if historyFile != "" {
		if err := ln.HistoryLoad(historyFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			cli.logger.Warn("failed to load history", zap.String("file", historyFile), zap.Error(err))
		}
	}
	if err := cli.loadPreferences(); err != nil {
		cli.logger.Warn("failed to load rc file", zap.Error(err))
	}

	for {
		line, err := ln.Prompt(cli.config.Prompt)
		if err == liner.ErrPromptAborted || err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)

		if strings.EqualFold(strings.TrimSpace(line), "clear") {
			linenoise.ClearScreen(cli.out)
			continue
		}
		if err := cli.execLine(line); errors.Is(err, errQuit) {
			break
		}
	}

	if historyFile != "" {
		if err := ln.HistorySave(historyFile); err != nil {
			cli.logger.Warn("failed to save history", zap.String("file", historyFile), zap.Error(err))
		}
	}
	return nil
}

// execLine runs one console line, honouring a leading repeat count such as
// "3 SADD a", and prints every reply. It returns the last command error.
func (cli *SparseCli) execLine(line string) error {
	argv := strings.Fields(line)
	if len(argv) == 0 {
		return nil
	}

	// check if we have a repeat command option and need to skip the first arg
	repeat := 1
	if n, err := strconv.Atoi(argv[0]); err == nil && len(argv) > 1 {
		if n <= 0 {
			err := errors.New("invalid repeat command option value")
			cli.writeReply(resp.Error{Message: err.Error()})
			return err
		}
		repeat = n
		argv = argv[1:]
	}

	if strings.EqualFold(argv[0], "quit") || strings.EqualFold(argv[0], "exit") {
		return errQuit
	}

	var lastErr error
	for i := 0; i < repeat; i++ {
		reply, err := cli.Exec(argv)
		if err != nil {
			lastErr = err
			reply = resp.Error{Message: err.Error()}
		}
		cli.writeReply(reply)
	}
	return lastErr
}

func (cli *SparseCli) writeReply(reply resp.Node) {
	switch cli.config.Output {
	case OutputRaw:
		fmt.Fprintln(cli.out, resp.FormatRaw(reply))
	case OutputResp:
		resp.Encode(cli.out, reply)
	default:
		fmt.Fprintln(cli.out, resp.Format(reply))
	}
}

// loadPreferences runs the rc file, if any, before the first prompt.
func (cli *SparseCli) loadPreferences() error {
	rcFile := cli.config.RCFile
	if rcFile == "" {
		rcFile = getDotfilePath(SparseCliRCFileEnv, SparseCliRCFileDefault)
	}
	if rcFile == "" {
		return nil
	}
	fp, err := os.Open(rcFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer fp.Close()
	return cli.RunScript(fp)
}

func getDotfilePath(envOverride, dotFilename string) string {
	var dotPath string

	path := os.Getenv(envOverride)
	if path != "" {
		if path == "/dev/null" {
			return ""
		}
		dotPath = path
	} else {
		home := os.Getenv("HOME")
		if home != "" {
			dotPath = fmt.Sprintf("%s/%s", home, dotFilename)
		}
	}
	return dotPath
}
