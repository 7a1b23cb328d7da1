package cmd

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fzft/go-sparse-set/resp"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrWrongArity     = errors.New("wrong number of arguments")
)

// commandDocs documentation info used for help command.
type commandDocs struct {
	name    string
	args    string
	summary string
	group   string
	// arity counts the command name; a negative value is a minimum.
	arity int
}

type cliCommand struct {
	docs commandDocs
	proc func(cli *SparseCli, argv []string) (resp.Node, error)
}

var commandTable = []cliCommand{
	{commandDocs{"SADD", "member [member ...]", "Add members to the set", "set", -2}, saddCommand},
	{commandDocs{"SREM", "member [member ...]", "Remove members from the set", "set", -2}, sremCommand},
	{commandDocs{"SISMEMBER", "member", "Determine if a value is a member of the set", "set", 2}, sismemberCommand},
	{commandDocs{"SMEMBERS", "", "Get all members in dense order", "set", 1}, smembersCommand},
	{commandDocs{"SREVMEMBERS", "", "Get all members in reverse dense order", "set", 1}, srevmembersCommand},
	{commandDocs{"SCARD", "", "Get the number of members", "set", 1}, scardCommand},
	{commandDocs{"SCLEAR", "", "Remove every member", "set", 1}, sclearCommand},

	{commandDocs{"SET", "key value", "Set the value of a key, creating it if needed", "keyset", 3}, setCommand},
	{commandDocs{"SETNX", "key value", "Set the value of a key only if it is absent", "keyset", 3}, setnxCommand},
	{commandDocs{"GET", "key", "Get the value of a key", "keyset", 2}, getCommand},
	{commandDocs{"AT", "key", "Get the value of a key, failing if it is absent", "keyset", 2}, atCommand},
	{commandDocs{"APPEND", "key value", "Append a value to a key, creating it empty if needed", "keyset", 3}, appendCommand},
	{commandDocs{"DEL", "key [key ...]", "Delete keys", "keyset", -2}, delCommand},
	{commandDocs{"EXISTS", "key", "Determine if a key exists", "keyset", 2}, existsCommand},
	{commandDocs{"KEYS", "", "Get all keys in dense order", "keyset", 1}, keysCommand},
	{commandDocs{"GETALL", "", "Get all keys and values in dense order", "keyset", 1}, getallCommand},
	{commandDocs{"DBSIZE", "", "Get the number of keys", "keyset", 1}, dbsizeCommand},

	{commandDocs{"REHASH", "buckets", "Rebuild both sparse indexes with the given capacity", "table", 2}, rehashCommand},
	{commandDocs{"RESERVE", "count", "Make room for count elements in both containers", "table", 2}, reserveCommand},
	{commandDocs{"FLUSHALL", "", "Clear both containers", "table", 1}, flushallCommand},
	{commandDocs{"INFO", "", "Show container statistics", "table", 1}, infoCommand},
	{commandDocs{"DEMO", "", "Run the sparse set walkthrough", "table", 1}, demoCommand},
	// HELP's proc is set in init: helpCommand reads commandTable and
	// commands, so referencing it here would be an initialization cycle.
	{commandDocs{"HELP", "[command]", "Show help", "table", -1}, nil},
}

var commands map[string]*cliCommand

func init() {
	commands = make(map[string]*cliCommand, len(commandTable))
	for i := range commandTable {
		if commandTable[i].docs.name == "HELP" {
			commandTable[i].proc = helpCommand
		}
		commands[commandTable[i].docs.name] = &commandTable[i]
	}
}

func commandNames() []string {
	names := make([]string, 0, len(commandTable))
	for _, c := range commandTable {
		names = append(names, c.docs.name)
	}
	sort.Strings(names)
	return names
}

func lookupCommand(argv []string) (*cliCommand, error) {
	c, ok := commands[strings.ToUpper(argv[0])]
	if !ok {
		return nil, fmt.Errorf("%w '%s'", ErrUnknownCommand, argv[0])
	}
	if (c.docs.arity > 0 && len(argv) != c.docs.arity) || (c.docs.arity < 0 && len(argv) < -c.docs.arity) {
		return nil, fmt.Errorf("%w for '%s'", ErrWrongArity, strings.ToLower(c.docs.name))
	}
	return c, nil
}

func parseCount(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("value is not a non-negative integer: %q", arg)
	}
	return n, nil
}

/* ----------------------------- set commands ----------------------------- */

func saddCommand(cli *SparseCli, argv []string) (resp.Node, error) {
	return resp.Integer{Value: cli.set.InsertAll(argv[1:]...)}, nil
}

func sremCommand(cli *SparseCli, argv []string) (resp.Node, error) {
	removed := 0
	for _, m := range argv[1:] {
		removed += cli.set.Erase(m)
	}
	return resp.Integer{Value: removed}, nil
}

// sismemberCommand replies with a RESP3 boolean on the wire and with an
// integer on the console, like redis-cli does for RESP2.
func sismemberCommand(cli *SparseCli, argv []string) (resp.Node, error) {
	if cli.config.Output == OutputResp {
		return resp.Boolean{Value: cli.set.Contains(argv[1])}, nil
	}
	return resp.Integer{Value: cli.set.Count(argv[1])}, nil
}

func smembersCommand(cli *SparseCli, _ []string) (resp.Node, error) {
	elems := make([]resp.Node, 0, cli.set.Len())
	for it := cli.set.Iter(); it.Next(); {
		elems = append(elems, resp.BlobString{Value: it.Value()})
	}
	return resp.Set{Elements: elems}, nil
}

func srevmembersCommand(cli *SparseCli, _ []string) (resp.Node, error) {
	elems := make([]resp.Node, 0, cli.set.Len())
	for it := cli.set.ReverseIter(); it.Next(); {
		elems = append(elems, resp.BlobString{Value: it.Value()})
	}
	return resp.Array{Elements: elems}, nil
}

func scardCommand(cli *SparseCli, _ []string) (resp.Node, error) {
	return resp.Integer{Value: cli.set.Len()}, nil
}

func sclearCommand(cli *SparseCli, _ []string) (resp.Node, error) {
	cli.set.Clear()
	return resp.OK, nil
}

/* ---------------------------- keyset commands --------------------------- */

func setCommand(cli *SparseCli, argv []string) (resp.Node, error) {
	*cli.keys.Ref(argv[1]) = argv[2]
	return resp.OK, nil
}

func setnxCommand(cli *SparseCli, argv []string) (resp.Node, error) {
	if _, ok := cli.keys.Insert(argv[1], argv[2]); ok {
		return resp.Integer{Value: 1}, nil
	}
	return resp.Integer{Value: 0}, nil
}

func getCommand(cli *SparseCli, argv []string) (resp.Node, error) {
	v, ok := cli.keys.Get(argv[1])
	if !ok {
		return resp.Nil, nil
	}
	return resp.BlobString{Value: v}, nil
}

func atCommand(cli *SparseCli, argv []string) (resp.Node, error) {
	v, err := cli.keys.At(argv[1])
	if err != nil {
		return nil, err
	}
	return resp.BlobString{Value: v}, nil
}

func appendCommand(cli *SparseCli, argv []string) (resp.Node, error) {
	ref := cli.keys.Ref(argv[1])
	*ref += argv[2]
	return resp.Integer{Value: len(*ref)}, nil
}

func delCommand(cli *SparseCli, argv []string) (resp.Node, error) {
	removed := 0
	for _, k := range argv[1:] {
		removed += cli.keys.Erase(k)
	}
	return resp.Integer{Value: removed}, nil
}

func existsCommand(cli *SparseCli, argv []string) (resp.Node, error) {
	return resp.Integer{Value: cli.keys.Count(argv[1])}, nil
}

func keysCommand(cli *SparseCli, _ []string) (resp.Node, error) {
	return resp.Strings(cli.keys.Keys()), nil
}

func getallCommand(cli *SparseCli, _ []string) (resp.Node, error) {
	entries := make([]resp.MapEntry, 0, cli.keys.Len())
	cli.keys.Range(func(k, v string) bool {
		entries = append(entries, resp.MapEntry{Key: resp.BlobString{Value: k}, Value: resp.BlobString{Value: v}})
		return true
	})
	return resp.Map{Entries: entries}, nil
}

func dbsizeCommand(cli *SparseCli, _ []string) (resp.Node, error) {
	return resp.Integer{Value: cli.keys.Len()}, nil
}

/* ---------------------------- table commands ---------------------------- */

func rehashCommand(cli *SparseCli, argv []string) (resp.Node, error) {
	n, err := parseCount(argv[1])
	if err != nil {
		return nil, err
	}
	cli.set.Rehash(n)
	cli.keys.Rehash(n)
	return resp.OK, nil
}

func reserveCommand(cli *SparseCli, argv []string) (resp.Node, error) {
	n, err := parseCount(argv[1])
	if err != nil {
		return nil, err
	}
	cli.set.Reserve(n)
	cli.keys.Reserve(n)
	return resp.OK, nil
}

func flushallCommand(cli *SparseCli, _ []string) (resp.Node, error) {
	cli.set.Clear()
	cli.keys.Clear()
	return resp.OK, nil
}

func infoCommand(cli *SparseCli, _ []string) (resp.Node, error) {
	var b strings.Builder
	writeSection := func(name string, size, capacity, sparseCapacity int, load float64) {
		fmt.Fprintf(&b, "# %s\n", name)
		fmt.Fprintf(&b, "size:%d\n", size)
		fmt.Fprintf(&b, "dense_capacity:%d\n", capacity)
		fmt.Fprintf(&b, "sparse_capacity:%d\n", sparseCapacity)
		fmt.Fprintf(&b, "load_factor:%.4f\n", load)
	}
	writeSection("set", cli.set.Len(), cli.set.Capacity(), cli.set.SparseCapacity(), cli.set.LoadFactor())
	writeSection("keyset", cli.keys.Len(), cli.keys.Capacity(), cli.keys.SparseCapacity(), cli.keys.LoadFactor())
	fmt.Fprintf(&b, "# memory\n")
	fmt.Fprintf(&b, "dense_bytes:%d\n", cli.alloc.UsedBytes())
	fmt.Fprintf(&b, "dense_allocs:%d\n", cli.alloc.Allocs())
	fmt.Fprintf(&b, "dense_frees:%d", cli.alloc.Frees())
	return resp.VerbatimString{Format: "txt", Value: b.String()}, nil
}

func demoCommand(_ *SparseCli, _ []string) (resp.Node, error) {
	var b strings.Builder
	if err := RunDemo(&b); err != nil {
		return nil, err
	}
	return resp.VerbatimString{Format: "txt", Value: strings.TrimSuffix(b.String(), "\n")}, nil
}

func helpCommand(_ *SparseCli, argv []string) (resp.Node, error) {
	var b strings.Builder
	if len(argv) > 1 {
		for i, name := range argv[1:] {
			c, ok := commands[strings.ToUpper(name)]
			if !ok {
				return nil, fmt.Errorf("%w '%s'", ErrUnknownCommand, name)
			}
			if i > 0 {
				b.WriteString("\n\n")
			}
			fmt.Fprintf(&b, "  %s %s\n  summary: %s\n  group: %s", c.docs.name, c.docs.args, c.docs.summary, c.docs.group)
		}
		return resp.VerbatimString{Format: "txt", Value: b.String()}, nil
	}

	group := ""
	for i, c := range commandTable {
		if c.docs.group != group {
			if i > 0 {
				b.WriteString("\n")
			}
			group = c.docs.group
			fmt.Fprintf(&b, "@%s\n", group)
		}
		fmt.Fprintf(&b, "  %-12s %s\n", c.docs.name, c.docs.summary)
	}
	b.WriteString("\nType \"HELP <command>\" for details, \"quit\" to exit.")
	return resp.VerbatimString{Format: "txt", Value: b.String()}, nil
}
