package resp

const CRLF string = "\r\n"

// Types equivalent to RESP version 2
const (
	TypeArray   byte = '*'
	TypeBlob    byte = '$'
	TypeSimple  byte = '+'
	TypeError   byte = '-'
	TypeInteger byte = ':'
)

// Types introduced by RESP3
const (
	TypeNull     byte = '_'
	TypeBoolean  byte = '#'
	TypeVerbatim byte = '='
	TypeMap      byte = '%'
	TypeSet      byte = '~'
)

// Node is a reply produced by a console command.
type Node interface {
}

type BlobString struct {
	Value string
}

type SimpleString struct {
	Value string
}

type Error struct {
	Message string
}

type Integer struct {
	Value int
}

type Null struct {
}

type Boolean struct {
	Value bool
}

// VerbatimString is text meant to be shown as is, such as INFO output.
type VerbatimString struct {
	Format string
	Value  string
}

// Array represents an array in RESP
type Array struct {
	Elements []Node
}

// Set is an unordered collection; elements are written in the order given.
type Set struct {
	Elements []Node
}

// Map keeps its entries ordered so that replies are reproducible.
type Map struct {
	Entries []MapEntry
}

type MapEntry struct {
	Key   Node
	Value Node
}

var (
	OK  = SimpleString{Value: "OK"}
	Nil = Null{}
)

// Strings wraps values as an Array of blob strings.
func Strings(values []string) Array {
	elems := make([]Node, len(values))
	for i, v := range values {
		elems[i] = BlobString{Value: v}
	}
	return Array{Elements: elems}
}
