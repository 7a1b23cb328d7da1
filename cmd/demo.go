package cmd

import (
	"bufio"
	"fmt"
	"io"

	"github.com/fzft/go-sparse-set/sparse"
)

// RunDemo walks through the basic Set operations and prints each step to w.
func RunDemo(w io.Writer) error {
	bw := bufio.NewWriter(w)

	ints := sparse.New[int]()
	ints.Insert(10)
	ints.Emplace(func() int { return 20 })
	ints.Insert(30)

	fmt.Fprint(bw, "Elements in the set: ")
	ints.Range(func(v int) bool {
		fmt.Fprintf(bw, "%d ", v)
		return true
	})
	fmt.Fprintln(bw)

	if pos, ok := ints.Find(20); ok {
		fmt.Fprintf(bw, "Found element: %d\n", ints.At(pos))
	}

	ints.Erase(20)

	fmt.Fprint(bw, "Elements after erasing 20: ")
	for it := ints.Iter(); it.Next(); {
		fmt.Fprintf(bw, "%d ", it.Value())
	}
	fmt.Fprintln(bw)

	strs := sparse.New[string]()
	strs.Insert("hello")
	strs.Emplace(func() string { return "world" })

	fmt.Fprint(bw, "String elements: ")
	for _, s := range strs.Values() {
		fmt.Fprintf(bw, "%s ", s)
	}
	fmt.Fprintln(bw)

	return bw.Flush()
}
