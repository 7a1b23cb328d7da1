// Package bench compares sparse.Set and sparse.KeySet against the builtin
// map and the chained db.HashTable. It holds benchmarks only.
package bench
