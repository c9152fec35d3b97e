// Command sfcindex is a thin demonstration CLI over the tiered
// space-filling-curve index: it reads a small JSON description of a
// strategy's dimensions and precision, then prints the insertion ids for
// a data tuple or the query ranges for a box. It exists to exercise the
// core end to end, not to replace the storage/raster/CLI adapters the
// core treats as out-of-scope collaborators.
package main

func main() {
	execute()
}
