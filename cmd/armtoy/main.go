// Command armtoy is the toolchain's CLI: it assembles and runs a program
// file, or drops into an interactive REPL, against a single processor
// instance.
package main

func main() {
	Execute()
}
