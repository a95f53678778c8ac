// Command yamcc compiles a program in a small subset of C to assembly for
// a stack-based virtual machine.
package main

import "os"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
