// Command memctl drives the emulated memory manager from the command line:
// it replays allocation traces, runs concurrent admission workloads and
// walks through the reference scenarios.
package main

func main() {
	execute()
}
