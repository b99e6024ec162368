// graphwalk samples random walks over an N-Triples knowledge graph.
//
// Usage:
//
//	graphwalk [-f graph.nt] [-o walks.csv] [-w 10] [-l 15] [-s 1.0] [-t 4]
//	graphwalk -S [-p 8080] [--store sqlite://runs.db]
//	graphwalk client [-H 127.0.0.1] [-p 8080] [-w 10] [-l 15]
//	graphwalk bench [-f graph.nt] [--node IRI] [-w 10000] [-l 15]
//	graphwalk runs --store sqlite://runs.db --session ID
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
