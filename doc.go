// graphwalk - Random Walks over Knowledge Graphs in Go
//
// graphwalk loads a knowledge graph of subject-predicate-object triples and
// samples random walks over it. A walk alternates entities and relations:
//
//	<Berlin>,<capitalOf>,<Germany>,<memberOf>,<EU>
//
// Walks are the training corpus for graph embedding models such as RDF2Vec.
// They are written as CSV lines, either in one batch run over a sample of
// start nodes or on demand by a TCP server that writes one file per request.
//
// # Quick Start
//
// Install the command:
//
//	go install github.com/smallnest/graphwalk/cmd/graphwalk@latest
//
// Write 10 walks of up to 15 entities from every node:
//
//	graphwalk -f data/dbpedia_ml.nt -o walks.csv -w 10 -l 15 -t 8
//
// Serve walks on port 8080 and request a batch:
//
//	graphwalk -S -f data/dbpedia_ml.nt -p 8080 --store sqlite://runs.db
//	graphwalk client -p 8080 -w 10 -l 15
//
// The wire protocol is a single line, GET_RANDOM_WALKS <numWalks> <walkLength>,
// answered with the absolute path of the written file or "ERROR: <message>".
//
// Library use:
//
//	g, _, err := kg.LoadFile(ctx, "graph.nt")
//	if err != nil {
//		return err
//	}
//	res, err := runner.Run(ctx, g, g.StartNodes(), runner.Config{
//		Workers:      4,
//		WalksPerNode: 10,
//		WalkLength:   15,
//	}, out)
//
// # Package Structure
//
// ### kg/
// The in-memory adjacency graph and the N-Triples style loader.
//
// ### walk/
// Single walk sampling, distinct-walk generation and seeded random sources.
//
// ### sink/
// Buffered line writers that flush whole batches to a shared destination.
//
// ### runner/
// Parallel generation across worker goroutines with progress listeners.
//
// ### scheduler/
// Start-node batches for server requests, cycling through the graph.
//
// ### protocol/, server/
// The request line codec, a client, and the single-threaded TCP server.
//
// ### store/
// Records of files written by the server, with memory, file, sqlite,
// postgres and redis backends.
//
// ### config/, log/
// YAML and environment configuration, and leveled logging on kataras/golog.
//
// # Configuration
//
// Settings are layered: built-in defaults, an optional YAML file (--config),
// GRAPHWALK_* environment variables, then command-line flags.
package graphwalk // import "github.com/smallnest/graphwalk"
