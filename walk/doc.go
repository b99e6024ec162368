// Package walk samples random walks over a kg.Graph.
//
// A Walk starts at its origin node and alternates predicate and target
// tokens: [origin, p1, n1, p2, n2, ...]. A walk requested with length L holds
// at most L entities, so at most 2L-1 tokens; it is shorter when it reaches a
// node without outgoing edges.
//
// Sample draws a single walk. Distinct draws a batch for one origin, avoiding
// repeated walks within the batch on a bounded budget of attempts.
//
// All randomness comes from the *rand.Rand passed in. Generators are not safe
// for concurrent use, so every worker creates its own with NewSource and
// WorkerSeed; a fixed seed makes sampling reproducible.
package walk
