// Package kg holds the knowledge graph that random walks run over.
//
// A Graph maps each subject to its ordered list of outgoing (predicate,
// object) edges. It is assembled once by a Builder, usually through Load or
// LoadFile, and is read-only afterwards so any number of walk workers can
// share it without synchronization.
//
// # Input format
//
// One triple per line, whitespace separated:
//
//	<http://dbpedia.org/resource/Go> <http://dbpedia.org/ontology/designer> <http://dbpedia.org/resource/Rob_Pike> .
//
// Empty lines and lines beginning with '#' are ignored, and a trailing '.'
// on the object is stripped. Lines that do not yield three tokens are
// reported in the LoadReport and skipped; they never abort a load.
package kg
