// Package config loads graphwalk settings.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// GRAPHWALK_* environment variables. The command line applies explicitly
// set flags on top.
//
//	input: data/dbpedia_ml.nt
//	walks: 10
//	length: 15
//	threads: 8
//	server:
//	  enabled: true
//	  port: 9090
//	  store: sqlite://runs.db
//
// Nested fields use the section name in the variable, e.g.
// GRAPHWALK_SERVER_PORT=9090.
package config
