// Package server serves random-walk batches over TCP.
//
// The loop is deliberately single-threaded: it accepts a connection, reads
// one request, takes the next node batch from a scheduler.Scheduler, writes
// distinct walks for every node of the batch into a fresh CSV file under
// Options.OutputDir, replies with the file's absolute path and closes the
// connection before accepting the next one. Generation itself may use
// several workers through runner.Run.
//
// Artifacts are named walks_<unix-ms>_<id>.csv, where id is the first eight
// characters of the run's UUID. When Options.Store is set, every artifact is
// recorded as a store.RunRecord after the reply is sent.
//
// Requests are read without deadline and in-flight generation is never
// cancelled; cancelling the context passed to Serve only stops accepting.
package server
