// Package protocol implements the line protocol of the walk server.
//
// A client connects, writes one request line and reads until the server
// closes the connection:
//
//	GET_RANDOM_WALKS <numWalks> <walkLength>
//
// Both numbers are optional. The reply is either the absolute path of the
// CSV artifact the server wrote or a message starting with "ERROR:".
//
// The request carries no terminator, so servers read it with a single read
// of at most MaxRequestSize bytes.
package protocol
