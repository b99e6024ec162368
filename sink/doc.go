// Package sink batches serialized walk lines before writing them to a shared
// output.
//
// Many workers write to one file. Each worker owns a BufferedSink and only
// the final write of a full buffer goes through the Destination's lock, which
// keeps contention proportional to the number of flushes rather than the
// number of walks.
//
//	dest := sink.NewDestination(file)
//	err := sink.With(dest, sink.DefaultCapacity, func(s *sink.BufferedSink) error {
//		return s.Add(w.CSV())
//	})
//
// With guarantees the final flush on every exit path.
package sink
