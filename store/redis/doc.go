// Package redis provides a Redis-backed store.RunStore.
//
// Each record is stored as JSON under "<prefix>run:<id>" and its ID is added
// to the set "<prefix>session:<session>:runs", which List and Clear read.
// With a TTL both keys expire; List skips index entries whose record has
// already expired.
//
//	s := redis.NewRedisRunStore(redis.RedisOptions{
//		Addr:   "localhost:6379",
//		Prefix: "graphwalk:",
//		TTL:    24 * time.Hour,
//	})
//	defer s.Close()
//
// The CLI builds this store from a URL such as
// redis://:password@localhost:6379/0?prefix=walks:&ttl=24h.
package redis
