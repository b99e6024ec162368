package runner

import (
	"math/rand/v2"

	"github.com/smallnest/graphwalk/kg"
)

// Partition splits nodes into exactly workers contiguous shards of
// ceil(len(nodes)/workers) nodes each. The last non-empty shard may be
// smaller and trailing shards are empty when there are more workers than
// nodes. Concatenating the shards in order yields nodes. workers < 1 is
// treated as 1. Shards alias nodes.
func Partition(nodes []string, workers int) [][]string {
	if workers < 1 {
		workers = 1
	}
	shards := make([][]string, workers)
	per := (len(nodes) + workers - 1) / workers
	for i := range shards {
		start := min(i*per, len(nodes))
		end := min(start+per, len(nodes))
		shards[i] = nodes[start:end:end]
	}
	return shards
}

// SelectStartNodes returns the graph's eligible origins, shuffled and cut to
// rate of their number when rate < 1. rate >= 1 returns all of them in
// sorted order.
func SelectStartNodes(g *kg.Graph, rate float64, rng *rand.Rand) []string {
	nodes := g.StartNodes()
	if rate >= 1 {
		return nodes
	}
	if rate <= 0 {
		return nodes[:0]
	}
	rng.Shuffle(len(nodes), func(i, j int) {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	})
	return nodes[:int(float64(len(nodes))*rate)]
}
