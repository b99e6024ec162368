package walk

import (
	"math/rand/v2"

	"github.com/smallnest/graphwalk/kg"
)

// maxPrealloc caps capacity reserved up front; longer walks grow by append.
const maxPrealloc = 64

// Sample performs one random walk of up to length entities from start. At
// each step an outgoing edge is chosen uniformly at random; the walk stops
// early at a node without outgoing edges, which is not an error. A length
// below 1 is treated as 1.
//
// The result depends only on the graph, the arguments and rng's state.
func Sample(g kg.Neighborer, start string, length int, rng *rand.Rand) Walk {
	if length < 1 {
		length = 1
	}
	size := maxPrealloc
	if length <= maxPrealloc/2 {
		size = 2*length - 1
	}
	w := make(Walk, 1, size)
	w[0] = start

	current := start
	for i := 0; i < length-1; i++ {
		edges := g.Neighbors(current)
		if len(edges) == 0 {
			break
		}
		e := edges[0]
		if len(edges) > 1 {
			e = edges[rng.IntN(len(edges))]
		}
		w = append(w, e.Predicate, e.Target)
		current = e.Target
	}
	return w
}
