// Package scheduler rotates start nodes across repeated walk requests.
//
// A Scheduler keeps the set of nodes served in the current cycle. Each
// NextBatch call draws a shuffled batch from the nodes not yet served and
// marks it used; once 90% of the eligible nodes have been served the set is
// cleared and a new cycle begins. The residual 10% stays unreset so calls near
// full utilization do not keep shuffling a nearly empty pool.
//
// NextBatch is safe for concurrent use.
package scheduler
