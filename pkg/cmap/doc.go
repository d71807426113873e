// Package cmap provides a string-keyed concurrent map split into shards.
//
// Each shard has its own RWMutex, so lookups for unrelated keys do not
// contend. The RESP server keeps its per-client rate limiters here.
//
//	m := cmap.New[*rate.Limiter]()
//	lim, _ := m.GetOrCreate(ip, func() *rate.Limiter { return rate.NewLimiter(10, 10) })
package cmap
