package scheduler

import "hash/fnv"

// stableHash returns a deterministic, run-independent hash of id. Node
// assignment depends on this being reproducible across process restarts
// for the same job id, which a seeded or process-global hash would not
// guarantee.
func stableHash(id string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return h.Sum32()
}
