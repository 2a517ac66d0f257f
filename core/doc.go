// Package core implements the fork-join job scheduler: a fixed-capacity
// pool of 16-bit-addressed job records, a per-worker work-stealing deque,
// and the parent/child/continuation/finish protocol that lets a tree of
// jobs be built, started, and waited on across a pool of worker
// goroutines.
package core
