// Package types is the shared vocabulary of the scheduler: Priority,
// ResourceRequirements, Job, Partition and their lifecycle states. Nothing
// here holds a lock or talks to the network — just data and the small
// derived calculations (idle capacity, fit checks) that read naturally as
// methods on the types themselves.
package types
