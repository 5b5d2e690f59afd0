package mockset

import "fmt"

// ID is an opaque, generation-qualified handle to a mounted mock inside
// one server's mock set. It stays valid for the lifetime of the set,
// except across a Reset: Reset increments the set's generation, so any
// ID obtained before it becomes stale and accessing it panics rather than
// silently operating on the wrong (or a since-removed) mock.
type ID struct {
	index      int
	generation uint64
}

// staleIDMessage is returned verbatim inside a panic when an ID is used
// against a set whose generation has moved past it.
const staleIDMessage = "mockwire: the mock you are trying to access is no longer active. " +
	"It has been deleted from the active set via Reset - you should not hold on to a MockId after calling Reset!"

func stalePanic() {
	panic(fmt.Errorf("%s", staleIDMessage))
}
