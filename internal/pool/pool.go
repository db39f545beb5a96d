package pool

import (
	"errors"
	"log"
	"sync"

	"github.com/funcpod/funcpod/internal/container"
)

// ErrUnknownRuntimeClass is returned when a runtime class has never had a
// container registered. Callers treat it like an empty free set.
var ErrUnknownRuntimeClass = errors.New("no containers registered for runtime class")

// ContainerPool keeps track of the containers known to the node, partitioned
// by runtime class. Free containers can be claimed for reuse; claimed ones
// stay in the membership index until deregistered. The pool does pure
// bookkeeping: it never touches the containers themselves.
//
// All operations are safe for concurrent use. Each one is a short critical
// section over the two maps and never blocks on I/O.
type ContainerPool struct {
	mu        sync.Mutex
	sizeLimit int
	keepEmpty bool
	free      map[string]map[container.ContainerID]struct{}
	runtimes  map[container.ContainerID]string
}

// NewContainerPool creates a pool. A sizeLimit of 0 disables reuse entirely:
// nothing is ever retained as free. Any other value enables reuse; the pool
// does not cap the free sets itself, callers decide how many containers to
// register.
func NewContainerPool(sizeLimit int) *ContainerPool {
	return &ContainerPool{
		sizeLimit: sizeLimit,
		keepEmpty: sizeLimit == 0,
		free:      make(map[string]map[container.ContainerID]struct{}),
		runtimes:  make(map[container.ContainerID]string),
	}
}

// Register adds a container to the pool under the given runtime class. If
// claimed is false the container is immediately available for reuse.
// Registering an id that is already known under the same class is harmless.
func (p *ContainerPool) Register(runtimeClass string, id container.ContainerID, claimed bool) {
	if p.keepEmpty {
		return
	}
	log.Printf("Registering new container for runtime %s...", runtimeClass)

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.free[runtimeClass]; !ok {
		p.free[runtimeClass] = make(map[container.ContainerID]struct{})
	}
	if !claimed {
		p.free[runtimeClass][id] = struct{}{}
	}
	p.runtimes[id] = runtimeClass
}

// Deregister removes every trace of the container from the pool. It does not
// destroy the container; that is the caller's responsibility. Unknown ids
// are ignored.
func (p *ContainerPool) Deregister(id container.ContainerID) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runtimeClass, ok := p.runtimes[id]
	if !ok {
		return
	}
	delete(p.free[runtimeClass], id)
	delete(p.runtimes, id)
}

// HasAvailable reports whether a free container exists for the runtime
// class. A class that has never been registered yields ErrUnknownRuntimeClass.
func (p *ContainerPool) HasAvailable(runtimeClass string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	set, ok := p.free[runtimeClass]
	if !ok {
		return false, ErrUnknownRuntimeClass
	}
	return len(set) > 0, nil
}

// Claim atomically removes and returns an arbitrary free container for the
// runtime class. The second return value is false when none is available,
// which is a normal outcome and not an error. At most one caller obtains any
// given id.
func (p *ContainerPool) Claim(runtimeClass string) (container.ContainerID, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	set, ok := p.free[runtimeClass]
	if !ok || len(set) == 0 {
		return "", false
	}
	for id := range set {
		delete(set, id)
		log.Printf("Claiming container for runtime %s: %s...", runtimeClass, id)
		return id, true
	}
	return "", false
}

// Release puts a claimed container back into the free set of its recorded
// runtime class. Releasing an unknown (e.g. already deregistered) id is a
// no-op.
func (p *ContainerPool) Release(id container.ContainerID) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runtimeClass, ok := p.runtimes[id]
	if !ok {
		return
	}
	p.free[runtimeClass][id] = struct{}{}
}

// Drain empties every free set and removes the drained ids from the
// membership index, returning them so the caller can destroy the containers.
// Claimed containers are left untouched.
func (p *ContainerPool) Drain() []container.ContainerID {
	p.mu.Lock()
	defer p.mu.Unlock()

	var drained []container.ContainerID
	for runtimeClass, set := range p.free {
		for id := range set {
			drained = append(drained, id)
			delete(p.runtimes, id)
		}
		p.free[runtimeClass] = make(map[container.ContainerID]struct{})
	}
	return drained
}

// FreeCount returns, for each known runtime class, the number of containers
// currently available for reuse.
func (p *ContainerPool) FreeCount() map[string]int {
	p.mu.Lock()
	defer p.mu.Unlock()

	counts := make(map[string]int)
	for runtimeClass, set := range p.free {
		counts[runtimeClass] = len(set)
	}
	return counts
}

// SizeLimit returns the configured pool size.
func (p *ContainerPool) SizeLimit() int {
	return p.sizeLimit
}
