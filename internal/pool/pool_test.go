package pool

import (
	"errors"
	"sync"
	"testing"

	"github.com/funcpod/funcpod/internal/container"
	"github.com/funcpod/funcpod/utils"
)

func TestRegisterThenClaim(t *testing.T) {
	p := NewContainerPool(4)
	p.Register("python310", "cont-1", false)

	id, found := p.Claim("python310")
	utils.AssertTrue(t, found)
	utils.AssertEquals(t, container.ContainerID("cont-1"), id)

	// the free set is now empty
	_, found = p.Claim("python310")
	utils.AssertFalse(t, found)
}

func TestClaimUnknownRuntimeClass(t *testing.T) {
	p := NewContainerPool(4)
	_, found := p.Claim("nodejs17")
	utils.AssertFalse(t, found)
}

func TestRegisterClaimed(t *testing.T) {
	p := NewContainerPool(4)
	p.Register("python310", "cont-1", true)

	// a claimed registration is tracked but not reusable yet
	available, err := p.HasAvailable("python310")
	utils.AssertNil(t, err)
	utils.AssertFalse(t, available)

	// once released it becomes claimable
	p.Release("cont-1")
	id, found := p.Claim("python310")
	utils.AssertTrue(t, found)
	utils.AssertEquals(t, container.ContainerID("cont-1"), id)
}

func TestReleaseClaimRoundTrip(t *testing.T) {
	p := NewContainerPool(4)
	p.Register("python310", "cont-1", false)

	id, found := p.Claim("python310")
	utils.AssertTrue(t, found)

	p.Release(id)
	id2, found := p.Claim("python310")
	utils.AssertTrue(t, found)
	utils.AssertEquals(t, id, id2)
}

func TestDeregisterThenRelease(t *testing.T) {
	p := NewContainerPool(4)
	p.Register("python310", "cont-1", false)
	p.Deregister("cont-1")

	// releasing a deregistered id must not resurrect it
	p.Release("cont-1")
	available, err := p.HasAvailable("python310")
	utils.AssertNil(t, err)
	utils.AssertFalse(t, available)
}

func TestDeregisterUnknown(t *testing.T) {
	p := NewContainerPool(4)
	p.Deregister("never-seen")
	p.Release("never-seen")
}

func TestHasAvailableUnknownRuntimeClass(t *testing.T) {
	p := NewContainerPool(4)
	available, err := p.HasAvailable("python310")
	utils.AssertFalse(t, available)
	utils.AssertTrue(t, errors.Is(err, ErrUnknownRuntimeClass))
}

func TestZeroSizePoolKeepsNothing(t *testing.T) {
	p := NewContainerPool(0)
	p.Register("python310", "cont-1", false)
	p.Register("nodejs17", "cont-2", true)

	_, err := p.HasAvailable("python310")
	utils.AssertTrue(t, errors.Is(err, ErrUnknownRuntimeClass))
	_, found := p.Claim("python310")
	utils.AssertFalse(t, found)
	utils.AssertEmptySlice(t, p.Drain())
}

func TestFreeSetIsNotCapped(t *testing.T) {
	// a nonzero size only enables reuse, it does not bound the free sets
	p := NewContainerPool(1)
	p.Register("python310", "cont-1", false)
	p.Register("python310", "cont-2", false)
	p.Register("python310", "cont-3", true)
	p.Release("cont-3")

	utils.AssertEquals(t, 3, p.FreeCount()["python310"])
	utils.AssertEquals(t, 1, p.SizeLimit())
}

func TestDrain(t *testing.T) {
	p := NewContainerPool(4)
	p.Register("python310", "cont-1", false)
	p.Register("python310", "cont-2", false)
	p.Register("nodejs17", "cont-3", true)

	drained := p.Drain()
	utils.AssertEquals(t, 2, len(drained))

	// free sets are empty, the claimed container is untouched
	available, err := p.HasAvailable("python310")
	utils.AssertNil(t, err)
	utils.AssertFalse(t, available)
	p.Release("cont-3")
	id, found := p.Claim("nodejs17")
	utils.AssertTrue(t, found)
	utils.AssertEquals(t, container.ContainerID("cont-3"), id)
}

func TestFreeCount(t *testing.T) {
	p := NewContainerPool(4)
	p.Register("python310", "cont-1", false)
	p.Register("python310", "cont-2", false)
	p.Register("nodejs17", "cont-3", true)

	counts := p.FreeCount()
	utils.AssertEquals(t, 2, counts["python310"])
	utils.AssertEquals(t, 0, counts["nodejs17"])
}

func TestConcurrentClaims(t *testing.T) {
	const nThreads = 20
	const nFree = 5

	p := NewContainerPool(nFree)
	ids := []container.ContainerID{"c-0", "c-1", "c-2", "c-3", "c-4"}
	for _, id := range ids {
		p.Register("python310", id, false)
	}

	claimed := make(chan container.ContainerID, nThreads)
	var wg sync.WaitGroup
	for i := 0; i < nThreads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if id, found := p.Claim("python310"); found {
				claimed <- id
			}
		}()
	}
	wg.Wait()
	close(claimed)

	// exactly nFree claims succeed and no id is handed out twice
	seen := make(map[container.ContainerID]bool)
	for id := range claimed {
		utils.AssertFalseMsg(t, seen[id], "container claimed twice")
		seen[id] = true
	}
	utils.AssertEquals(t, nFree, len(seen))
}
