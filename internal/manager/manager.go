package manager

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/funcpod/funcpod/internal/config"
	"github.com/funcpod/funcpod/internal/container"
	"github.com/funcpod/funcpod/internal/metrics"
	"github.com/funcpod/funcpod/internal/pool"
	"github.com/funcpod/funcpod/utils"
)

// DefaultPoolSize is the number of idle containers kept around when reuse is
// enabled and no explicit limit is configured.
const DefaultPoolSize = 4

// ErrWarmNotSupported is returned when a caller asks to reuse one specific
// already-started container. That facility does not exist; requesting it is
// a usage error, not a transient failure.
var ErrWarmNotSupported = errors.New("the facility to invoke warm containers does not exist")

// ErrImageUnavailable is returned when a workload image is available neither
// locally nor from the remote registry.
var ErrImageUnavailable = errors.New("container image unavailable")

// ContainerManager orchestrates the full life cycle of workload containers:
// image acquisition, reuse through the pool, creation, startup and eventual
// destruction. It can serve multiple invocations in parallel; all shared
// state lives in the pool, which serializes access internally.
type ContainerManager struct {
	factory   container.Factory
	pool      *pool.ContainerPool
	networkID string
	skipPull  bool
	poolSize  int
}

// NewContainerManager builds a manager configured from the node
// configuration. Reuse is only enabled together with skipping redundant
// pulls: a forced pull on every invocation makes warm containers pointless.
func NewContainerManager(factory container.Factory) *ContainerManager {
	skipPull := config.GetBool(config.SKIP_IMAGE_PULL, false)
	poolSize := 0
	if skipPull {
		poolSize = config.GetInt(config.POOL_SIZE, DefaultPoolSize)
	}
	return NewContainerManagerWithOptions(factory,
		config.GetString(config.CONTAINER_NETWORK, ""), skipPull, poolSize)
}

func NewContainerManagerWithOptions(factory container.Factory, networkID string, skipPull bool, poolSize int) *ContainerManager {
	return &ContainerManager{
		factory:   factory,
		pool:      pool.NewContainerPool(poolSize),
		networkID: networkID,
		skipPull:  skipPull,
		poolSize:  poolSize,
	}
}

// Factory exposes the runtime backend, e.g. for talking to the executor of a
// started container.
func (m *ContainerManager) Factory() container.Factory {
	return m.factory
}

// Run takes a handle through the full startup sequence: acquire the image,
// claim a pooled container or create a fresh one, stage the workload code
// and start it with the given streams. On success the container is running
// and remains the caller's responsibility until Stop.
func (m *ContainerManager) Run(h container.Handle, input io.Reader, warm bool, stdout io.Writer, stderr io.Writer) error {
	if warm {
		return ErrWarmNotSupported
	}

	if err := m.acquireImage(h.Image()); err != nil {
		return err
	}

	if id, found := m.pool.Claim(h.RuntimeClass()); found {
		h.SetID(id)
		if !h.IsRunning() {
			// The container stopped behind our back. Discard it and fall
			// through to creating a fresh one.
			m.pool.Deregister(id)
			if err := h.Delete(); err != nil {
				log.Printf("Could not delete stale container %s: %v", id, err)
			}
			h.SetID("")
		}
	}

	if !h.IsCreated() {
		if err := h.Create(m.networkID); err != nil {
			return err
		}
		if err := h.Bootstrap(); err != nil {
			return err
		}
		m.pool.Register(h.RuntimeClass(), h.ID(), true)
		metrics.AddColdStart()
	} else {
		metrics.AddWarmStart()
	}

	return h.Start(input, stdout, stderr)
}

// Stop releases the container used by a completed invocation, making it
// eligible for reuse. When reuse is disabled the container is destroyed
// right away. Stop never fails on its own account.
func (m *ContainerManager) Stop(h container.Handle) {
	m.pool.Release(h.ID())
	if m.poolSize == 0 {
		if err := h.Delete(); err != nil {
			log.Printf("Could not delete container %s: %v", h.ID(), err)
		}
	}
}

// Warm creates, bootstraps and starts a container for the handle and leaves
// it free in the pool, so that a future invocation finds it ready. It is a
// no-op when reuse is disabled.
func (m *ContainerManager) Warm(h container.Handle) error {
	if m.poolSize == 0 {
		return nil
	}

	if err := m.acquireImage(h.Image()); err != nil {
		return err
	}
	if err := h.Create(m.networkID); err != nil {
		return err
	}
	if err := h.Bootstrap(); err != nil {
		return err
	}
	if err := h.Start(nil, nil, nil); err != nil {
		return err
	}
	m.pool.Register(h.RuntimeClass(), h.ID(), false)
	return nil
}

// acquireImage makes sure the workload image is usable on this host. Pulling
// is skipped for the built-in runtime images, which only exist locally, and
// when a local copy is available and redundant pulls are disabled. A failed
// pull is fatal only if there is no local copy to fall back on.
func (m *ContainerManager) acquireImage(image string) error {
	isImageLocal := m.factory.HasImage(image)

	if (isImageLocal && m.skipPull) || strings.HasPrefix(image, container.LocalImagePrefix) {
		log.Printf("Requested to skip pulling image %s", image)
		return nil
	}

	if err := m.PullImage(image, nil); err != nil {
		if !isImageLocal {
			return fmt.Errorf("could not find image %s locally and failed to pull it: %w", image, ErrImageUnavailable)
		}
		log.Printf("Failed to download a newer %s image. Invoking with the already downloaded image.", image)
	}
	return nil
}

// PullImage asks the factory to pull the image with the given name,
// rendering one dot per reported progress event on the stream. The stream
// defaults to stderr.
func (m *ContainerManager) PullImage(image string, stream *utils.StreamWriter) error {
	if stream == nil {
		stream = utils.NewStreamWriter(os.Stderr)
	}

	progress, err := m.factory.PullImage(image)
	if err != nil {
		metrics.AddImagePullFailure()
		return fmt.Errorf("pull of image %s failed (%v): %w", image, err, ErrImageUnavailable)
	}
	defer progress.Close()
	metrics.AddImagePull()

	stream.WriteString(fmt.Sprintf("\nFetching %s container image...", image))

	// Each progress event is a JSON document describing one step of the
	// pull. The only consequential signal is an embedded error.
	decoder := json.NewDecoder(progress)
	for {
		var event struct {
			Error string `json:"error"`
		}
		if err := decoder.Decode(&event); err == io.EOF {
			break
		} else if err != nil {
			metrics.AddImagePullFailure()
			return fmt.Errorf("pull of image %s failed (%v): %w", image, err, ErrImageUnavailable)
		}
		if event.Error != "" {
			metrics.AddImagePullFailure()
			return fmt.Errorf("pull of image %s failed (%s): %w", image, event.Error, ErrImageUnavailable)
		}
		stream.WriteString(".")
		stream.Flush()
	}

	stream.WriteString("\n")
	return nil
}

// HasImage reports whether the image is available locally.
func (m *ContainerManager) HasImage(image string) bool {
	return m.factory.HasImage(image)
}

// IsRuntimeReachable checks whether the container runtime daemon is up. The
// node cannot serve invocations without it.
func (m *ContainerManager) IsRuntimeReachable() bool {
	return m.factory.Ping() == nil
}

// PoolStatus returns the number of free containers per runtime class.
func (m *ContainerManager) PoolStatus() map[string]int {
	return m.pool.FreeCount()
}

// Pool exposes the underlying container pool.
func (m *ContainerManager) Pool() *pool.ContainerPool {
	return m.pool
}

// Shutdown destroys every idle pooled container, usually on termination.
func (m *ContainerManager) Shutdown() {
	for _, id := range m.pool.Drain() {
		log.Printf("Removing container with ID %s", id)
		if err := m.factory.Destroy(id); err != nil {
			log.Printf("Could not remove container %s: %v", id, err)
		}
	}
}
