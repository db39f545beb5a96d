package container

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
)

// Handle drives the lifecycle of a single container instance. The manager
// only mutates a container through this interface; tests provide their own
// implementations.
type Handle interface {
	ID() ContainerID
	SetID(ContainerID)
	RuntimeClass() string
	Image() string
	IsCreated() bool
	IsRunning() bool
	Create(networkID string) error
	Bootstrap() error
	Start(input io.Reader, stdout io.Writer, stderr io.Writer) error
	Delete() error
}

// WorkloadContainer is the Factory-backed Handle used for real invocations.
type WorkloadContainer struct {
	factory      Factory
	id           ContainerID
	runtimeClass string
	image        string
	codeTar      string // base64-encoded tar with the workload code
	opts         *ContainerOptions
	reused       bool
}

func NewWorkloadContainer(f Factory, runtimeClass string, image string, codeTar string, opts *ContainerOptions) *WorkloadContainer {
	if opts == nil {
		opts = &ContainerOptions{}
	}
	return &WorkloadContainer{
		factory:      f,
		runtimeClass: runtimeClass,
		image:        image,
		codeTar:      codeTar,
		opts:         opts,
	}
}

func (c *WorkloadContainer) ID() ContainerID {
	return c.id
}

func (c *WorkloadContainer) SetID(id ContainerID) {
	c.id = id
	c.reused = id != ""
}

// Reused reports whether the container was taken from the pool rather than
// freshly created.
func (c *WorkloadContainer) Reused() bool {
	return c.reused
}

func (c *WorkloadContainer) RuntimeClass() string {
	return c.runtimeClass
}

func (c *WorkloadContainer) Image() string {
	return c.image
}

func (c *WorkloadContainer) IsCreated() bool {
	if c.id == "" {
		return false
	}
	return c.factory.Exists(c.id)
}

func (c *WorkloadContainer) IsRunning() bool {
	if c.id == "" {
		return false
	}
	return c.factory.IsRunning(c.id)
}

func (c *WorkloadContainer) Create(networkID string) error {
	opts := *c.opts
	opts.NetworkID = networkID
	id, err := c.factory.Create(c.image, &opts)
	if err != nil {
		return err
	}
	c.id = id
	return nil
}

// Bootstrap stages the workload code into the container.
func (c *WorkloadContainer) Bootstrap() error {
	if c.codeTar == "" {
		return nil
	}
	decodedCode, err := base64.StdEncoding.DecodeString(c.codeTar)
	if err != nil {
		return fmt.Errorf("invalid workload code archive: %v", err)
	}
	return c.factory.CopyToContainer(c.id, bytes.NewReader(decodedCode), "/app/")
}

// Start attaches the given streams (any of them may be nil) and makes sure
// the container is running. A reused container is already running and is
// only re-attached.
func (c *WorkloadContainer) Start(input io.Reader, stdout io.Writer, stderr io.Writer) error {
	if input != nil || stdout != nil || stderr != nil {
		if err := c.factory.Attach(c.id, input, stdout, stderr); err != nil {
			return err
		}
	}
	if c.factory.IsRunning(c.id) {
		return nil
	}
	return c.factory.Start(c.id)
}

// Delete destroys the underlying container. Deleting a handle that has no
// container (or whose container is already gone) is a no-op.
func (c *WorkloadContainer) Delete() error {
	if c.id == "" || !c.factory.Exists(c.id) {
		return nil
	}
	return c.factory.Destroy(c.id)
}
