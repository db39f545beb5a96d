package container

import (
	"io"
)

// A Factory to create and manage containers through a concrete runtime
// backend. It also acts as the image provider for the node.
type Factory interface {
	Create(string, *ContainerOptions) (ContainerID, error)
	CopyToContainer(ContainerID, io.Reader, string) error
	Start(ContainerID) error
	Attach(ContainerID, io.Reader, io.Writer, io.Writer) error
	Destroy(ContainerID) error
	Exists(ContainerID) bool
	IsRunning(ContainerID) bool
	HasImage(string) bool
	PullImage(string) (io.ReadCloser, error)
	GetIPAddress(ContainerID) (string, error)
	GetMemoryMB(id ContainerID) (int64, error)
	GetLog(id ContainerID) (string, error)
	Ping() error
}

// ContainerOptions contains options for container creation.
type ContainerOptions struct {
	Cmd       []string
	Env       []string
	MemoryMB  int64
	CPUQuota  float64
	NetworkID string
}

type ContainerID = string
