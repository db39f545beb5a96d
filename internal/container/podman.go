package container

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	nettypes "github.com/containers/common/libnetwork/types"
	"github.com/containers/podman/v4/libpod/define"
	"github.com/containers/podman/v4/pkg/bindings"
	"github.com/containers/podman/v4/pkg/bindings/containers"
	"github.com/containers/podman/v4/pkg/bindings/images"
	"github.com/containers/podman/v4/pkg/bindings/system"
	"github.com/containers/podman/v4/pkg/specgen"
	"github.com/funcpod/funcpod/internal/config"
)

type PodmanFactory struct {
	ctx context.Context
}

func InitPodmanContainerFactory() *PodmanFactory {
	ctx, err := bindings.NewConnection(context.Background(), config.PODMAN_SOCKET)
	if err != nil {
		panic(err)
	}

	return &PodmanFactory{ctx}
}

func (cf *PodmanFactory) Create(image string, opts *ContainerOptions) (ContainerID, error) {
	s := specgen.NewSpecGenerator(image, false)
	s.Image = image
	s.Command = opts.Cmd
	s.EnvMerge = opts.Env
	s.Terminal = false
	s.Stdin = true
	if opts.NetworkID != "" {
		s.Networks = map[string]nettypes.PerNetworkOptions{opts.NetworkID: {}}
	}
	r, err := containers.CreateWithSpec(cf.ctx, s, new(containers.CreateOptions))
	return r.ID, err
}

func (cf *PodmanFactory) CopyToContainer(contID ContainerID, content io.Reader, destPath string) error {
	copyFunc, err := containers.CopyFromArchive(cf.ctx, contID, destPath, content)
	if err != nil {
		return err
	}
	return copyFunc()
}

func (cf *PodmanFactory) Start(contID ContainerID) error {
	err := containers.Start(cf.ctx, contID, nil)
	if err != nil {
		log.Printf("The container %s could not be started: %v", contID, err)
		return err
	}
	running := define.ContainerStateRunning
	_, err = containers.Wait(cf.ctx, contID, new(containers.WaitOptions).WithCondition([]define.ContainerStatus{running}))
	return err
}

func (cf *PodmanFactory) Attach(contID ContainerID, input io.Reader, stdout io.Writer, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	attachReady := make(chan bool, 1)
	done := make(chan error, 1)
	go func() {
		done <- containers.Attach(cf.ctx, contID, input, stdout, stderr, attachReady, nil)
	}()

	select {
	case <-attachReady:
		return nil
	case err := <-done:
		return err
	}
}

func (cf *PodmanFactory) Destroy(contID ContainerID) error {
	// force set to true causes running container to be killed (and then removed)
	err := containers.Stop(cf.ctx, contID, new(containers.StopOptions).WithTimeout(0))
	if err != nil {
		log.Printf("The container %s could not be stopped: %v", contID, err)
		return err
	}
	_, err = containers.Remove(cf.ctx, contID, new(containers.RemoveOptions))
	return err
}

func (cf *PodmanFactory) Exists(contID ContainerID) bool {
	exists, err := containers.Exists(cf.ctx, contID, new(containers.ExistsOptions))
	if err != nil {
		return false
	}
	return exists
}

func (cf *PodmanFactory) IsRunning(contID ContainerID) bool {
	contJson, err := containers.Inspect(cf.ctx, contID, new(containers.InspectOptions))
	if err != nil {
		return false
	}
	return contJson.State.Running
}

func (cf *PodmanFactory) HasImage(image string) bool {
	exists, err := images.Exists(cf.ctx, image, new(images.ExistsOptions))
	if err != nil || !exists {
		return false
	}

	// We have the image, but we may need to refresh it
	if config.GetBool(config.FACTORY_REFRESH_IMAGES, false) && !isImageRefreshed(image) {
		return false
	}
	return true
}

// PullImage adapts the bindings to the progress stream contract: one JSON
// document is emitted per pulled image, and a failed pull surfaces as the
// stream error.
func (cf *PodmanFactory) PullImage(image string) (io.ReadCloser, error) {
	pr, pw := io.Pipe()
	go func() {
		pulled, err := images.Pull(cf.ctx, image, new(images.PullOptions))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		enc := json.NewEncoder(pw)
		for _, id := range pulled {
			enc.Encode(map[string]string{"status": "pulled", "id": id})
		}
		pw.Close()
	}()
	markImageRefreshed(image)
	return pr, nil
}

func (cf *PodmanFactory) GetIPAddress(contID ContainerID) (string, error) {
	contJson, err := containers.Inspect(cf.ctx, contID, new(containers.InspectOptions))
	if err != nil {
		return "", err
	}
	return contJson.NetworkSettings.IPAddress, nil
}

func (cf *PodmanFactory) GetMemoryMB(contID ContainerID) (int64, error) {
	contJson, err := containers.Inspect(cf.ctx, contID, new(containers.InspectOptions))
	if err != nil {
		return -1, err
	}
	return contJson.HostConfig.Memory / 1048576, nil
}

func (cf *PodmanFactory) GetLog(contID ContainerID) (string, error) {
	stdoutCh := make(chan string, 128)
	stderrCh := make(chan string, 128)
	opts := new(containers.LogOptions).WithStdout(true).WithStderr(true).WithFollow(false)

	done := make(chan error, 1)
	go func() {
		done <- containers.Logs(cf.ctx, contID, opts, stdoutCh, stderrCh)
	}()

	var sb strings.Builder
	for {
		select {
		case line := <-stdoutCh:
			sb.WriteString(line)
		case line := <-stderrCh:
			sb.WriteString(line)
		case err := <-done:
			if err != nil {
				return "no logs", fmt.Errorf("can't get the logs: %v", err)
			}
			// drain what is still buffered
			for {
				select {
				case line := <-stdoutCh:
					sb.WriteString(line)
				case line := <-stderrCh:
					sb.WriteString(line)
				default:
					return fmt.Sprintf("%s\n", sb.String()), nil
				}
			}
		}
	}
}

func (cf *PodmanFactory) Ping() error {
	_, err := system.Version(cf.ctx, new(system.VersionOptions))
	return err
}
