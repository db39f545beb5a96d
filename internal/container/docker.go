package container

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/funcpod/funcpod/internal/config"
)

type DockerFactory struct {
	cli *client.Client
	ctx context.Context
}

func InitDockerContainerFactory() *DockerFactory {
	ctx := context.Background()
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		panic(err)
	}

	return &DockerFactory{cli, ctx}
}

func (cf *DockerFactory) Create(image string, opts *ContainerOptions) (ContainerID, error) {
	contResources := container.Resources{Memory: opts.MemoryMB * 1048576} // convert to bytes
	if opts.CPUQuota > 0.0 {
		contResources.CPUPeriod = 50000 // 50ms
		contResources.CPUQuota = (int64)(50000.0 * opts.CPUQuota)
	}

	var netConfig *network.NetworkingConfig
	if opts.NetworkID != "" {
		netConfig = &network.NetworkingConfig{
			EndpointsConfig: map[string]*network.EndpointSettings{
				opts.NetworkID: {},
			},
		}
	}

	resp, err := cf.cli.ContainerCreate(cf.ctx, &container.Config{
		Image:     image,
		Cmd:       opts.Cmd,
		Env:       opts.Env,
		Tty:       false,
		OpenStdin: true,
	}, &container.HostConfig{Resources: contResources}, netConfig, nil, "")
	if err != nil {
		return "", err
	}

	return resp.ID, nil
}

func (cf *DockerFactory) CopyToContainer(contID ContainerID, content io.Reader, destPath string) error {
	return cf.cli.CopyToContainer(cf.ctx, contID, destPath, content, types.CopyToContainerOptions{})
}

func (cf *DockerFactory) Start(contID ContainerID) error {
	if err := cf.cli.ContainerStart(cf.ctx, contID, types.ContainerStartOptions{}); err != nil {
		return err
	}

	return nil
}

// Attach connects the given streams to the container. Output is demuxed and
// pumped in the background until the container stops or the connection is
// dropped.
func (cf *DockerFactory) Attach(contID ContainerID, input io.Reader, stdout io.Writer, stderr io.Writer) error {
	resp, err := cf.cli.ContainerAttach(cf.ctx, contID, types.ContainerAttachOptions{
		Stream: true,
		Stdin:  input != nil,
		Stdout: stdout != nil,
		Stderr: stderr != nil,
	})
	if err != nil {
		return err
	}

	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	go func() {
		defer resp.Close()
		if _, err := stdcopy.StdCopy(stdout, stderr, resp.Reader); err != nil {
			log.Printf("Output stream for container %s interrupted: %v", contID, err)
		}
	}()

	if input != nil {
		go func() {
			io.Copy(resp.Conn, input)
			resp.CloseWrite()
		}()
	}

	return nil
}

func (cf *DockerFactory) Destroy(contID ContainerID) error {
	// force set to true causes running container to be killed (and then
	// removed)
	return cf.cli.ContainerRemove(cf.ctx, contID, types.ContainerRemoveOptions{Force: true})
}

func (cf *DockerFactory) Exists(contID ContainerID) bool {
	_, err := cf.cli.ContainerInspect(cf.ctx, contID)
	return err == nil
}

func (cf *DockerFactory) IsRunning(contID ContainerID) bool {
	contJson, err := cf.cli.ContainerInspect(cf.ctx, contID)
	if err != nil {
		return false
	}
	return contJson.State.Running
}

var mutex = sync.Mutex{}

func (cf *DockerFactory) HasImage(image string) bool {
	mutex.Lock()
	list, err := cf.cli.ImageList(context.TODO(), types.ImageListOptions{
		All:     false,
		Filters: filters.Args{},
	})
	mutex.Unlock()
	if err != nil {
		fmt.Printf("image list error: %v\n", err)
		return false
	}
	for _, summary := range list {
		if len(summary.RepoTags) > 0 && strings.HasPrefix(summary.RepoTags[0], image) {
			// We have the image, but we may need to refresh it
			if config.GetBool(config.FACTORY_REFRESH_IMAGES, false) && !isImageRefreshed(image) {
				return false
			}
			return true
		}
	}
	return false
}

// PullImage starts a pull and returns the progress stream reported by the
// daemon, one JSON document per line.
func (cf *DockerFactory) PullImage(image string) (io.ReadCloser, error) {
	pullResp, err := cf.cli.ImagePull(cf.ctx, image, types.ImagePullOptions{})
	if err != nil {
		return nil, err
	}
	markImageRefreshed(image)
	return pullResp, nil
}

func (cf *DockerFactory) GetIPAddress(contID ContainerID) (string, error) {
	contJson, err := cf.cli.ContainerInspect(cf.ctx, contID)
	if err != nil {
		return "", err
	}
	return contJson.NetworkSettings.IPAddress, nil
}

func (cf *DockerFactory) GetMemoryMB(contID ContainerID) (int64, error) {
	contJson, err := cf.cli.ContainerInspect(cf.ctx, contID)
	if err != nil {
		return -1, err
	}
	return contJson.HostConfig.Memory / 1048576, nil
}

func (cf *DockerFactory) GetLog(contID ContainerID) (string, error) {
	logsReader, err := cf.cli.ContainerLogs(cf.ctx, contID, types.ContainerLogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Since:      "",
		Until:      "",
		Timestamps: false,
		Follow:     false,
		Tail:       "",
		Details:    false,
	})
	if err != nil {
		return "no logs", fmt.Errorf("can't get the logs: %v", err)
	}
	logs, err := io.ReadAll(logsReader)
	if err != nil {
		return "no logs", fmt.Errorf("can't read the logs: %v", err)
	}
	return fmt.Sprintf("%s\n", logs), nil
}

func (cf *DockerFactory) Ping() error {
	_, err := cf.cli.Ping(cf.ctx)
	return err
}
