package workload

import (
	"errors"
	"fmt"

	"github.com/funcpod/funcpod/internal/container"
)

// A Workload deployed on the node.
type Workload struct {
	Name            string
	RuntimeClass    string // example: python310
	Handler         string // example: "module.function_name"
	MemoryMB        int64  // MB
	CPUDemand       float64
	TarWorkloadCode string // base64-encoded tar with the workload code
	CustomImage     string // used if the custom runtime class is chosen
}

var ErrInvalidRuntimeClass = errors.New("invalid runtime class")

func (w *Workload) String() string {
	return w.Name
}

// Image resolves the container image the workload runs on.
func (w *Workload) Image() (string, error) {
	if w.RuntimeClass == container.CUSTOM_RUNTIME {
		if w.CustomImage == "" {
			return "", fmt.Errorf("workload %s: custom runtime without an image: %w", w.Name, ErrInvalidRuntimeClass)
		}
		return w.CustomImage, nil
	}
	info, ok := container.RuntimeToInfo[w.RuntimeClass]
	if !ok {
		return "", fmt.Errorf("workload %s: %s: %w", w.Name, w.RuntimeClass, ErrInvalidRuntimeClass)
	}
	return info.Image, nil
}

// InvocationCmd returns the command the in-container executor runs for the
// workload handler. Custom runtimes carry their own command in the image env.
func (w *Workload) InvocationCmd() []string {
	if w.RuntimeClass == container.CUSTOM_RUNTIME {
		return nil
	}
	return container.RuntimeToInfo[w.RuntimeClass].InvocationCmd
}
