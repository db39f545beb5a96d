package container

import (
	"encoding/base64"
	"io"
	"testing"

	"github.com/funcpod/funcpod/utils"
)

// stubFactory implements Factory over in-memory state.
type stubFactory struct {
	nextID    ContainerID
	existing  map[ContainerID]bool
	running   map[ContainerID]bool
	copied    []string // destination paths of CopyToContainer calls
	started   []ContainerID
	attached  []ContainerID
	destroyed []ContainerID
}

func newStubFactory() *stubFactory {
	return &stubFactory{
		nextID:   "stub-1",
		existing: make(map[ContainerID]bool),
		running:  make(map[ContainerID]bool),
	}
}

func (f *stubFactory) Create(image string, opts *ContainerOptions) (ContainerID, error) {
	id := f.nextID
	f.existing[id] = true
	return id, nil
}

func (f *stubFactory) CopyToContainer(id ContainerID, content io.Reader, destPath string) error {
	f.copied = append(f.copied, destPath)
	return nil
}

func (f *stubFactory) Start(id ContainerID) error {
	f.started = append(f.started, id)
	f.running[id] = true
	return nil
}

func (f *stubFactory) Attach(id ContainerID, input io.Reader, stdout io.Writer, stderr io.Writer) error {
	f.attached = append(f.attached, id)
	return nil
}

func (f *stubFactory) Destroy(id ContainerID) error {
	f.destroyed = append(f.destroyed, id)
	delete(f.existing, id)
	delete(f.running, id)
	return nil
}

func (f *stubFactory) Exists(id ContainerID) bool    { return f.existing[id] }
func (f *stubFactory) IsRunning(id ContainerID) bool { return f.running[id] }
func (f *stubFactory) HasImage(image string) bool    { return true }

func (f *stubFactory) PullImage(image string) (io.ReadCloser, error) {
	return nil, nil
}

func (f *stubFactory) GetIPAddress(id ContainerID) (string, error) { return "127.0.0.1", nil }
func (f *stubFactory) GetMemoryMB(id ContainerID) (int64, error)   { return 128, nil }
func (f *stubFactory) GetLog(id ContainerID) (string, error)       { return "", nil }
func (f *stubFactory) Ping() error                                 { return nil }

func TestWorkloadContainerLifecycle(t *testing.T) {
	f := newStubFactory()
	c := NewWorkloadContainer(f, "python310", "funcpod/runtime-python310", "", nil)

	utils.AssertFalse(t, c.IsCreated())
	utils.AssertNil(t, c.Create(""))
	utils.AssertEquals(t, ContainerID("stub-1"), c.ID())
	utils.AssertTrue(t, c.IsCreated())
	utils.AssertFalse(t, c.IsRunning())

	utils.AssertNil(t, c.Start(nil, nil, nil))
	utils.AssertTrue(t, c.IsRunning())

	utils.AssertNil(t, c.Delete())
	utils.AssertSliceEquals(t, []ContainerID{"stub-1"}, f.destroyed)
}

func TestBootstrapStagesWorkloadCode(t *testing.T) {
	f := newStubFactory()
	codeTar := base64.StdEncoding.EncodeToString([]byte("fake tar content"))
	c := NewWorkloadContainer(f, "python310", "funcpod/runtime-python310", codeTar, nil)

	utils.AssertNil(t, c.Create(""))
	utils.AssertNil(t, c.Bootstrap())
	utils.AssertSliceEquals(t, []string{"/app/"}, f.copied)
}

func TestBootstrapWithoutCode(t *testing.T) {
	f := newStubFactory()
	c := NewWorkloadContainer(f, "custom", "example/hello:v2", "", nil)

	utils.AssertNil(t, c.Create(""))
	utils.AssertNil(t, c.Bootstrap())
	utils.AssertEmptySlice(t, f.copied)
}

func TestBootstrapRejectsMalformedCode(t *testing.T) {
	f := newStubFactory()
	c := NewWorkloadContainer(f, "python310", "funcpod/runtime-python310", "not base64!!", nil)

	utils.AssertNil(t, c.Create(""))
	utils.AssertNonNil(t, c.Bootstrap())
}

func TestStartAttachesStreamsOnce(t *testing.T) {
	f := newStubFactory()
	c := NewWorkloadContainer(f, "python310", "funcpod/runtime-python310", "", nil)
	utils.AssertNil(t, c.Create(""))

	// no streams requested: started but not attached
	utils.AssertNil(t, c.Start(nil, nil, nil))
	utils.AssertEmptySlice(t, f.attached)
	utils.AssertSliceEquals(t, []ContainerID{"stub-1"}, f.started)

	// a running container is re-attached but not restarted
	utils.AssertNil(t, c.Start(nil, io.Discard, io.Discard))
	utils.AssertSliceEquals(t, []ContainerID{"stub-1"}, f.attached)
	utils.AssertSliceEquals(t, []ContainerID{"stub-1"}, f.started)
}

func TestDeleteWithoutContainer(t *testing.T) {
	f := newStubFactory()
	c := NewWorkloadContainer(f, "python310", "funcpod/runtime-python310", "", nil)

	// no id assigned yet
	utils.AssertNil(t, c.Delete())
	utils.AssertEmptySlice(t, f.destroyed)

	// already destroyed underneath
	utils.AssertNil(t, c.Create(""))
	f.Destroy(c.ID())
	f.destroyed = nil
	utils.AssertNil(t, c.Delete())
	utils.AssertEmptySlice(t, f.destroyed)
}

func TestSetIDMarksReuse(t *testing.T) {
	f := newStubFactory()
	c := NewWorkloadContainer(f, "python310", "funcpod/runtime-python310", "", nil)
	utils.AssertFalse(t, c.Reused())

	c.SetID("pooled-1")
	utils.AssertTrue(t, c.Reused())

	c.SetID("")
	utils.AssertFalse(t, c.Reused())
	utils.AssertNil(t, c.Create(""))
	utils.AssertFalse(t, c.Reused())
}
