package workload

import (
	"errors"
	"testing"

	"github.com/funcpod/funcpod/internal/container"
	"github.com/funcpod/funcpod/utils"
)

func TestImageForKnownRuntimeClass(t *testing.T) {
	w := &Workload{Name: "hello", RuntimeClass: "python310"}
	image, err := w.Image()
	utils.AssertNil(t, err)
	utils.AssertEquals(t, container.RuntimeToInfo["python310"].Image, image)
}

func TestImageForUnknownRuntimeClass(t *testing.T) {
	w := &Workload{Name: "hello", RuntimeClass: "cobol85"}
	_, err := w.Image()
	utils.AssertTrue(t, errors.Is(err, ErrInvalidRuntimeClass))
}

func TestImageForCustomRuntime(t *testing.T) {
	w := &Workload{Name: "hello", RuntimeClass: container.CUSTOM_RUNTIME,
		CustomImage: "example/hello:v2"}
	image, err := w.Image()
	utils.AssertNil(t, err)
	utils.AssertEquals(t, "example/hello:v2", image)

	// a custom runtime needs an image
	w.CustomImage = ""
	_, err = w.Image()
	utils.AssertTrue(t, errors.Is(err, ErrInvalidRuntimeClass))
}

func TestInvocationCmd(t *testing.T) {
	w := &Workload{Name: "hello", RuntimeClass: "python310"}
	utils.AssertSliceEquals(t, container.RuntimeToInfo["python310"].InvocationCmd, w.InvocationCmd())

	custom := &Workload{Name: "hello", RuntimeClass: container.CUSTOM_RUNTIME,
		CustomImage: "example/hello:v2"}
	utils.AssertEmptySlice(t, custom.InvocationCmd())
}

func TestRegistryStoreAndGet(t *testing.T) {
	w := &Workload{Name: "reg-test-1", RuntimeClass: "python310", Handler: "main.handler"}
	utils.AssertNil(t, StoreWorkload(w))
	defer DeleteWorkload(w.Name)

	got, found := GetWorkload(w.Name)
	utils.AssertTrue(t, found)
	utils.AssertEquals(t, w.Handler, got.Handler)

	// the returned workload is a copy
	got.Handler = "changed"
	got2, _ := GetWorkload(w.Name)
	utils.AssertEquals(t, "main.handler", got2.Handler)
}

func TestRegistryRejectsInvalidWorkloads(t *testing.T) {
	utils.AssertNonNil(t, StoreWorkload(&Workload{RuntimeClass: "python310"}))
	utils.AssertNonNil(t, StoreWorkload(&Workload{Name: "bad", RuntimeClass: "cobol85"}))

	_, found := GetWorkload("bad")
	utils.AssertFalse(t, found)
}

func TestRegistryDelete(t *testing.T) {
	w := &Workload{Name: "reg-test-2", RuntimeClass: "python310"}
	utils.AssertNil(t, StoreWorkload(w))
	DeleteWorkload(w.Name)

	_, found := GetWorkload(w.Name)
	utils.AssertFalse(t, found)

	// deleting twice is harmless
	DeleteWorkload(w.Name)
}

func TestRegistryGetAllNames(t *testing.T) {
	w := &Workload{Name: "reg-test-3", RuntimeClass: "python310"}
	utils.AssertNil(t, StoreWorkload(w))
	defer DeleteWorkload(w.Name)

	names := GetAllNames()
	found := false
	for _, name := range names {
		if name == w.Name {
			found = true
		}
	}
	utils.AssertTrueMsg(t, found, "stored workload missing from listing")
}
