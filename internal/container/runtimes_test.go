package container

import (
	"fmt"
	"sync"
	"testing"

	"github.com/funcpod/funcpod/utils"
)

func TestImageRefreshTracking(t *testing.T) {
	utils.AssertFalse(t, isImageRefreshed("example/tracked:latest"))
	markImageRefreshed("example/tracked:latest")
	utils.AssertTrue(t, isImageRefreshed("example/tracked:latest"))
}

func TestConcurrentImageRefreshTracking(t *testing.T) {
	const nImages = 20

	// parallel invocations may pull and inspect different images at once
	var wg sync.WaitGroup
	for i := 0; i < nImages; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			image := fmt.Sprintf("example/parallel-%d:latest", n)
			markImageRefreshed(image)
			isImageRefreshed(image)
		}(i)
	}
	wg.Wait()

	for i := 0; i < nImages; i++ {
		utils.AssertTrue(t, isImageRefreshed(fmt.Sprintf("example/parallel-%d:latest", i)))
	}
}
