package container

import "sync"

//RuntimeInfo contains information about a supported workload runtime env.
type RuntimeInfo struct {
	Image         string
	InvocationCmd []string
}

const CUSTOM_RUNTIME = "custom"

// LocalImagePrefix marks the built-in runtime images. These images are built
// on the local host and never exist in a remote registry, so they must not
// be pulled.
const LocalImagePrefix = "funcpod/"

// Images pulled since the daemon started. Factories pull and inspect images
// on behalf of concurrent invocations, so access goes through the mutex.
var refreshedImages = map[string]bool{}
var refreshedMu sync.Mutex

func markImageRefreshed(image string) {
	refreshedMu.Lock()
	defer refreshedMu.Unlock()
	refreshedImages[image] = true
}

func isImageRefreshed(image string) bool {
	refreshedMu.Lock()
	defer refreshedMu.Unlock()
	return refreshedImages[image]
}

var RuntimeToInfo = map[string]RuntimeInfo{
	"python310":  {LocalImagePrefix + "runtime-python310", []string{"python", "/entrypoint.py"}},
	"python39":   {LocalImagePrefix + "runtime-python39", []string{"python", "/entrypoint.py"}},
	"nodejs17":   {LocalImagePrefix + "runtime-nodejs17", []string{"node", "/entrypoint.js"}},
	"nodejs17ng": {LocalImagePrefix + "runtime-nodejs17ng", []string{}},
}
