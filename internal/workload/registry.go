package workload

import (
	"fmt"

	"github.com/funcpod/funcpod/internal/cache"
)

// The registry of deployed workloads is kept in the in-process cache with no
// expiration; there is no remote store behind it.

func registryKey(name string) string {
	return fmt.Sprintf("/workload/%s", name)
}

// GetWorkload retrieves a Workload given its name. If it doesn't exist, returns false.
func GetWorkload(name string) (*Workload, bool) {
	v, found := cache.GetCacheInstance().Get(registryKey(name))
	if !found {
		return nil, false
	}
	// return a safe copy
	w := *v.(*Workload)
	return &w, true
}

// StoreWorkload registers a workload, replacing any previous definition.
func StoreWorkload(w *Workload) error {
	if w.Name == "" {
		return fmt.Errorf("workload without a name")
	}
	if _, err := w.Image(); err != nil {
		return err
	}
	cache.GetCacheInstance().Set(registryKey(w.Name), w, cache.NoExpiration)
	return nil
}

// DeleteWorkload removes a workload from the registry. Unknown names are
// ignored.
func DeleteWorkload(name string) {
	cache.GetCacheInstance().Delete(registryKey(name))
}

// GetAllNames lists the names of the registered workloads.
func GetAllNames() []string {
	keys := cache.GetCacheInstance().Keys()
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		var name string
		if _, err := fmt.Sscanf(k, "/workload/%s", &name); err == nil {
			names = append(names, name)
		}
	}
	return names
}
