package config

// Port for the daemon API server
const API_PORT = "api.port"

// Container factory to use ("docker" or "podman")
const CONTAINER_FACTORY = "container.factory"

// Unix socket used to reach the Podman service
const PODMAN_SOCKET = "unix://run/podman/podman.sock"

// Identifier of the network containers are attached to (optional)
const CONTAINER_NETWORK = "container.network"

// Skips pulling a workload image when a local copy is available (true/false)
const SKIP_IMAGE_PULL = "container.images.skippull"

// Forces runtime container images to be pulled the first time they are used,
// even if they are locally available (true/false).
const FACTORY_REFRESH_IMAGES = "container.images.refresh"

// Maximum number of idle containers kept around for reuse.
// 0 disables reuse: every invocation gets a fresh container.
const POOL_SIZE = "container.pool.size"

// Memory assigned to workload containers when the workload does not
// specify a limit (in MB)
const DEFAULT_MEMORY_MB = "container.memory"

// Exposes metrics to Prometheus (true/false)
const METRICS_ENABLED = "metrics.enabled"

// Port for the Prometheus metrics endpoint
const METRICS_PORT = "metrics.port"

// Size of the in-memory workload registry
const REGISTRY_CACHE_SIZE = "registry.cache.size"

// Expiration time (in seconds) of registry entries
const REGISTRY_CACHE_EXPIRATION = "registry.cache.expiration"

// Cleanup interval (in seconds) of expired registry entries
const REGISTRY_CACHE_CLEANUP = "registry.cache.cleanup"
