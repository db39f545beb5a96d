package api

// StatusResponse describes the current state of the node.
type StatusResponse struct {
	RuntimeReachable bool
	FreeContainers   map[string]int
	Workloads        []string
}
