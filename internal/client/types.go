package client

type InvocationRequest struct {
	Params map[string]string
	// Warm asks to reuse one specific started container across
	// invocations. The facility does not exist and the request is
	// rejected; the field is kept so callers get a clear error.
	Warm bool
}

type PrewarmingRequest struct {
	Workload       string
	Instances      int64
	ForceImagePull bool
}

type WorkloadCreationRequest struct {
	Name            string
	RuntimeClass    string
	Handler         string
	MemoryMB        int64
	CPUDemand       float64
	TarWorkloadCode string
	CustomImage     string
}
