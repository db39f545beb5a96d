package executor

// Port the in-container executor listens on.
const DEFAULT_EXECUTOR_PORT = 8080

type InvocationRequest struct {
	Command    []string
	Params     map[string]string
	Handler    string
	HandlerDir string
}

type InvocationResult struct {
	Success  bool
	Result   string
	Duration float64
	CPUTime  float64
}
