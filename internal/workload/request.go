package workload

import (
	"fmt"
	"time"
)

// Request represents a single workload invocation.
type Request struct {
	ReqId   string
	W       *Workload
	Params  map[string]string
	Arrival time.Time
}

type ExecutionReport struct {
	Result       string
	ResponseTime float64
	IsWarmStart  bool
	InitTime     float64
	Duration     float64
	CPUTime      float64
	Logs         string
}

type Response struct {
	Success bool
	ExecutionReport
}

func (r *Request) String() string {
	return fmt.Sprintf("[%s] Rq-%s", r.W.Name, r.ReqId)
}
