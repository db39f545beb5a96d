package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/funcpod/funcpod/internal/client"
	"github.com/funcpod/funcpod/internal/config"
	"github.com/funcpod/funcpod/internal/container"
	"github.com/funcpod/funcpod/internal/executor"
	"github.com/funcpod/funcpod/internal/manager"
	"github.com/funcpod/funcpod/internal/metrics"
	"github.com/funcpod/funcpod/internal/workload"
	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid"
)

const HANDLER_DIR = "/app"

// Server holds the handlers of the daemon API. The container manager is
// owned by main and passed in explicitly.
type Server struct {
	mgr *manager.ContainerManager
}

func NewServer(mgr *manager.ContainerManager) *Server {
	return &Server{mgr: mgr}
}

// GetWorkloads handles a request to list the workloads deployed on the node.
func (s *Server) GetWorkloads(c echo.Context) error {
	return c.JSON(http.StatusOK, workload.GetAllNames())
}

// CreateWorkload registers a new workload.
func (s *Server) CreateWorkload(c echo.Context) error {
	var creationRequest client.WorkloadCreationRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&creationRequest); err != nil {
		log.Printf("Could not parse request: %v", err)
		return c.String(http.StatusBadRequest, "could not parse request")
	}

	memory := creationRequest.MemoryMB
	if memory <= 0 {
		memory = int64(config.GetInt(config.DEFAULT_MEMORY_MB, 128))
	}

	w := &workload.Workload{
		Name:            creationRequest.Name,
		RuntimeClass:    creationRequest.RuntimeClass,
		Handler:         creationRequest.Handler,
		MemoryMB:        memory,
		CPUDemand:       creationRequest.CPUDemand,
		TarWorkloadCode: creationRequest.TarWorkloadCode,
		CustomImage:     creationRequest.CustomImage,
	}
	if err := workload.StoreWorkload(w); err != nil {
		log.Printf("Could not create workload: %v", err)
		return c.String(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, w.Name)
}

// DeleteWorkload removes a workload from the node.
func (s *Server) DeleteWorkload(c echo.Context) error {
	name := c.Param("workload")
	if _, ok := workload.GetWorkload(name); !ok {
		return c.JSON(http.StatusNotFound, "")
	}
	workload.DeleteWorkload(name)
	return c.JSON(http.StatusOK, name)
}

// InvokeWorkload handles a workload invocation request.
func (s *Server) InvokeWorkload(c echo.Context) error {
	name := c.Param("workload")
	w, ok := workload.GetWorkload(name)
	if !ok {
		log.Printf("Dropping request for unknown workload '%s'", name)
		return c.JSON(http.StatusNotFound, "")
	}

	var invocationRequest client.InvocationRequest
	err := json.NewDecoder(c.Request().Body).Decode(&invocationRequest)
	if err != nil && err != io.EOF {
		log.Printf("Could not parse request: %v", err)
		return c.String(http.StatusBadRequest, "could not parse request")
	}

	r := &workload.Request{
		ReqId:   fmt.Sprintf("%s-%s", name, shortuuid.New()),
		W:       w,
		Params:  invocationRequest.Params,
		Arrival: time.Now(),
	}

	report, err := s.execute(r, invocationRequest.Warm)
	if errors.Is(err, manager.ErrWarmNotSupported) {
		return c.String(http.StatusBadRequest, err.Error())
	} else if errors.Is(err, manager.ErrImageUnavailable) {
		return c.String(http.StatusServiceUnavailable, err.Error())
	} else if err != nil {
		log.Printf("Invocation %s failed: %v", r, err)
		return c.String(http.StatusInternalServerError, "")
	}

	metrics.AddCompletedInvocation()
	return c.JSON(http.StatusOK, workload.Response{Success: true, ExecutionReport: *report})
}

// execute runs one invocation on a pooled or fresh container.
func (s *Server) execute(r *workload.Request, warm bool) (*workload.ExecutionReport, error) {
	image, err := r.W.Image()
	if err != nil {
		return nil, err
	}

	h := container.NewWorkloadContainer(s.mgr.Factory(), r.W.RuntimeClass, image,
		r.W.TarWorkloadCode, &container.ContainerOptions{
			MemoryMB: r.W.MemoryMB,
			CPUQuota: r.W.CPUDemand,
		})

	logs := &bytes.Buffer{}
	if err := s.mgr.Run(h, nil, warm, logs, logs); err != nil {
		return nil, err
	}
	defer s.mgr.Stop(h)
	initTime := time.Since(r.Arrival).Seconds()

	req := executor.InvocationRequest{
		Command:    r.W.InvocationCmd(),
		Params:     r.Params,
		Handler:    r.W.Handler,
		HandlerDir: HANDLER_DIR,
	}
	response, err := container.Execute(s.mgr.Factory(), h.ID(), &req)
	if err != nil {
		return nil, fmt.Errorf("Execution request failed: %v", err)
	}
	if !response.Success {
		return nil, fmt.Errorf("Workload execution failed")
	}

	return &workload.ExecutionReport{
		Result:       response.Result,
		ResponseTime: time.Since(r.Arrival).Seconds(),
		IsWarmStart:  h.Reused(),
		InitTime:     initTime,
		Duration:     response.Duration,
		CPUTime:      response.CPUTime,
		Logs:         logs.String(),
	}, nil
}

// PrewarmWorkload creates ready-to-use containers for a workload ahead of
// the corresponding invocations.
func (s *Server) PrewarmWorkload(c echo.Context) error {
	var prewarmingRequest client.PrewarmingRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&prewarmingRequest); err != nil {
		log.Printf("Could not parse request: %v", err)
		return c.String(http.StatusBadRequest, "could not parse request")
	}

	w, ok := workload.GetWorkload(prewarmingRequest.Workload)
	if !ok {
		return c.JSON(http.StatusNotFound, "")
	}
	image, err := w.Image()
	if err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}

	if prewarmingRequest.ForceImagePull {
		if err := s.mgr.PullImage(image, nil); err != nil {
			return c.String(http.StatusServiceUnavailable, err.Error())
		}
	}

	for i := int64(0); i < prewarmingRequest.Instances; i++ {
		h := container.NewWorkloadContainer(s.mgr.Factory(), w.RuntimeClass, image,
			w.TarWorkloadCode, &container.ContainerOptions{
				MemoryMB: w.MemoryMB,
				CPUQuota: w.CPUDemand,
			})
		if err := s.mgr.Warm(h); err != nil {
			log.Printf("Prewarming %s failed: %v", w, err)
			return c.String(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, "")
}

// GetServerStatus reports the node status: runtime reachability and pool
// occupancy.
func (s *Server) GetServerStatus(c echo.Context) error {
	status := StatusResponse{
		RuntimeReachable: s.mgr.IsRuntimeReachable(),
		FreeContainers:   s.mgr.PoolStatus(),
		Workloads:        workload.GetAllNames(),
	}
	return c.JSON(http.StatusOK, status)
}
