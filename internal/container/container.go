package container

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/funcpod/funcpod/internal/executor"
)

// Execute interacts with the executor running in the container to invoke the
// workload through a HTTP request.
func Execute(f Factory, contID ContainerID, req *executor.InvocationRequest) (*executor.InvocationResult, error) {
	ipAddr, err := f.GetIPAddress(contID)
	if err != nil {
		return nil, fmt.Errorf("Failed to retrieve IP address for container: %v", err)
	}

	postBody, _ := json.Marshal(req)
	resp, err := sendPostRequestWithRetries(fmt.Sprintf("http://%s:%d/invoke", ipAddr,
		executor.DEFAULT_EXECUTOR_PORT), postBody)
	if err != nil {
		return nil, fmt.Errorf("Request to executor failed: %v", err)
	}
	defer resp.Body.Close()

	d := json.NewDecoder(resp.Body)
	response := &executor.InvocationResult{}
	err = d.Decode(response)
	if err != nil {
		return nil, fmt.Errorf("Parsing executor response failed: %v", err)
	}

	return response, nil
}

func sendPostRequestWithRetries(url string, body []byte) (*http.Response, error) {
	const maxRetries = 3
	const backoff = 300 * time.Millisecond

	var err error

	for retry := 1; retry <= maxRetries; retry++ {
		var resp *http.Response
		resp, err = http.Post(url, "application/json", bytes.NewReader(body))
		if err == nil {
			return resp, nil
		}

		time.Sleep(backoff)
	}

	return nil, err
}
