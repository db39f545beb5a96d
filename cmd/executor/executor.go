package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/funcpod/funcpod/internal/executor"
)

// The executor runs inside each workload container and executes the handler
// on request.
func main() {
	http.HandleFunc("/invoke", executor.InvokeHandler)
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", executor.DEFAULT_EXECUTOR_PORT), nil))
}
