package executor

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"
)

const resultFile = "/tmp/_executor_result.json"
const paramsFile = "/tmp/_executor.params"

func readExecutionResult(resultFile string) string {
	content, err := os.ReadFile(resultFile)
	if err != nil {
		log.Printf("%v", err)
		return ""
	}

	return string(content)
}

// InvokeHandler executes one workload invocation inside the container.
func InvokeHandler(w http.ResponseWriter, r *http.Request) {
	// Parse request
	reqDecoder := json.NewDecoder(r.Body)
	req := &InvocationRequest{}
	err := reqDecoder.Decode(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Set environment variables
	os.Setenv("RESULT_FILE", resultFile)
	os.Setenv("HANDLER", req.Handler)
	os.Setenv("HANDLER_DIR", req.HandlerDir)
	params := req.Params
	if params == nil {
		os.Setenv("PARAMS_FILE", "")
	} else {
		paramsB, _ := json.Marshal(req.Params)
		err := os.WriteFile(paramsFile, paramsB, 0644)
		if err != nil {
			log.Printf("Could not write parameters to %s", paramsFile)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		os.Setenv("PARAMS_FILE", paramsFile)
	}

	// Exec handler process
	cmd := req.Command
	if cmd == nil || len(cmd) < 1 {
		// this request is either invalid or uses a custom runtime
		// in the latter case, we find the command in the env
		customCmd, ok := os.LookupEnv("CUSTOM_CMD")
		if !ok {
			log.Printf("Invalid request!\n")
			http.Error(w, "no command to execute", http.StatusBadRequest)
			return
		}

		cmd = strings.Split(customCmd, " ")
	}

	var resp *InvocationResult
	start := time.Now()
	execCmd := exec.Command(cmd[0], cmd[1:]...)
	out, err := execCmd.CombinedOutput()
	duration := time.Since(start).Seconds()
	if err != nil {
		log.Printf("cmd.Run() failed with %s\n", err)
		fmt.Printf("Workload output:\n%s\n", string(out))
		resp = &InvocationResult{Success: false, Duration: duration}
	} else {
		result := readExecutionResult(resultFile)
		resp = &InvocationResult{Success: true, Result: result, Duration: duration}
		fmt.Printf("Workload output:\n%s\n", string(out))
	}
	if ps := execCmd.ProcessState; ps != nil {
		resp.CPUTime = ps.UserTime().Seconds() + ps.SystemTime().Seconds()
	}

	w.Header().Set("Content-Type", "application/json")
	respBody, _ := json.Marshal(resp)
	w.Write(respBody)
}
