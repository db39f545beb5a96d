package cli

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/funcpod/funcpod/internal/client"
	"github.com/funcpod/funcpod/utils"
	"github.com/spf13/cobra"
)

func invoke(cmd *cobra.Command, args []string) {
	if len(workloadName) < 1 {
		fmt.Printf("Invalid workload name.\n")
		cmd.Help()
		return
	}

	paramsMap := make(map[string]string)
	for _, rawParam := range params {
		tokens := strings.Split(rawParam, ":")
		if len(tokens) < 2 {
			cmd.Help()
			return
		}
		paramsMap[tokens[0]] = strings.Join(tokens[1:], ":")
	}

	// Prepare request
	request := client.InvocationRequest{Params: paramsMap}
	invocationBody, err := json.Marshal(request)
	if err != nil {
		cmd.Help()
		return
	}

	// Send invocation request
	url := fmt.Sprintf("http://%s:%d/invoke/%s", ServerConfig.Host, ServerConfig.Port, workloadName)
	if verbose {
		fmt.Printf("POST %s\n%s\n", url, invocationBody)
	}
	resp, err := utils.PostJson(url, invocationBody)
	if err != nil {
		fmt.Printf("Invocation failed: %v", err)
		os.Exit(2)
	}
	utils.PrintJsonResponse(resp.Body)
}

func create(cmd *cobra.Command, args []string) {
	if workloadName == "" || runtimeClass == "" {
		cmd.Help()
		return
	}

	if runtimeClass == "custom" && customImage == "" {
		cmd.Help()
		return
	} else if runtimeClass != "custom" && src == "" {
		cmd.Help()
		return
	}

	var encoded string
	if runtimeClass != "custom" {
		srcContent, err := readSourcesAsTar(src)
		if err != nil {
			fmt.Printf("%v", err)
			os.Exit(3)
		}
		encoded = base64.StdEncoding.EncodeToString(srcContent)
	} else {
		encoded = ""
	}

	request := client.WorkloadCreationRequest{
		Name:            workloadName,
		RuntimeClass:    runtimeClass,
		Handler:         handler,
		MemoryMB:        memory,
		CPUDemand:       cpuDemand,
		TarWorkloadCode: encoded,
		CustomImage:     customImage,
	}
	requestBody, err := json.Marshal(request)
	if err != nil {
		cmd.Help()
		return
	}

	url := fmt.Sprintf("http://%s:%d/create", ServerConfig.Host, ServerConfig.Port)
	resp, err := utils.PostJson(url, requestBody)
	if err != nil {
		fmt.Printf("Creation request failed: %v\n", err)
		os.Exit(2)
	}
	utils.PrintJsonResponse(resp.Body)
}

func readSourcesAsTar(srcPath string) ([]byte, error) {
	fileInfo, err := os.Stat(srcPath)
	if err != nil {
		return nil, fmt.Errorf("missing source file: %v", err)
	}

	if !fileInfo.IsDir() && strings.HasSuffix(srcPath, ".tar") {
		// this is already a tar file
		return os.ReadFile(srcPath)
	}

	var buf bytes.Buffer
	if err := utils.Tar(srcPath, &buf); err != nil {
		return nil, fmt.Errorf("could not package %s: %v", srcPath, err)
	}
	return buf.Bytes(), nil
}

func deleteWorkload(cmd *cobra.Command, args []string) {
	if workloadName == "" {
		cmd.Help()
		return
	}

	url := fmt.Sprintf("http://%s:%d/delete/%s", ServerConfig.Host, ServerConfig.Port, workloadName)
	resp, err := utils.PostJson(url, nil)
	if err != nil {
		fmt.Printf("Deletion request failed: %v\n", err)
		os.Exit(2)
	}
	utils.PrintJsonResponse(resp.Body)
}

func list(cmd *cobra.Command, args []string) {
	url := fmt.Sprintf("http://%s:%d/workload", ServerConfig.Host, ServerConfig.Port)
	resp, err := http.Get(url)
	if err != nil {
		fmt.Printf("List request failed: %v\n", err)
		os.Exit(2)
	}
	utils.PrintJsonResponse(resp.Body)
}

func status(cmd *cobra.Command, args []string) {
	url := fmt.Sprintf("http://%s:%d/status", ServerConfig.Host, ServerConfig.Port)
	resp, err := http.Get(url)
	if err != nil {
		fmt.Printf("Status request failed: %v", err)
		os.Exit(2)
	}
	utils.PrintJsonResponse(resp.Body)
}

func prewarm(cmd *cobra.Command, args []string) {
	if workloadName == "" {
		cmd.Help()
		return
	}

	request := client.PrewarmingRequest{
		Workload:       workloadName,
		Instances:      instances,
		ForceImagePull: forcePull,
	}
	requestBody, err := json.Marshal(request)
	if err != nil {
		cmd.Help()
		return
	}

	url := fmt.Sprintf("http://%s:%d/prewarm", ServerConfig.Host, ServerConfig.Port)
	resp, err := utils.PostJson(url, requestBody)
	if err != nil {
		fmt.Printf("Prewarming request failed: %v\n", err)
		os.Exit(2)
	}
	utils.PrintJsonResponse(resp.Body)
}
