package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

// PostJson sends a JSON body to the given URL. Any status other than 200 is
// reported as an error; the response is returned anyway so the caller can
// inspect the payload.
func PostJson(url string, body []byte) (*http.Response, error) {
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return resp, fmt.Errorf("server response: %v", resp.Status)
	}
	return resp, nil
}

// PrintJsonResponse pretty-prints a JSON response body on stdout.
func PrintJsonResponse(resp io.ReadCloser) {
	defer resp.Close()
	body, err := io.ReadAll(resp)
	if err != nil {
		return
	}

	var out bytes.Buffer
	if err := json.Indent(&out, body, "", "\t"); err != nil {
		// not JSON, print as is
		os.Stdout.Write(body)
		return
	}
	out.WriteTo(os.Stdout)
}
