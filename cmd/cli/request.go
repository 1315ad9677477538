package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// buildURL joins the endpoint to host and appends the query, adding dry_run when requested.
func buildURL(host, endpoint string, query url.Values, dryRun bool) string {
	if query == nil {
		query = url.Values{}
	}
	if dryRun {
		query.Set("dry_run", "true")
	}
	u := strings.TrimRight(host, "/") + endpoint
	if encoded := query.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

func performGetRequest(out io.Writer, endpoint string, query url.Values) error {
	return performRequest(out, http.MethodGet, endpoint, query, nil)
}

func performRequest(out io.Writer, method, endpoint string, query url.Values, body any) error {
	target := buildURL(host, endpoint, query, dryRun)
	fmt.Fprintf(out, "Making request to %s %s\n", method, target)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Fprintf(out, "Status Code: %d\n", resp.StatusCode)
	fmt.Fprintln(out, "Response Body:")
	fmt.Fprintln(out, string(respBody))

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return nil
}
