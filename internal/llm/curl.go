package llm

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
)

// Endpoint is the chat completions endpoint every configured model talks
// to. It is not user-configurable; curlbin and model are.
const Endpoint = "https://api.openai.com/v1/chat/completions"

// RunCurl POSTs req as JSON to Endpoint using curlBin as an external
// subprocess, writing the request/response/stderr artifacts under
// reqPath/respPath/errPath. It never shells out through "sh -c" the way
// clipboard commands do: curlBin and its arguments are built internally,
// only the binary name comes from config.
//
// Dispatch goes through a subprocess rather than an in-process HTTP
// client deliberately, per spec §4.5/§6 — every request and response is
// left on disk under api_calls/ for replay and inspection, and the
// engineer-supplied curlbin is interchangeable with any curl-compatible
// binary (a corporate proxy wrapper, for instance).
func RunCurl(curlBin, apiKey string, req ChatRequest, reqPath, respPath, errPath string) error {
	body, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return fmt.Errorf("llm: encoding request: %w", err)
	}
	if err := os.WriteFile(reqPath, body, 0o644); err != nil {
		return fmt.Errorf("llm: writing request: %w", err)
	}

	cmd := exec.Command(curlBin,
		"-sS",
		"-X", "POST",
		Endpoint,
		"-H", "Content-Type: application/json",
		"-H", "Authorization: Bearer "+apiKey,
		"--data-binary", "@"+reqPath,
		"--output", respPath,
	)
	errOut, err := os.Create(errPath)
	if err != nil {
		return fmt.Errorf("llm: creating %s: %w", errPath, err)
	}
	defer errOut.Close()
	cmd.Stderr = errOut

	if err := cmd.Run(); err != nil {
		stderr, _ := os.ReadFile(errPath)
		return fmt.Errorf("llm: %s failed: %w: %s", curlBin, err, stderr)
	}
	return nil
}
