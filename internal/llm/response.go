package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Message is one chat turn in the request body sent to the API.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the JSON body written to the request file before curl is
// invoked.
type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ParseResponse unmarshals the API's JSON response body and returns the
// first choice's message content. A JSON decode failure is fatal to the
// caller per spec §4.5 — malformed API output is not a recoverable
// condition the way an HTTP failure is.
func ParseResponse(data []byte) (string, error) {
	var resp chatResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("llm: decoding response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm: response has no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// ExtractCode pulls the code out of a chat response. If content's lines
// include exactly two lines beginning with a triple-backtick fence, the
// lines between them (the fenced body) are returned; otherwise content is
// returned unchanged. This undoes models that answer in a Markdown code
// fence despite being asked not to.
func ExtractCode(content string) string {
	lines := strings.Split(content, "\n")
	var fences []int
	for i, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), "```") {
			fences = append(fences, i)
		}
	}
	if len(fences) != 2 {
		return content
	}
	inner := lines[fences[0]+1 : fences[1]]
	return strings.Join(inner, "\n")
}
