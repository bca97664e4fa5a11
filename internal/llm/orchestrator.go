package llm

import (
	"errors"
	"fmt"
	"os"
	"time"

	"cmpr/internal/cmprdir"
	"cmpr/internal/cmprerr"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNoAPIKey is returned by Dispatch when no key is configured. The
// caller reports it as a status line, not a fatal error — §4.5 is
// explicit that a missing key never crashes the session.
var ErrNoAPIKey = errors.New("llm: no API key configured")

// ModelClipboard is the sentinel model name that routes a request through
// the clipboard bridge instead of an HTTP call. The orchestrator never
// sees this value: its caller (the TUI controller) intercepts it before
// calling Dispatch.
const ModelClipboard = "clipboard"

// Clock matches edit.Pipeline's injectable clock, so every artifact
// timestamp in a test is deterministic.
type Clock func() time.Time

// Orchestrator assembles and dispatches one LLM round trip.
type Orchestrator struct {
	Layout  cmprdir.Layout
	CurlBin string
	Model   string
	APIKey  string
	Now     Clock
	Log     *zap.Logger
}

// New returns an Orchestrator with Now defaulting to time.Now and Log
// defaulting to a no-op logger.
func New(layout cmprdir.Layout, curlBin, model, apiKey string) *Orchestrator {
	return &Orchestrator{
		Layout:  layout,
		CurlBin: curlBin,
		Model:   model,
		APIKey:  apiKey,
		Now:     time.Now,
		Log:     zap.NewNop(),
	}
}

// BuildMessages assembles the chat turns per §4.5: an optional system
// message (the project's #systemprompt block), an optional bootstrap
// turn (the user's primed context followed by a canned assistant "OK"),
// and finally the real user prompt.
func BuildMessages(systemText string, hasSystem bool, bootstrapPrompt string, prompt string) []Message {
	var msgs []Message
	if hasSystem {
		msgs = append(msgs, Message{Role: "system", Content: systemText})
	}
	if bootstrapPrompt != "" {
		msgs = append(msgs, Message{Role: "user", Content: bootstrapPrompt})
		msgs = append(msgs, Message{Role: "assistant", Content: "OK"})
	}
	msgs = append(msgs, Message{Role: "user", Content: prompt})
	return msgs
}

// Dispatch sends messages to the configured model and returns the
// extracted code. If no key is configured it returns ErrNoAPIKey without
// touching disk or the network. A transport failure is returned wrapped
// and is recoverable: per §4.5 it is reported to the user and awaits a
// keystroke rather than terminating the process. A response that cannot
// be decoded is returned as a cmprerr.Fatal, which callers terminate on.
func (o *Orchestrator) Dispatch(messages []Message) (string, error) {
	if o.APIKey == "" {
		o.Log.Info("llm: no API key configured, skipping dispatch")
		return "", ErrNoAPIKey
	}

	id := uuid.New()
	now := o.Now()
	reqPath, respPath, errPath := o.Layout.APICallPaths(now)
	log := o.Log.With(zap.String("call_id", id.String()), zap.String("model", o.Model))

	if err := o.Layout.Ensure(); err != nil {
		return "", fmt.Errorf("llm: %w", err)
	}

	req := ChatRequest{Model: o.Model, Messages: messages}
	log.Info("llm: dispatching request", zap.String("request_path", reqPath))
	if err := RunCurl(o.CurlBin, o.APIKey, req, reqPath, respPath, errPath); err != nil {
		log.Warn("llm: request failed", zap.Error(err))
		return "", err
	}

	respBody, err := os.ReadFile(respPath)
	if err != nil {
		return "", fmt.Errorf("llm: reading response: %w", err)
	}
	content, err := ParseResponse(respBody)
	if err != nil {
		// A malformed response is the JSON-parse-failure escape hatch of
		// §7: terminate rather than retry. The raw response is not
		// printed; it stays on disk at respPath, which is logged here.
		log.Error("llm: malformed response", zap.Error(err), zap.String("response_path", respPath))
		return "", cmprerr.NewFatal(err)
	}
	log.Info("llm: dispatch complete")
	return ExtractCode(content), nil
}
