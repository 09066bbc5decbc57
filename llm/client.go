// Package llm implements the control core's LLM client: a two-step
// submit/poll design (spec §4.G) that builds a provider-specific chat
// request from the visible pane contents, performs the HTTP round trip,
// and extracts an action batch from the reply via the action package's
// extract/parse pipeline.
package llm

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kastheco/termania/action"
	"github.com/kastheco/termania/pane"
	"github.com/tidwall/gjson"
)

// Status is the client's current lifecycle state.
type Status int

const (
	StatusIdle Status = iota
	StatusWaiting
	StatusError
)

const (
	defaultAnthropicURL   = "https://api.anthropic.com/v1/messages"
	defaultOpenAIURL      = "https://api.openai.com/v1/chat/completions"
	defaultAnthropicModel = "claude-sonnet-4-5"
	defaultOpenAIModel    = "gpt-4o"
	anthropicVersion      = "2023-06-01"
	defaultMaxTokens      = 4096
)

// Config controls provider behavior (spec §3/§4.G).
type Config struct {
	Provider  string // "anthropic"/"claude" -> Messages API; else OpenAI-compatible
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
}

func (c Config) isAnthropic() bool {
	switch strings.ToLower(c.Provider) {
	case "anthropic", "claude":
		return true
	default:
		return false
	}
}

func (c Config) url() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	if c.isAnthropic() {
		return defaultAnthropicURL
	}
	return defaultOpenAIURL
}

func (c Config) model() string {
	if c.Model != "" {
		return c.Model
	}
	if c.isAnthropic() {
		return defaultAnthropicModel
	}
	return defaultOpenAIModel
}

func (c Config) maxTokens() int {
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return defaultMaxTokens
}

// Response is the parsed reply: a batch of actions the controller holds
// for GUI inspection until the user explicitly executes it.
type Response struct {
	Explanation string
	Actions     []action.Action
}

// Client is single-slot: at most one prompt in flight, at most one
// pending response, matching the "bounded single-slot" concurrency
// rule (spec §5).
type Client struct {
	cfg Config
	hc  *http.Client

	status       Status
	pendingPrompt string
	response     *Response
	lastErr      error
}

// NewClient builds a Client against cfg, with a sane HTTP timeout so a
// hung provider doesn't wedge the poll tick forever once invoked.
func NewClient(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		hc:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Status returns the client's current lifecycle state.
func (c *Client) Status() Status { return c.status }

// Response returns the last completed response, or nil if none is
// pending/ready.
func (c *Client) Response() *Response { return c.response }

// Err returns the error from the last failed poll, if any.
func (c *Client) Err() error { return c.lastErr }

// Submit stores prompt and flips status to Waiting. It performs no I/O —
// the HTTP round trip happens in Poll, per spec §4.G's concurrency rule.
func (c *Client) Submit(prompt string) {
	c.pendingPrompt = prompt
	c.status = StatusWaiting
	c.response = nil
	c.lastErr = nil
}

// Poll performs the HTTP request synchronously when status is Waiting,
// using panes' current visible content to build the system prompt (spec
// §4.G), and updates status to Idle (response ready) or Error. A no-op
// when not Waiting.
func (c *Client) Poll(panes []pane.Plugin) {
	if c.status != StatusWaiting {
		return
	}

	system := BuildSystemPrompt(panes)
	text, err := c.roundTrip(system, c.pendingPrompt)
	if err != nil {
		c.status = StatusError
		c.lastErr = err
		return
	}

	c.response = &Response{Actions: extractActions(text), Explanation: extractExplanation(text)}
	c.status = StatusIdle
}

// Execute clears the held response and resets status to Idle. The
// controller calls this once the user accepts/dismisses the action
// batch; it is the point at which the controller itself would apply the
// actions (not this package's concern).
func (c *Client) Execute() {
	c.response = nil
	c.status = StatusIdle
}

func (c *Client) roundTrip(system, userContent string) (string, error) {
	body := buildRequestBody(c.cfg, system, userContent)

	req, err := http.NewRequest(http.MethodPost, c.cfg.url(), strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("llm: build request: %w", err)
	}
	req.Header.Set("content-type", "application/json")
	if c.cfg.isAnthropic() {
		req.Header.Set("x-api-key", c.cfg.APIKey)
		req.Header.Set("anthropic-version", anthropicVersion)
	} else if c.cfg.APIKey != "" {
		req.Header.Set("authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm: request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("llm: http %d", resp.StatusCode)
	}

	return extractResponseText(c.cfg, string(respBody))
}

// extractResponseText pulls the model's text out of the provider-shaped
// response body (spec §4.G).
func extractResponseText(cfg Config, body string) (string, error) {
	root := gjson.Parse(body)
	if cfg.isAnthropic() {
		text := root.Get("content.0.text")
		if text.Type != gjson.String {
			return "", fmt.Errorf("llm: invalid anthropic response")
		}
		return text.String(), nil
	}

	text := root.Get("choices.0.message.content")
	if text.Type != gjson.String {
		return "", fmt.Errorf("llm: invalid openai response")
	}
	return text.String(), nil
}

// extractActions feeds the model's reply text through the extract/parse
// pipeline, falling back to a single Message action so the user always
// sees something even when the model didn't return well-formed JSON.
func extractActions(text string) []action.Action {
	jsonText, ok := action.ExtractJSON(text)
	if ok {
		if resp, err := action.ParseActions(jsonText); err == nil {
			return resp.Actions
		}
	}
	return []action.Action{action.NewMessage(text)}
}

func extractExplanation(text string) string {
	jsonText, ok := action.ExtractJSON(text)
	if !ok {
		return ""
	}
	resp, err := action.ParseActions(jsonText)
	if err != nil {
		return ""
	}
	return resp.Explanation
}
