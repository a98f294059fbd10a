// Package api is the HTTP client for the external assessment API, which
// generates question sets and grades submissions.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abhisek/skillcheck/internal/assessment"
	"github.com/abhisek/skillcheck/internal/auth"
)

// DefaultBaseURL is the API root used when none is configured.
const DefaultBaseURL = "http://localhost:5000/api"

const maxBodyBytes = 4 << 20

// TokenSource supplies the bearer token. auth.ErrNoToken means the
// request is sent without one.
type TokenSource interface {
	Token() (string, error)
}

// Config configures a Client.
type Config struct {
	BaseURL string

	// Timeout bounds a single HTTP attempt. Default: 30s.
	Timeout time.Duration

	Retry  RetryConfig
	Tokens TokenSource

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Client talks to the assessment API. It implements assessment.Client
// and is safe for concurrent use.
type Client struct {
	base   string
	http   *http.Client
	retry  RetryConfig
	tokens TokenSource
	log    zerolog.Logger
}

var _ assessment.Client = (*Client)(nil)

// New creates a client.
func New(cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	retry := cfg.Retry
	if retry.MaxAttempts == 0 {
		retry = DefaultRetryConfig()
	}
	return &Client{
		base:   base,
		http:   hc,
		retry:  retry,
		tokens: cfg.Tokens,
		log:    cfg.Logger.With().Str("component", "api").Logger(),
	}
}

type generateRequest struct {
	Skill string `json:"skill"`
}

type generateResponse struct {
	AssessmentID string         `json:"assessmentId"`
	Skill        string         `json:"skill"`
	Questions    []wireQuestion `json:"questions"`
}

type wireQuestion struct {
	ID          questionID `json:"id"`
	Type        string     `json:"type"`
	Question    string     `json:"question"`
	Options     []string   `json:"options"`
	Language    string     `json:"language"`
	StarterCode string     `json:"starterCode"`
}

type submitRequest struct {
	AssessmentID string         `json:"assessmentId"`
	Answers      map[string]any `json:"answers"`
	Terminated   bool           `json:"terminated"`
}

type submitResponse struct {
	Message       string  `json:"message"`
	Score         int     `json:"score"`
	TotalMCQ      int     `json:"totalMcq"`
	MCQPercentage float64 `json:"mcqPercentage"`
	Terminated    bool    `json:"terminated"`
}

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// questionID accepts a JSON number or string and keeps it as a string.
type questionID string

func (q *questionID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*q = questionID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("question id: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*q = questionID(strconv.FormatInt(i, 10))
		return nil
	}
	*q = questionID(n.String())
	return nil
}

func questionKind(wire string) (assessment.QuestionKind, error) {
	switch wire {
	case "mcq":
		return assessment.KindMultipleChoice, nil
	case "code":
		return assessment.KindCoding, nil
	default:
		return "", fmt.Errorf("unknown question type %q", wire)
	}
}

// Generate requests a question set for skill.
func (c *Client) Generate(ctx context.Context, skill string) (*assessment.Generated, error) {
	var resp generateResponse
	if err := c.post(ctx, "generate", "/assessment/generate", generateRequest{Skill: skill}, schemaGenerate, &resp); err != nil {
		return nil, err
	}

	gen := &assessment.Generated{
		SessionID: resp.AssessmentID,
		Skill:     resp.Skill,
		Questions: make([]assessment.Question, 0, len(resp.Questions)),
	}
	if gen.Skill == "" {
		gen.Skill = skill
	}
	for _, wq := range resp.Questions {
		kind, err := questionKind(wq.Type)
		if err != nil {
			return nil, &InvalidResponseError{Op: "generate", Err: err}
		}
		q := assessment.Question{
			ID:     string(wq.ID),
			Kind:   kind,
			Prompt: wq.Question,
		}
		if kind == assessment.KindMultipleChoice {
			q.Options = wq.Options
		} else {
			q.Language = wq.Language
			q.StarterCode = wq.StarterCode
		}
		gen.Questions = append(gen.Questions, q)
	}
	return gen, nil
}

// Submit sends the merged answers for grading.
func (c *Client) Submit(ctx context.Context, sub *assessment.Submission) (*assessment.Result, error) {
	req := submitRequest{
		AssessmentID: sub.SessionID,
		Answers:      sub.Values(),
		Terminated:   sub.Terminated,
	}
	var resp submitResponse
	if err := c.post(ctx, "submit", "/assessment/submit", req, schemaSubmit, &resp); err != nil {
		return nil, err
	}
	return &assessment.Result{
		Score:      resp.Score,
		TotalMCQ:   resp.TotalMCQ,
		Percentage: int(math.Round(resp.MCQPercentage)),
		Terminated: resp.Terminated,
	}, nil
}

func (c *Client) post(ctx context.Context, op, path string, in any, schema string, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", op, err)
	}

	token, err := c.token()
	if err != nil {
		return err
	}

	reqID := uuid.NewString()
	log := c.log.With().Str("op", op).Str("request_id", reqID).Logger()
	start := time.Now()

	raw, err := withRetry(ctx, c.retry, log, func() ([]byte, error) {
		return c.send(ctx, path, payload, token, reqID)
	})
	if err != nil {
		log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("request failed")
		return err
	}

	if err := validateBody(schema, raw); err != nil {
		return &InvalidResponseError{Op: op, Body: raw, Err: err}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &InvalidResponseError{Op: op, Body: raw, Err: err}
	}
	log.Debug().Dur("elapsed", time.Since(start)).Msg("request ok")
	return nil
}

func (c *Client) token() (string, error) {
	if c.tokens == nil {
		return "", nil
	}
	tok, err := c.tokens.Token()
	if errors.Is(err, auth.ErrNoToken) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}
	return tok, nil
}

func (c *Client) send(ctx context.Context, path string, payload []byte, token, reqID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{StatusCode: resp.StatusCode, RequestID: reqID}
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil {
			se.Message = eb.Error
			se.Details = eb.Details
		}
		return nil, se
	}
	return body, nil
}
