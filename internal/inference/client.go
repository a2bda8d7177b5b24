// Package inference calls the remote text-generation endpoint that proposes
// workout and meal plans, and turns its free-text answer into domain plans.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"lamx12/nutri-plan/internal/config"
	"lamx12/nutri-plan/internal/domain"

	"github.com/sirupsen/logrus"
)

var (
	ErrNoEndpoint     = errors.New("inference endpoint is not configured")
	ErrRequestFailed  = errors.New("inference request failed")
	ErrBadStatus      = errors.New("inference endpoint returned a non-success status")
	ErrEmptyResponse  = errors.New("inference response has no generated text")
	ErrNoJSON         = errors.New("no JSON object found in generated text")
	ErrMalformedPlans = errors.New("generated plans are structurally incomplete")
)

const maxResponseBytes = 1 << 20

// Parameters are the generation settings sent with every request.
type Parameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

// Request is the body of the POST to the model endpoint.
type Request struct {
	Inputs     string     `json:"inputs"`
	Parameters Parameters `json:"parameters"`
}

type generation struct {
	GeneratedText string `json:"generated_text"`
}

// Client posts prompts to the configured endpoint with a bearer credential:
// either an opaque token from configuration, or a proxy token obtained with
// client credentials and renewed as it expires.
type Client struct {
	endpoint   string
	tokens     tokenSource
	params     Parameters
	httpClient *http.Client
	log        *logrus.Entry
}

// NewClient builds a client from configuration. A nil httpClient gets one
// with the configured timeout.
func NewClient(cfg config.InferenceConfig, httpClient *http.Client, log *logrus.Entry) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, ErrNoEndpoint
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	tokens, err := newTokenSource(cfg, httpClient)
	if err != nil {
		return nil, err
	}
	maxTokens := cfg.MaxNewTokens
	if maxTokens <= 0 {
		maxTokens = 2000
	}
	return &Client{
		endpoint: cfg.Endpoint,
		tokens:   tokens,
		params: Parameters{
			MaxNewTokens:   maxTokens,
			Temperature:    cfg.Temperature,
			ReturnFullText: false,
		},
		httpClient: httpClient,
		log:        log,
	}, nil
}

// InferPlans asks the model for a plan matching profile and targets.
func (c *Client) InferPlans(ctx context.Context, profile *domain.Profile, calories int, macros domain.MacroTarget) ([]domain.Workout, []domain.Meal, error) {
	text, err := c.generate(ctx, BuildPrompt(profile, calories, macros))
	if err != nil {
		return nil, nil, err
	}
	return ParsePlans(text)
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(Request{Inputs: prompt, Parameters: c.params})
	if err != nil {
		return "", err
	}

	status, raw, err := c.post(ctx, body)
	if err != nil {
		return "", err
	}
	if status == http.StatusUnauthorized && c.tokens.Invalidate() {
		c.log.Debug("inference token rejected, renewing")
		if status, raw, err = c.post(ctx, body); err != nil {
			return "", err
		}
	}
	if status < 200 || status > 299 {
		return "", fmt.Errorf("%w: %d", ErrBadStatus, status)
	}

	var generations []generation
	if err := json.Unmarshal(raw, &generations); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEmptyResponse, err)
	}
	if len(generations) == 0 || generations[0].GeneratedText == "" {
		return "", ErrEmptyResponse
	}
	c.log.WithField("chars", len(generations[0].GeneratedText)).Debug("inference response received")
	return generations[0].GeneratedText, nil
}

func (c *Client) post(ctx context.Context, body []byte) (int, []byte, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return 0, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: reading body: %v", ErrRequestFailed, err)
	}
	return resp.StatusCode, raw, nil
}
