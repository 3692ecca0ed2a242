// Package coordinator is the HTTP/JSON client for the external proving
// coordinator. It knows the four coordinator endpoints and nothing about
// state or job lifecycles.
package coordinator

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/zkvault/internal/client/models"
	"github.com/dmitrijs2005/zkvault/internal/common"
	"github.com/dmitrijs2005/zkvault/internal/cryptox"
	"github.com/dmitrijs2005/zkvault/internal/logging"
	"github.com/google/uuid"
)

// StatusError is returned when the coordinator answers with a non-2xx code.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("coordinator %s: unexpected status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// GenerateProofRequest is the body of POST /generate-proof.
type GenerateProofRequest struct {
	StateID    string `json:"stateId"`
	Circuit    string `json:"circuit"`
	Ciphertext string `json:"ciphertext"`
	IV         string `json:"iv"`
	Tag        string `json:"tag"`
}

// SubmitJobRequest is the body of POST /submit-job.
type SubmitJobRequest struct {
	JobID      string `json:"jobId"`
	JobType    string `json:"jobType"`
	Owner      string `json:"owner"`
	IV         string `json:"iv"`
	Tag        string `json:"tag"`
	Ciphertext string `json:"ciphertext"`
}

type jobStatusResponse struct {
	Status models.JobStatus `json:"status"`
}

type jobResultResponse struct {
	IV         string `json:"iv"`
	Ciphertext string `json:"ciphertext"`
	Tag        string `json:"tag"`
}

// WireFields returns the base64 encodings of the envelope nonce, ciphertext
// and tag as the coordinator expects them.
func WireFields(env *cryptox.Envelope) (iv, ciphertext, tag string) {
	enc := base64.StdEncoding
	return enc.EncodeToString(env.Nonce), enc.EncodeToString(env.Ciphertext), enc.EncodeToString(env.Tag)
}

// EnvelopeFromWire decodes base64 wire fields into an AES-GCM envelope.
func EnvelopeFromWire(iv, ciphertext, tag string) (*cryptox.Envelope, error) {
	enc := base64.StdEncoding
	nonce, err := enc.DecodeString(iv)
	if err != nil {
		return nil, fmt.Errorf("%w: iv: %v", common.ErrCrypto, err)
	}
	ct, err := enc.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: ciphertext: %v", common.ErrCrypto, err)
	}
	t, err := enc.DecodeString(tag)
	if err != nil {
		return nil, fmt.Errorf("%w: tag: %v", common.ErrCrypto, err)
	}
	return &cryptox.Envelope{Algorithm: common.AlgorithmAESGCM, Nonce: nonce, Ciphertext: ct, Tag: t}, nil
}

// Client talks to one coordinator base URL. It performs no retries.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  *TokenSource
	logger  logging.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTokenSource attaches bearer tokens to every request.
func WithTokenSource(ts *TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New builds a client for baseURL. timeout bounds each request; zero means
// the request may block until ctx is done.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// GenerateProof asks the coordinator to prove a statement over an encrypted state.
func (c *Client) GenerateProof(ctx context.Context, req GenerateProofRequest) (*models.Proof, error) {
	var proof models.Proof
	if err := c.do(ctx, http.MethodPost, "/generate-proof", req.StateID, req, &proof); err != nil {
		return nil, err
	}
	return &proof, nil
}

// SubmitJob hands an encrypted job payload to the coordinator. The response
// body is ignored.
func (c *Client) SubmitJob(ctx context.Context, req SubmitJobRequest) error {
	return c.do(ctx, http.MethodPost, "/submit-job", req.Owner, req, nil)
}

// JobStatus fetches the current status of a job.
func (c *Client) JobStatus(ctx context.Context, jobID string) (models.JobStatus, error) {
	var resp jobStatusResponse
	if err := c.do(ctx, http.MethodGet, "/job-status/"+url.PathEscape(jobID), jobID, nil, &resp); err != nil {
		return "", err
	}
	if !resp.Status.Valid() {
		return "", fmt.Errorf("coordinator returned unknown job status %q", resp.Status)
	}
	return resp.Status, nil
}

// JobResult fetches the encrypted result envelope of a job.
func (c *Client) JobResult(ctx context.Context, jobID string) (*cryptox.Envelope, error) {
	var resp jobResultResponse
	if err := c.do(ctx, http.MethodGet, "/job-result/"+url.PathEscape(jobID), jobID, nil, &resp); err != nil {
		return nil, err
	}
	return EnvelopeFromWire(resp.IV, resp.Ciphertext, resp.Tag)
}

func (c *Client) do(ctx context.Context, method, path, subject string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}

	requestID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		token, err := c.tokens.Token(subject)
		if err != nil {
			return fmt.Errorf("sign coordinator token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug(ctx, "coordinator request", "method", method, "path", path, "request_id", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Endpoint: path, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode coordinator response: %w", err)
	}
	return nil
}
