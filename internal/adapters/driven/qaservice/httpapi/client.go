// Package httpapi provides the remote question-answering service adapter
// over the backend's HTTP API.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.QAService = (*Client)(nil)

// Default configuration values.
const (
	DefaultTimeout   = 120 * time.Second
	DefaultUserAgent = "pdfchat"

	// maxErrorBody caps how much of a failed response is kept.
	maxErrorBody = 4096
)

// Config holds configuration for the HTTP client.
type Config struct {
	// BaseURL is the backend root (default: domain.DefaultServiceBaseURL).
	BaseURL string

	// Timeout bounds each request (default: 120s).
	Timeout time.Duration

	// RequestsPerSecond throttles outgoing requests. Zero disables it.
	RequestsPerSecond float64

	// UserAgent is sent with every request (default: pdfchat).
	UserAgent string

	// HTTPClient overrides the underlying client. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client talks to the /upload and /ask endpoints.
type Client struct {
	client    *http.Client
	baseURL   string
	userAgent string
	limiter   *rate.Limiter
}

// uploadResponse is the /upload response format.
type uploadResponse struct {
	DocumentID string `json:"document_id"`
}

// askRequest is the /ask request format. The backend names the document
// identifier pdf_name.
type askRequest struct {
	Question string `json:"question"`
	PDFName  string `json:"pdf_name"`
}

// askResponse is the /ask response format.
type askResponse struct {
	Answer  *string  `json:"answer"`
	Sources []string `json:"sources"`
}

// NewClient creates a new HTTP client for the question-answering backend.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = domain.DefaultServiceBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	c := &Client{
		client:    httpClient,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return c
}

// SubmitDocument uploads a PDF as multipart field "file".
func (c *Client) SubmitDocument(ctx context.Context, file domain.UploadFile) (*domain.UploadResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", file.Name)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	var resp uploadResponse
	if err := c.post(ctx, "/upload", writer.FormDataContentType(), &body, &resp); err != nil {
		return nil, err
	}
	if resp.DocumentID == "" {
		return nil, &domain.ServerError{StatusCode: http.StatusOK, Reason: "upload response has no document_id"}
	}

	return &domain.UploadResult{DocumentID: resp.DocumentID}, nil
}

// SubmitQuestion asks a question about an uploaded document.
func (c *Client) SubmitQuestion(ctx context.Context, question, documentID string) (*domain.Answer, error) {
	jsonBody, err := json.Marshal(askRequest{Question: question, PDFName: documentID})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var resp askResponse
	if err := c.post(ctx, "/ask", "application/json", bytes.NewReader(jsonBody), &resp); err != nil {
		return nil, err
	}
	if resp.Answer == nil {
		return nil, &domain.ServerError{StatusCode: http.StatusOK, Reason: "ask response has no answer"}
	}

	sources := resp.Sources
	if sources == nil {
		sources = []string{}
	}
	return &domain.Answer{Answer: *resp.Answer, Sources: sources}, nil
}

// post sends one request and decodes a 2xx JSON body into out.
func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrTransport, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		logger.Debug("POST %s failed after %s [%s]: %v", path, time.Since(start), requestID, err)
		return fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()
	logger.Debug("POST %s -> %d in %s [%s]", path, resp.StatusCode, time.Since(start), requestID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &domain.ServerError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %w", domain.ErrTransport, err)
		}
		return &domain.ServerError{
			StatusCode: resp.StatusCode,
			Reason:     fmt.Sprintf("decode %s response: %v", path, err),
		}
	}
	return nil
}
