package chief

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"irgsh/internal/logging"
)

const (
	submitPath      = "/api/v1/submit"
	statusPath      = "/api/v1/status"
	logsPath        = "/logs/"
	maxErrorBody    = 512
	defaultPollWait = 5 * time.Second
)

// HTTPDoer describes the HTTP client used to reach the chief.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPClient talks to a chief over its JSON API.
type HTTPClient struct {
	baseURL  string
	client   HTTPDoer
	interval time.Duration
	logger   *slog.Logger
}

// NewHTTPClient constructs an HTTP-backed chief client.
func NewHTTPClient(baseURL string, client HTTPDoer, pollInterval time.Duration, logger *slog.Logger) *HTTPClient {
	if client == nil {
		client = http.DefaultClient
	}
	if pollInterval <= 0 {
		pollInterval = defaultPollWait
	}
	return &HTTPClient{
		baseURL:  strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:   client,
		interval: pollInterval,
		logger:   logging.NewComponentLogger(logger, "chief"),
	}
}

type submitRequest struct {
	SourceURL      string `json:"sourceUrl"`
	PackageURL     string `json:"packageUrl"`
	SourceBranch   string `json:"sourceBranch"`
	PackageBranch  string `json:"packageBranch"`
	Component      string `json:"component"`
	IsExperimental bool   `json:"isExperimental"`
}

// Submit posts a build submission and returns the assigned pipeline ID.
func (c *HTTPClient) Submit(ctx context.Context, sub Submission) (Receipt, error) {
	if sub.RequestID == "" {
		sub.RequestID = uuid.NewString()
	}
	component := strings.TrimSpace(sub.Component)
	if component == "" {
		component = DefaultComponent
	}
	body, err := json.Marshal(submitRequest{
		SourceURL:      sub.SourceURL,
		PackageURL:     sub.PackageURL,
		SourceBranch:   sub.SourceBranch,
		PackageBranch:  sub.PackageBranch,
		Component:      component,
		IsExperimental: sub.Experimental,
	})
	if err != nil {
		return Receipt{}, fmt.Errorf("encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+submitPath, bytes.NewReader(body))
	if err != nil {
		return Receipt{}, fmt.Errorf("build submit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var receipt Receipt
	if err := c.doJSON(req, sub.RequestID, &receipt); err != nil {
		return Receipt{}, fmt.Errorf("submit package: %w", err)
	}
	if strings.TrimSpace(receipt.PipelineID) == "" {
		return Receipt{}, fmt.Errorf("submit package: %w: response has no pipeline id", ErrRemote)
	}
	receipt.RequestID = sub.RequestID
	c.logger.Info("submission accepted",
		logging.String(logging.FieldPipelineID, receipt.PipelineID),
		logging.String(logging.FieldRequestID, sub.RequestID),
	)
	return receipt, nil
}

// Status fetches the current state of a pipeline.
func (c *HTTPClient) Status(ctx context.Context, pipelineID string) (PipelineStatus, error) {
	endpoint := c.baseURL + statusPath + "?" + url.Values{"uuid": {pipelineID}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return PipelineStatus{}, fmt.Errorf("build status request: %w", err)
	}

	var status PipelineStatus
	if err := c.doJSON(req, uuid.NewString(), &status); err != nil {
		return PipelineStatus{}, fmt.Errorf("fetch status of %s: %w", pipelineID, err)
	}
	if status.PipelineID == "" {
		status.PipelineID = pipelineID
	}
	if strings.TrimSpace(status.State) == "" {
		status.State = StateUnknown
	}
	return status, nil
}

// Watch polls Status until the pipeline reaches a terminal state. fn is
// called for the first observation and for every state change after that.
func (c *HTTPClient) Watch(ctx context.Context, pipelineID string, fn func(PipelineStatus) error) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	var last string
	for {
		status, err := c.Status(ctx, pipelineID)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		if status.State != last {
			last = status.State
			if fn != nil {
				if err := fn(status); err != nil {
					return err
				}
			}
		}
		if status.Terminal() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Logs downloads the build and repository logs of a pipeline.
func (c *HTTPClient) Logs(ctx context.Context, pipelineID string) (Logs, error) {
	build, err := c.fetchText(ctx, logsPath+url.PathEscape(pipelineID)+".build.log")
	if err != nil {
		return Logs{}, fmt.Errorf("fetch build log of %s: %w", pipelineID, err)
	}
	repo, err := c.fetchText(ctx, logsPath+url.PathEscape(pipelineID)+".repo.log")
	if err != nil {
		return Logs{}, fmt.Errorf("fetch repo log of %s: %w", pipelineID, err)
	}
	return Logs{Build: build, Repo: repo}, nil
}

func (c *HTTPClient) fetchText(ctx context.Context, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.do(req, uuid.NewString())
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	return string(data), nil
}

func (c *HTTPClient) doJSON(req *http.Request, requestID string, out any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.do(req, requestID)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrRemote, err)
	}
	return nil
}

func (c *HTTPClient) do(req *http.Request, requestID string) (*http.Response, error) {
	req.Header.Set("X-Request-ID", requestID)
	c.logger.Debug("chief request",
		logging.String("method", req.Method),
		logging.String("url", req.URL.String()),
		logging.String(logging.FieldRequestID, requestID),
	)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		defer resp.Body.Close()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		detail := strings.TrimSpace(string(snippet))
		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w (%d)", ErrNotFound, resp.StatusCode)
		}
		if detail != "" {
			return nil, fmt.Errorf("%w: chief returned %d: %s", ErrRemote, resp.StatusCode, detail)
		}
		return nil, fmt.Errorf("%w: chief returned %d", ErrRemote, resp.StatusCode)
	}
	return resp, nil
}
