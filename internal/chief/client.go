package chief

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"irgsh/internal/config"
)

var (
	ErrNotFound    = errors.New("pipeline not found")
	ErrRemote      = errors.New("chief request failed")
	ErrUnsupported = errors.New("not supported by this transport")
)

// Pipeline states reported by the chief.
const (
	StateUnknown   = "UNKNOWN"
	StateStarted   = "STARTED"
	StateDone      = "DONE"
	StateSuccess   = "SUCCESS"
	StateFailed    = "FAILED"
	StateCancelled = "CANCELLED"
)

// Submission describes a package build request.
type Submission struct {
	PackageURL    string
	SourceURL     string
	PackageBranch string
	SourceBranch  string
	// Component is the repository component the package lands in.
	Component    string
	Experimental bool
	RequestID    string
}

// DefaultComponent is used when a submission names no component.
const DefaultComponent = "main"

// Receipt is the chief's acknowledgement of a submission. PipelineID is empty
// when the transport did not contact a chief.
type Receipt struct {
	PipelineID string `json:"pipelineId"`
	RequestID  string `json:"requestId,omitempty"`
}

// PipelineStatus is a point-in-time view of a pipeline.
type PipelineStatus struct {
	PipelineID string `json:"pipelineId"`
	State      string `json:"state"`
}

// Terminal reports whether the pipeline will not change state again.
func (s PipelineStatus) Terminal() bool {
	switch strings.ToUpper(strings.TrimSpace(s.State)) {
	case StateDone, StateSuccess, StateFailed, StateCancelled:
		return true
	default:
		return false
	}
}

// Logs holds the build and repository logs of a finished pipeline.
type Logs struct {
	Build string
	Repo  string
}

// Client is the capability the dispatcher uses to reach a chief.
type Client interface {
	Submit(ctx context.Context, sub Submission) (Receipt, error)
	Status(ctx context.Context, pipelineID string) (PipelineStatus, error)
	// Watch invokes fn for every observed state change until the pipeline
	// reaches a terminal state, fn returns an error, or ctx is done.
	Watch(ctx context.Context, pipelineID string, fn func(PipelineStatus) error) error
	Logs(ctx context.Context, pipelineID string) (Logs, error)
}

// Options tunes the client returned by New.
type Options struct {
	Timeout      time.Duration
	PollInterval time.Duration
	HTTPClient   HTTPDoer
	Logger       *slog.Logger
}

// New returns the Client for the given transport.
func New(transport, address string, opts Options) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(transport)) {
	case "", config.TransportPlaceholder:
		return NewPlaceholder(address, opts.Logger), nil
	case config.TransportHTTP:
		doer := opts.HTTPClient
		if doer == nil {
			doer = &http.Client{Timeout: opts.Timeout}
		}
		return NewHTTPClient(address, doer, opts.PollInterval, opts.Logger), nil
	default:
		return nil, fmt.Errorf("chief transport %q is not supported", transport)
	}
}
