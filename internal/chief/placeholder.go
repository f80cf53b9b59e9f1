package chief

import (
	"context"
	"log/slog"
	"strings"

	"irgsh/internal/logging"
)

// Placeholder is a Client that never contacts the chief.
type Placeholder struct {
	address string
	logger  *slog.Logger
}

// NewPlaceholder returns a Placeholder bound to address.
func NewPlaceholder(address string, logger *slog.Logger) *Placeholder {
	return &Placeholder{
		address: strings.TrimSpace(address),
		logger:  logging.NewComponentLogger(logger, "chief"),
	}
}

// Submit acknowledges the submission locally without a pipeline ID.
func (p *Placeholder) Submit(ctx context.Context, sub Submission) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}
	p.logger.Debug("submission not sent; placeholder transport",
		logging.String(logging.FieldChief, p.address),
		logging.String(logging.FieldRequestID, sub.RequestID),
	)
	return Receipt{RequestID: sub.RequestID}, nil
}

// Status reports the pipeline state as unknown.
func (p *Placeholder) Status(ctx context.Context, pipelineID string) (PipelineStatus, error) {
	if err := ctx.Err(); err != nil {
		return PipelineStatus{}, err
	}
	return PipelineStatus{PipelineID: pipelineID, State: StateUnknown}, nil
}

// Watch returns immediately; there is nothing to poll.
func (p *Placeholder) Watch(ctx context.Context, pipelineID string, fn func(PipelineStatus) error) error {
	p.logger.Debug("watch not started; placeholder transport",
		logging.String(logging.FieldPipelineID, pipelineID),
	)
	return ctx.Err()
}

// Logs is unsupported without a chief connection.
func (p *Placeholder) Logs(ctx context.Context, pipelineID string) (Logs, error) {
	return Logs{}, ErrUnsupported
}
