package authflow

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// RequestVerificationMessage asks for a fresh verification code to be
// generated and delivered to the email.
type RequestVerificationMessage struct {
	Email string `json:"email" example:"pepe.rone@example.com" doc:"Email address to verify."`
}

func (m RequestVerificationMessage) Type() string { return "auth.verification_request" }

// RequestVerificationHandler is the command wrapper around the verification
// flow, for dispatchers that route by message type.
type RequestVerificationHandler struct {
	flow *VerificationFlow
}

func NewRequestVerificationHandler(flow *VerificationFlow) *RequestVerificationHandler {
	return &RequestVerificationHandler{flow: flow}
}

func (h *RequestVerificationHandler) Execute(ctx context.Context, event RequestVerificationMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during verification request")
	default:
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	return h.flow.RequestCode(ctx, event.Email)
}
