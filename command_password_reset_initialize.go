package authflow

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// InitializePasswordResetMessage starts a reset for a verified email.
type InitializePasswordResetMessage struct {
	Email      string `json:"email" example:"pepe.rone@example.com" doc:"Email address of the account."`
	OnResponse func(resp *InitializePasswordResetResponse)
}

func (m InitializePasswordResetMessage) Type() string { return "auth.password_reset" }

// InitializePasswordResetResponse carries the issued token back to the
// dispatcher, which owns delivering it to the requester.
type InitializePasswordResetResponse struct {
	ResetToken string
	Email      string
}

// InitializePasswordResetHandler is the command wrapper around reset token
// issuance.
type InitializePasswordResetHandler struct {
	flow *PasswordResetFlow
}

func NewInitializePasswordResetHandler(flow *PasswordResetFlow) *InitializePasswordResetHandler {
	return &InitializePasswordResetHandler{flow: flow}
}

func (h *InitializePasswordResetHandler) Execute(ctx context.Context, event InitializePasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset initialization",
		)
	default:
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	token, err := h.flow.RequestReset(ctx, event.Email)
	if err != nil {
		return err
	}

	if event.OnResponse != nil {
		event.OnResponse(&InitializePasswordResetResponse{
			ResetToken: token,
			Email:      event.Email,
		})
	}

	return nil
}
