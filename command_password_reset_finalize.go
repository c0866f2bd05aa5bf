package authflow

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// FinalizePasswordResetMessage consumes a reset token and installs the new
// password.
type FinalizePasswordResetMessage struct {
	ResetToken  string `json:"reset_token" example:"350399bc-c095-4bdc-a59c-3352d44848e4" doc:"One-time reset token."`
	NewPassword string `json:"new_password" doc:"Replacement password."`
}

func (m FinalizePasswordResetMessage) Type() string { return "auth.password_reset_finalize" }

// FinalizePasswordResetHandler is the command wrapper around reset token
// consumption.
type FinalizePasswordResetHandler struct {
	flow *PasswordResetFlow
}

func NewFinalizePasswordResetHandler(flow *PasswordResetFlow) *FinalizePasswordResetHandler {
	return &FinalizePasswordResetHandler{flow: flow}
}

func (h *FinalizePasswordResetHandler) Execute(ctx context.Context, event FinalizePasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset finalization",
		)
	default:
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	return h.flow.ResetPassword(ctx, event.ResetToken, event.NewPassword)
}
