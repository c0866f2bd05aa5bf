package authflow_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authflow "github.com/hakbeom/go-authflow"
)

func TestNewSMTPNotifier(t *testing.T) {
	t.Run("host and from are required", func(t *testing.T) {
		_, err := authflow.NewSMTPNotifier(authflow.SMTPConfig{Host: "smtp.example.com"})
		assert.Error(t, err)

		_, err = authflow.NewSMTPNotifier(authflow.SMTPConfig{From: "noreply@example.com"})
		assert.Error(t, err)
	})

	t.Run("valid config", func(t *testing.T) {
		n, err := authflow.NewSMTPNotifier(authflow.SMTPConfig{
			Host: "smtp.example.com",
			From: "noreply@example.com",
		})
		require.NoError(t, err)
		assert.NotNil(t, n)
	})
}

func TestLogNotifier(t *testing.T) {
	n := authflow.LogNotifier{}
	assert.NoError(t, n.Deliver(context.Background(), "user@example.com", "subject", "body"))
}
