package notify

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationMessage(t *testing.T) {
	msg := RegistrationMessage("Asha", "asha@x.com", "Sunrise Mills")

	assert.Equal(t, "asha@x.com", msg.To)
	assert.Equal(t, "Welcome to Ragrids", msg.Subject)
	assert.Contains(t, msg.Body, "Hello Asha")
	assert.Contains(t, msg.Body, "Sunrise Mills")
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(zerolog.New(&buf))

	require.NoError(t, n.Send(context.Background(), Message{To: "a@x.com", Subject: "hi", Body: "secret body"}))
	assert.Contains(t, buf.String(), `"to":"a@x.com"`)
	assert.NotContains(t, buf.String(), "secret body")
}

func TestSMTPNotifier_InvalidAddress(t *testing.T) {
	n := NewSMTPNotifier(SMTPConfig{Host: "localhost", Port: 2525, From: "not an address"})

	err := n.Send(context.Background(), Message{To: "a@x.com", Subject: "s", Body: "b"})
	assert.Error(t, err)
}
