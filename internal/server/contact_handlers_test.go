package server

import (
	"net/http"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitContact(t *testing.T) {
	t.Run("valid submission is mailed", func(t *testing.T) {
		env := newTestEnv(t)

		resp := env.jsonRequest(t, http.MethodPost, "/api/contact", map[string]string{
			"name":    "Jordan Reed",
			"email":   "jordan@example.com",
			"subject": "Hello",
			"message": "I have a question about one of your posts.",
		}, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, env.mailer.sent, 1)
		assert.Equal(t, "jordan@example.com", env.mailer.sent[0].ReplyTo)
	})

	t.Run("short message is rejected with field errors", func(t *testing.T) {
		env := newTestEnv(t)

		resp := env.jsonRequest(t, http.MethodPost, "/api/contact", map[string]string{
			"name":    "Jordan Reed",
			"email":   "jordan@example.com",
			"subject": "Hello",
			"message": "hi",
		}, nil)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body models.ErrorResponse
		decodeBody(t, resp, &body)
		assert.Contains(t, body.Fields, "message")
		assert.Empty(t, env.mailer.sent)
	})

	t.Run("mail failure maps to bad gateway", func(t *testing.T) {
		env := newTestEnv(t)
		env.mailer.sendErr = assert.AnError

		resp := env.jsonRequest(t, http.MethodPost, "/api/contact", map[string]string{
			"name":    "Jordan Reed",
			"email":   "jordan@example.com",
			"subject": "Hello",
			"message": "I have a question about one of your posts.",
		}, nil)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	})
}
