package notify

import (
	"context"
	"errors"
	"testing"

	"jobalert/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderBody(t *testing.T) {
	fresh := []domain.JobPosting{
		{ID: "1", Title: "Software Engineer II", Location: "Redmond, WA", URL: "https://example.com/job/1"},
		{ID: "2"},
	}

	body, err := RenderBody(fresh)
	require.NoError(t, err)

	assert.Contains(t, body, "Software Engineer II")
	assert.Contains(t, body, "Redmond, WA")
	assert.Contains(t, body, `href="https://example.com/job/1"`)
	assert.Contains(t, body, "2 new positions found")

	// defaults for the id-only posting
	assert.Contains(t, body, "Unknown Role")
	assert.Contains(t, body, "Unknown Location")
}

func TestRenderBodySingularHeader(t *testing.T) {
	body, err := RenderBody([]domain.JobPosting{{ID: "1", Title: "Solo"}})
	require.NoError(t, err)
	assert.Contains(t, body, "1 new position found")
}

func TestRenderBodyEscapesHTML(t *testing.T) {
	body, err := RenderBody([]domain.JobPosting{{ID: "1", Title: `<script>alert("x")</script>`}})
	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
}

func TestNotifyMissingConfigIsNoOp(t *testing.T) {
	tests := []struct {
		name   string
		mailer *Mailer
	}{
		{"missing sender", NewMailer("smtp.example.com", 587, "", "to@example.com")},
		{"missing recipient", NewMailer("smtp.example.com", 587, "from@example.com", "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mailer.Notify(context.Background(), []domain.JobPosting{{ID: "1"}})
			assert.Error(t, err)
		})
	}
}

func TestNotifyMissingCredentialIsNoOp(t *testing.T) {
	m := NewMailer("smtp.example.com", 587, "from@example.com", "to@example.com")
	m.lookupPassword = func(account string) (string, error) {
		return "", errors.New("not found")
	}

	err := m.Notify(context.Background(), []domain.JobPosting{{ID: "1"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credential")
}
