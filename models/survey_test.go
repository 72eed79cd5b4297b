package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaultMessages(t *testing.T) {
	s := &Survey{}
	s.ApplyDefaultMessages()

	assert.Equal(t, DefaultCompletePageMessage, s.CompletePageMessage)
	assert.Equal(t, DefaultTerminatePageMessage, s.TerminatePageMessage)
	assert.Equal(t, DefaultQuotaFullPageMessage, s.QuotaFullPageMessage)
	assert.Equal(t, DefaultSecurityTermPageMessage, s.SecurityTermPageMessage)
}

func TestApplyDefaultMessagesKeepsCustomCopy(t *testing.T) {
	s := &Survey{CompletePageMessage: "custom thanks"}
	s.ApplyDefaultMessages()

	assert.Equal(t, "custom thanks", s.CompletePageMessage)
	assert.Equal(t, DefaultTerminatePageMessage, s.TerminatePageMessage)
}

func TestMessageFor(t *testing.T) {
	s := &Survey{
		CompletePageMessage:     "c",
		TerminatePageMessage:    "t",
		QuotaFullPageMessage:    "q",
		SecurityTermPageMessage: "s",
	}

	assert.Equal(t, "c", s.MessageFor(SessionStatusComplete, false))
	assert.Equal(t, "q", s.MessageFor(SessionStatusQuotaFull, false))
	assert.Equal(t, "t", s.MessageFor(SessionStatusTerminate, false))
	assert.Equal(t, "s", s.MessageFor(SessionStatusTerminate, true))
}
