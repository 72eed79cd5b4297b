package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRebuildCallbackURLs(t *testing.T) {
	v := &Vendor{
		BaseRedirectURL:      "https://panel.example.com/cb",
		EntryParameter:       "user_id",
		ParameterPlaceholder: "TOID",
	}
	v.RebuildCallbackURLs()

	assert.Equal(t, "https://panel.example.com/cb?status=1&user_id={{TOID}}", v.CompleteURL)
	assert.Equal(t, "https://panel.example.com/cb?status=2&user_id={{TOID}}", v.TerminateURL)
	assert.Equal(t, "https://panel.example.com/cb?status=3&user_id={{TOID}}", v.QuotaFullURL)
	assert.Equal(t, "https://panel.example.com/cb?status=4&user_id={{TOID}}", v.SecurityTermURL)
}

func TestRebuildCallbackURLsBaseWithQuery(t *testing.T) {
	v := &Vendor{
		BaseRedirectURL:      "https://panel.example.com/cb?src=x",
		EntryParameter:       "pid",
		ParameterPlaceholder: "RID",
	}
	v.RebuildCallbackURLs()

	assert.Equal(t, "https://panel.example.com/cb?src=x&status=1&pid={{RID}}", v.CompleteURL)
	assert.Equal(t, "https://panel.example.com/cb?src=x&status=4&pid={{RID}}", v.SecurityTermURL)
}

func TestRebuildCallbackURLsEmptyBaseLeavesURLs(t *testing.T) {
	v := &Vendor{
		CompleteURL: "https://old.example.com/cb?status=1&user_id={{TOID}}",
	}
	v.RebuildCallbackURLs()
	assert.Equal(t, "https://old.example.com/cb?status=1&user_id={{TOID}}", v.CompleteURL)
}

func TestCallbackURLFor(t *testing.T) {
	v := &Vendor{
		CompleteURL:     "https://p.example.com/c",
		TerminateURL:    "https://p.example.com/t",
		QuotaFullURL:    "https://p.example.com/q",
		SecurityTermURL: "https://p.example.com/s",
	}

	assert.Equal(t, v.CompleteURL, v.CallbackURLFor(SessionStatusComplete, false))
	assert.Equal(t, v.QuotaFullURL, v.CallbackURLFor(SessionStatusQuotaFull, false))
	assert.Equal(t, v.TerminateURL, v.CallbackURLFor(SessionStatusTerminate, false))
	assert.Equal(t, v.SecurityTermURL, v.CallbackURLFor(SessionStatusTerminate, true))
}

func TestCallbackURLForSecurityFallsBackToTerminate(t *testing.T) {
	v := &Vendor{
		TerminateURL:    "https://p.example.com/t",
		SecurityTermURL: "",
	}
	assert.Equal(t, v.TerminateURL, v.CallbackURLFor(SessionStatusTerminate, true))
}
