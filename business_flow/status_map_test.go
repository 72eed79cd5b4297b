package businessflow

import (
	"testing"

	"github.com/panelbridge/panelbridge/models"
	"github.com/stretchr/testify/assert"
)

func TestMapExitStatus(t *testing.T) {
	cases := []struct {
		raw      string
		status   string
		security bool
	}{
		{"1", models.SessionStatusComplete, false},
		{"complete", models.SessionStatusComplete, false},
		{"completed", models.SessionStatusComplete, false},
		{"COMPLETE", models.SessionStatusComplete, false},
		{" complete ", models.SessionStatusComplete, false},
		{"3", models.SessionStatusQuotaFull, false},
		{"quota_full", models.SessionStatusQuotaFull, false},
		{"quotafull", models.SessionStatusQuotaFull, false},
		{"4", models.SessionStatusTerminate, true},
		{"security", models.SessionStatusTerminate, true},
		{"security_term", models.SessionStatusTerminate, true},
		{"2", models.SessionStatusTerminate, false},
		{"terminate", models.SessionStatusTerminate, false},
		{"terminated", models.SessionStatusTerminate, false},
		{"", models.SessionStatusTerminate, false},
		{"99", models.SessionStatusTerminate, false},
		{"garbage", models.SessionStatusTerminate, false},
		{"<script>", models.SessionStatusTerminate, false},
	}

	for _, tc := range cases {
		t.Run("raw="+tc.raw, func(t *testing.T) {
			out := MapExitStatus(tc.raw)
			assert.Equal(t, tc.status, out.Status)
			assert.Equal(t, tc.security, out.Security)
			assert.NotEmpty(t, out.PageTitle)
		})
	}
}

func TestParseStatusPage(t *testing.T) {
	status, security, err := ParseStatusPage("complete")
	assert.NoError(t, err)
	assert.Equal(t, models.SessionStatusComplete, status)
	assert.False(t, security)

	status, security, err = ParseStatusPage("security-term")
	assert.NoError(t, err)
	assert.Equal(t, models.SessionStatusTerminate, status)
	assert.True(t, security)

	status, security, err = ParseStatusPage("quota-full")
	assert.NoError(t, err)
	assert.Equal(t, models.SessionStatusQuotaFull, status)
	assert.False(t, security)

	_, _, err = ParseStatusPage("nonsense")
	assert.ErrorIs(t, err, ErrInvalidStatusPage)

	_, _, err = ParseStatusPage("")
	assert.ErrorIs(t, err, ErrInvalidStatusPage)
}
