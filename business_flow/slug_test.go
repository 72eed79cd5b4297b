package businessflow

import (
	"strings"
	"testing"

	"github.com/panelbridge/panelbridge/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Healthcare Study", "healthcare-study"},
		{"punctuation collapses", "Q3 -- Wave #2 (US)", "q3-wave-2-us"},
		{"already clean", "brand-tracker", "brand-tracker"},
		{"leading and trailing separators", "  !!Panel!!  ", "panel"},
		{"unicode stripped", "étude santé", "tude-sant"},
		{"digits kept", "Study 2026", "study-2026"},
		{"empty", "", ""},
		{"only punctuation", "!!!", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Slugify(tc.in))
		})
	}
}

func TestNewTrackingIDFormat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		id, err := NewTrackingID()
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(id, utils.TrackingIDPrefix))
		suffix := strings.TrimPrefix(id, utils.TrackingIDPrefix)
		assert.Len(t, suffix, utils.TrackingIDLength)
		for _, r := range suffix {
			assert.Contains(t, utils.TrackingIDCharset, string(r))
		}
		seen[id] = true
	}

	// 200 draws from a 36^6 space colliding would point at a broken
	// random source.
	assert.Greater(t, len(seen), 190)
}
