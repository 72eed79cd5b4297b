package urlbuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"https URL", "https://panel.example.com/start", false},
		{"http URL with query", "http://panel.example.com/start?sid=1", false},
		{"missing scheme", "panel.example.com/start", true},
		{"relative path", "/start", true},
		{"unsupported scheme", "ftp://panel.example.com", true},
		{"scheme only", "https://", true},
		{"empty", "", true},
		{"invalid percent escape", "https://panel.example.com/%zz", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.raw)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrMalformedURL)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBuildAppendsWithoutReordering(t *testing.T) {
	base := "https://survey.example.com/run?zebra=1&alpha=2"
	out, err := Build(base, []Param{
		{Key: "uid", Value: "abc"},
		{Key: "src", Value: "panel"},
	})
	require.NoError(t, err)

	// Existing parameters keep their original order, new ones follow in
	// append order.
	assert.Equal(t, "https://survey.example.com/run?zebra=1&alpha=2&uid=abc&src=panel", out)
}

func TestBuildFirstParameterUsesQuestionMark(t *testing.T) {
	out, err := Build("https://survey.example.com/run", []Param{{Key: "uid", Value: "abc"}})
	require.NoError(t, err)
	assert.Equal(t, "https://survey.example.com/run?uid=abc", out)
}

func TestBuildEscapesKeysAndValues(t *testing.T) {
	out, err := Build("https://survey.example.com/run", []Param{
		{Key: "q key", Value: "a&b=c"},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://survey.example.com/run?q+key=a%26b%3Dc", out)
}

func TestBuildPreservesFragmentPosition(t *testing.T) {
	out, err := Build("https://survey.example.com/run#section", []Param{{Key: "uid", Value: "1"}})
	require.NoError(t, err)
	assert.Equal(t, "https://survey.example.com/run?uid=1#section", out)
}

func TestBuildNoParamsReturnsBaseUnchanged(t *testing.T) {
	base := "https://survey.example.com/run?b=2&a=1"
	out, err := Build(base, nil)
	require.NoError(t, err)
	assert.Equal(t, base, out)
}

func TestBuildRejectsMalformedBase(t *testing.T) {
	_, err := Build("not a url", []Param{{Key: "uid", Value: "1"}})
	assert.ErrorIs(t, err, ErrMalformedURL)
}

func TestSubstitutePlaceholder(t *testing.T) {
	tmpl := "https://vendor.example.com/cb?status=1&user_id={{TOID}}"
	out := SubstitutePlaceholder(tmpl, "TOID", "resp-42")
	assert.Equal(t, "https://vendor.example.com/cb?status=1&user_id=resp-42", out)
}

func TestSubstitutePlaceholderKeepsValueVerbatim(t *testing.T) {
	tmpl := "https://vendor.example.com/cb?user_id={{TOID}}"
	out := SubstitutePlaceholder(tmpl, "TOID", "a b&c")
	assert.Equal(t, "https://vendor.example.com/cb?user_id=a b&c", out)
}

func TestSubstitutePlaceholderFirstOccurrenceOnly(t *testing.T) {
	tmpl := "https://vendor.example.com/cb?a={{TOID}}&b={{TOID}}"
	out := SubstitutePlaceholder(tmpl, "TOID", "x")
	assert.Equal(t, "https://vendor.example.com/cb?a=x&b={{TOID}}", out)
}

func TestSubstitutePlaceholderMissingTokenLeavesInputIntact(t *testing.T) {
	tmpl := "https://vendor.example.com/cb?user_id={{OTHER}}"
	out := SubstitutePlaceholder(tmpl, "TOID", "x")
	assert.Equal(t, tmpl, out)
}
