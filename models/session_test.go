package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryParamsPreserveOrderThroughStorage(t *testing.T) {
	in := QueryParams{
		{Key: "Zebra", Value: "1"},
		{Key: "alpha", Value: "2"},
		{Key: "UID", Value: "abc"},
		{Key: "alpha", Value: "3"},
	}

	val, err := in.Value()
	require.NoError(t, err)

	var out QueryParams
	require.NoError(t, out.Scan(val))

	assert.Equal(t, in, out)
}

func TestQueryParamsScanBytes(t *testing.T) {
	raw, err := json.Marshal(QueryParams{{Key: "a", Value: "1"}})
	require.NoError(t, err)

	var out QueryParams
	require.NoError(t, out.Scan(raw))
	assert.Equal(t, QueryParams{{Key: "a", Value: "1"}}, out)
}

func TestQueryParamsScanNil(t *testing.T) {
	var out QueryParams
	require.NoError(t, out.Scan(nil))
	assert.Nil(t, out)
}

func TestQueryParamsScanRejectsUnknownType(t *testing.T) {
	var out QueryParams
	assert.Error(t, out.Scan(42))
}

func TestQueryParamsNilValue(t *testing.T) {
	var q QueryParams
	val, err := q.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", val)
}

func TestQueryParamsGetReturnsFirstMatch(t *testing.T) {
	q := QueryParams{
		{Key: "uid", Value: "first"},
		{Key: "uid", Value: "second"},
	}

	v, ok := q.Get("uid")
	assert.True(t, ok)
	assert.Equal(t, "first", v)

	_, ok = q.Get("missing")
	assert.False(t, ok)
}

func TestSessionIsTerminal(t *testing.T) {
	s := &Session{Status: SessionStatusActive}
	assert.False(t, s.IsTerminal())

	for _, status := range []string{SessionStatusComplete, SessionStatusTerminate, SessionStatusQuotaFull} {
		s.Status = status
		assert.True(t, s.IsTerminal())
	}
}
