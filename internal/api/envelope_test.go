package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"encoding/json/v2"
)

func TestEnvelopeTransformer_Success(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "200", map[string]string{"id": "prod-123"})
	require.NoError(t, err)

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))

	assert.Equal(t, float64(1), out["v"])
	assert.Equal(t, true, out["success"])
	assert.Contains(t, out, "data")
	assert.NotContains(t, out, "error")
}

func TestEnvelopeTransformer_SuccessNilData(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "204", nil)
	require.NoError(t, err)

	env, ok := result.(*Envelope)
	require.True(t, ok)
	assert.True(t, env.Success)
	assert.Nil(t, env.Data)
}

func TestEnvelopeTransformer_SimpleError(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "404", &APIError{Message: "Resource not found"})
	require.NoError(t, err)

	env, ok := result.(*Envelope)
	require.True(t, ok)
	assert.False(t, env.Success)
	assert.Equal(t, "Resource not found", env.Error)
	assert.Nil(t, env.ErrorDetail)
}

func TestEnvelopeTransformer_DetailedError(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "409", &APIError{
		Code:    "ALREADY_EXISTS",
		Message: "Email already in use",
	})
	require.NoError(t, err)

	env, ok := result.(*Envelope)
	require.True(t, ok)
	assert.False(t, env.Success)
	assert.Equal(t, "Email already in use", env.Error)
	require.NotNil(t, env.ErrorDetail)
	assert.Equal(t, "ALREADY_EXISTS", env.ErrorDetail.Code)
}
