package domain

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/nulzo/model-catalog/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProblem_MarshalJSON_FlattensExtensions(t *testing.T) {
	p := NotFoundError("model gpt-5 not found", WithExtension("model", "gpt-5"))

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "Not Found", body["title"])
	assert.Equal(t, float64(http.StatusNotFound), body["status"])
	assert.Equal(t, "gpt-5", body["model"])
	assert.Equal(t, "about:blank", body["type"])
}

func TestMalformedRecordError(t *testing.T) {
	_, decodeErr := catalog.DecodeModel([]byte(`{"id": 1}`))
	require.Error(t, decodeErr)

	p := MalformedRecordError(fmt.Errorf("import: %w", decodeErr))
	assert.Equal(t, http.StatusBadRequest, p.Status)
	assert.Equal(t, "model", p.Extensions["record"])
	assert.Equal(t, "id", p.Extensions["field"])
	assert.ErrorIs(t, p, catalog.ErrMalformedRecord)
}
