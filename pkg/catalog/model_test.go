package catalog

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const permissionJSONFixture = `{
	"id": "modelperm-49FUp5v084tBB49tC4z8LPH5",
	"object": "model_permission",
	"created": 1669085501,
	"allow_create_engine": false,
	"allow_sampling": true,
	"allow_logprobs": true,
	"allow_search_indices": false,
	"allow_view": true,
	"allow_fine_tuning": false,
	"organization": "*",
	"group": null,
	"is_blocking": false
}`

const modelFixture = `{
	"id": "gpt-3.5-turbo",
	"object": "model",
	"created": 1677610602,
	"owned_by": "openai",
	"permission": [` + permissionJSONFixture + `],
	"root": "gpt-3.5-turbo",
	"parent": null,
	"unexpected": {"ignored": true}
}`

func TestDecodeModel(t *testing.T) {
	m, err := DecodeModel([]byte(modelFixture))
	require.NoError(t, err)

	assert.Equal(t, "gpt-3.5-turbo", m.ID)
	assert.Equal(t, "model", m.Object)
	assert.Equal(t, time.Unix(1677610602, 0).UTC(), m.Created)
	assert.Equal(t, "openai", m.OwnedBy)
	assert.Equal(t, "gpt-3.5-turbo", m.Root)
	assert.Nil(t, m.Parent)
	assert.Equal(t, "", m.ParentID())

	require.Len(t, m.Permission, 1)
	p := m.Permission[0]
	assert.Equal(t, "modelperm-49FUp5v084tBB49tC4z8LPH5", p.ID)
	assert.Equal(t, "model_permission", p.Object)
	assert.Equal(t, time.Unix(1669085501, 0).UTC(), p.Created)
	assert.False(t, p.AllowCreateEngine)
	assert.True(t, p.AllowSampling)
	assert.True(t, p.AllowLogprobs)
	assert.False(t, p.AllowSearchIndices)
	assert.True(t, p.AllowView)
	assert.False(t, p.AllowFineTuning)
	assert.Equal(t, "*", p.Organization)
	assert.Nil(t, p.Group)
	assert.False(t, p.IsBlocking)

	id, err := m.Lookup()
	require.NoError(t, err)
	assert.Equal(t, ModelGPT35Turbo, id)
}

func TestDecodeModel_ParentAbsent(t *testing.T) {
	payload := `{"id":"ada","object":"model","created":1649357491,"owned_by":"openai","permission":[],"root":"ada"}`

	m, err := DecodeModel([]byte(payload))
	require.NoError(t, err)
	assert.Nil(t, m.Parent)
	assert.Empty(t, m.Permission)
}

func TestDecodeModel_ParentAndGroupPresent(t *testing.T) {
	payload := `{"id":"ft-1","object":"model","created":"2023-07-23T10:00:00Z","owned_by":"org-x",
		"permission":[{"id":"p","object":"model_permission","created":1.5,"allow_create_engine":true,
		"allow_sampling":true,"allow_logprobs":true,"allow_search_indices":true,"allow_view":true,
		"allow_fine_tuning":true,"organization":"org-x","group":"team","is_blocking":true}],
		"root":"davinci","parent":"davinci"}`

	m, err := DecodeModel([]byte(payload))
	require.NoError(t, err)
	require.NotNil(t, m.Parent)
	assert.Equal(t, "davinci", m.ParentID())
	assert.Equal(t, time.Date(2023, 7, 23, 10, 0, 0, 0, time.UTC), m.Created)

	p := m.Permission[0]
	require.NotNil(t, p.Group)
	assert.Equal(t, "team", *p.Group)
	assert.True(t, p.IsBlocking)
	assert.Equal(t, time.Unix(1, 500_000_000).UTC(), p.Created)
}

func TestModel_RoundTrip(t *testing.T) {
	original, err := DecodeModel([]byte(modelFixture))
	require.NoError(t, err)

	encoded, err := json.Marshal(original)
	require.NoError(t, err)

	decoded, err := DecodeModel(encoded)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestModel_RoundTripFractionalCreated(t *testing.T) {
	payload := `{"id":"ft-1","object":"model","created":"2023-07-23T10:00:00.25Z","owned_by":"org-x",
		"permission":[{"id":"p","object":"model_permission","created":1.5,"allow_create_engine":true,
		"allow_sampling":true,"allow_logprobs":true,"allow_search_indices":true,"allow_view":true,
		"allow_fine_tuning":true,"organization":"org-x","group":"team","is_blocking":true}],
		"root":"davinci","parent":"davinci"}`

	original, err := DecodeModel([]byte(payload))
	require.NoError(t, err)

	encoded, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"created":1690106400.25`)
	assert.Contains(t, string(encoded), `"created":1.5`)

	decoded, err := DecodeModel(encoded)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestUnixSeconds(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{name: "whole", in: time.Unix(1677610602, 0), want: "1677610602"},
		{name: "half", in: time.Unix(1677610602, 500_000_000), want: "1677610602.5"},
		{name: "nanosecond", in: time.Unix(0, 1), want: "0.000000001"},
		{name: "negative fraction", in: time.Unix(-2, 500_000_000), want: "-1.5"},
		{name: "just before epoch", in: time.Unix(-1, 999_999_999), want: "-0.000000001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := unixSeconds(tt.in)
			assert.Equal(t, tt.want, got.String())

			var ts timestamp
			require.NoError(t, json.Unmarshal([]byte(got), &ts))
			assert.True(t, tt.in.Equal(ts.Time), "decoded %s, want %s", ts.Time, tt.in)
		})
	}
}

func TestDecodeModel_ExactFractionalSeconds(t *testing.T) {
	payload := `{"id":"ada","object":"model","created":1677610602.123456789,"owned_by":"openai","permission":[],"root":"ada"}`

	m, err := DecodeModel([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, time.Unix(1677610602, 123_456_789).UTC(), m.Created)
}

func TestDecodeModel_KeyCaseMismatch(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		record  string
		field   string
	}{
		{
			name:    "upper case model keys",
			payload: `{"ID":"ada","object":"model","created":1,"OWNED_BY":"openai","permission":[],"root":"ada"}`,
			record:  "model",
		},
		{
			name:    "mixed case parent",
			payload: `{"id":"ada","object":"model","created":1,"owned_by":"openai","permission":[],"root":"ada","Parent":"x"}`,
			record:  "model",
			field:   "parent",
		},
		{
			name:    "upper case permission key",
			payload: strings.Replace(modelFixture, `"is_blocking": false`, `"IS_BLOCKING": false`, 1),
			record:  "permission",
			field:   "is_blocking",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := DecodeModel([]byte(tt.payload))
			assert.Nil(t, m)
			require.ErrorIs(t, err, ErrMalformedRecord)

			var malformedErr *MalformedRecordError
			require.True(t, errors.As(err, &malformedErr))
			assert.Equal(t, tt.record, malformedErr.Record)
			if tt.field != "" {
				assert.Equal(t, tt.field, malformedErr.Field)
			}
		})
	}
}

func TestDecodePermission_BoolAsString(t *testing.T) {
	payload := strings.Replace(permissionJSONFixture, `"allow_view": true`, `"allow_view": "yes"`, 1)

	var p Permission
	err := json.Unmarshal([]byte(payload), &p)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedRecord)

	var malformedErr *MalformedRecordError
	require.True(t, errors.As(err, &malformedErr))
	assert.Equal(t, "permission", malformedErr.Record)
	assert.Equal(t, "allow_view", malformedErr.Field)
	assert.Equal(t, Permission{}, p, "failed decode must not populate the record")
}

func TestDecodeModel_NestedPermissionFailure(t *testing.T) {
	payload := strings.Replace(modelFixture, `"allow_sampling": true`, `"allow_sampling": 1`, 1)

	m, err := DecodeModel([]byte(payload))
	assert.Nil(t, m)
	assert.ErrorIs(t, err, ErrMalformedRecord)

	var malformedErr *MalformedRecordError
	require.True(t, errors.As(err, &malformedErr))
	assert.Equal(t, "permission", malformedErr.Record)
}

func TestDecodeModel_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		field   string
	}{
		{
			name:    "missing id",
			payload: `{"object":"model","created":1,"owned_by":"openai","permission":[],"root":"ada"}`,
			field:   "id",
		},
		{
			name:    "null root",
			payload: `{"id":"ada","object":"model","created":1,"owned_by":"openai","permission":[],"root":null}`,
			field:   "root",
		},
		{
			name:    "missing permission",
			payload: `{"id":"ada","object":"model","created":1,"owned_by":"openai","root":"ada"}`,
			field:   "permission",
		},
		{
			name:    "id is a number",
			payload: `{"id":42,"object":"model","created":1,"owned_by":"openai","permission":[],"root":"ada"}`,
			field:   "id",
		},
		{
			name:    "unparseable timestamp",
			payload: `{"id":"ada","object":"model","created":"yesterday","owned_by":"openai","permission":[],"root":"ada"}`,
		},
		{
			name:    "timestamp overflows int64",
			payload: `{"id":"ada","object":"model","created":1e300,"owned_by":"openai","permission":[],"root":"ada"}`,
		},
		{
			name:    "timestamp past year 9999",
			payload: `{"id":"ada","object":"model","created":253402300800,"owned_by":"openai","permission":[],"root":"ada"}`,
		},
		{
			name:    "timestamp with huge exponent",
			payload: `{"id":"ada","object":"model","created":1e999999999,"owned_by":"openai","permission":[],"root":"ada"}`,
		},
		{
			name:    "timestamp is a bool",
			payload: `{"id":"ada","object":"model","created":true,"owned_by":"openai","permission":[],"root":"ada"}`,
		},
		{
			name:    "not json",
			payload: `{"id":`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := DecodeModel([]byte(tt.payload))
			assert.Nil(t, m)
			require.ErrorIs(t, err, ErrMalformedRecord)

			if tt.field != "" {
				var malformedErr *MalformedRecordError
				require.True(t, errors.As(err, &malformedErr))
				assert.Equal(t, tt.field, malformedErr.Field)
			}
		})
	}
}

func TestDecodePermission_MissingFlag(t *testing.T) {
	payload := strings.Replace(permissionJSONFixture, `"is_blocking": false`, `"other": false`, 1)

	var p Permission
	err := json.Unmarshal([]byte(payload), &p)
	require.ErrorIs(t, err, ErrMalformedRecord)
	assert.Contains(t, err.Error(), "is_blocking")
}

func TestDecodeModelList(t *testing.T) {
	payload := `{"object":"list","data":[` + modelFixture + `,` +
		`{"id":"whisper-1","object":"model","created":1677532384,"owned_by":"openai-internal","permission":[],"root":"whisper-1"}]}`

	list, err := DecodeModelListFrom(strings.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, "list", list.Object)
	require.Len(t, list.Data, 2)
	assert.Equal(t, "whisper-1", list.Data[1].ID)
}

func TestDecodeModelList_Malformed(t *testing.T) {
	_, err := DecodeModelList([]byte(`{"object":"list"}`))
	assert.ErrorIs(t, err, ErrMalformedRecord)

	_, err = DecodeModelList([]byte(`{"object":"list","data":[{"id":"x"}]}`))
	assert.ErrorIs(t, err, ErrMalformedRecord)
	assert.Contains(t, err.Error(), "data[0]")
}
