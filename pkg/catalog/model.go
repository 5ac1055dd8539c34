package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Model describes a model as returned by the provider's model listing.
type Model struct {
	ID         string
	Object     string
	Created    time.Time
	OwnedBy    string
	Permission []Permission
	Root       string
	// Parent is nil when the listing omits it or sends null.
	Parent *string
}

// Permission is one access record attached to a Model.
type Permission struct {
	ID                 string
	Object             string
	Created            time.Time
	AllowCreateEngine  bool
	AllowSampling      bool
	AllowLogprobs      bool
	AllowSearchIndices bool
	AllowView          bool
	AllowFineTuning    bool
	Organization       string
	Group              *string
	IsBlocking         bool
}

// ModelList is the envelope returned by the list endpoint.
type ModelList struct {
	Object string  `json:"object"`
	Data   []Model `json:"data"`
}

// Lookup resolves the record's id against the catalog.
func (m Model) Lookup() (ModelID, error) {
	return Parse(m.ID)
}

// ParentID returns the parent id, or "" when there is none.
func (m Model) ParentID() string {
	if m.Parent == nil {
		return ""
	}
	return *m.Parent
}

// modelWire mirrors the JSON shape. Pointers tell absent fields apart from
// zero values so the validator can reject them.
type modelWire struct {
	ID         *string      `json:"id" validate:"required"`
	Object     *string      `json:"object" validate:"required"`
	Created    *timestamp   `json:"created" validate:"required"`
	OwnedBy    *string      `json:"owned_by" validate:"required"`
	Permission []Permission `json:"permission" validate:"required"`
	Root       *string      `json:"root" validate:"required"`
	Parent     *string      `json:"parent"`
}

type permissionWire struct {
	ID                 *string    `json:"id" validate:"required"`
	Object             *string    `json:"object" validate:"required"`
	Created            *timestamp `json:"created" validate:"required"`
	AllowCreateEngine  *bool      `json:"allow_create_engine" validate:"required"`
	AllowSampling      *bool      `json:"allow_sampling" validate:"required"`
	AllowLogprobs      *bool      `json:"allow_logprobs" validate:"required"`
	AllowSearchIndices *bool      `json:"allow_search_indices" validate:"required"`
	AllowView          *bool      `json:"allow_view" validate:"required"`
	AllowFineTuning    *bool      `json:"allow_fine_tuning" validate:"required"`
	Organization       *string    `json:"organization" validate:"required"`
	Group              *string    `json:"group"`
	IsBlocking         *bool      `json:"is_blocking" validate:"required"`
}

func (m *Model) UnmarshalJSON(data []byte) error {
	var w modelWire
	if err := json.Unmarshal(data, &w); err != nil {
		return malformed("model", err)
	}
	if err := checkKeys("model", data, modelKeys); err != nil {
		return err
	}
	if err := validate.Struct(&w); err != nil {
		return malformed("model", err)
	}

	*m = Model{
		ID:         *w.ID,
		Object:     *w.Object,
		Created:    w.Created.Time,
		OwnedBy:    *w.OwnedBy,
		Permission: w.Permission,
		Root:       *w.Root,
		Parent:     w.Parent,
	}
	return nil
}

func (p *Permission) UnmarshalJSON(data []byte) error {
	var w permissionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return malformed("permission", err)
	}
	if err := checkKeys("permission", data, permissionKeys); err != nil {
		return err
	}
	if err := validate.Struct(&w); err != nil {
		return malformed("permission", err)
	}

	*p = Permission{
		ID:                 *w.ID,
		Object:             *w.Object,
		Created:            w.Created.Time,
		AllowCreateEngine:  *w.AllowCreateEngine,
		AllowSampling:      *w.AllowSampling,
		AllowLogprobs:      *w.AllowLogprobs,
		AllowSearchIndices: *w.AllowSearchIndices,
		AllowView:          *w.AllowView,
		AllowFineTuning:    *w.AllowFineTuning,
		Organization:       *w.Organization,
		Group:              w.Group,
		IsBlocking:         *w.IsBlocking,
	}
	return nil
}

type modelJSON struct {
	ID         string       `json:"id"`
	Object     string       `json:"object"`
	Created    json.Number  `json:"created"`
	OwnedBy    string       `json:"owned_by"`
	Permission []Permission `json:"permission"`
	Root       string       `json:"root"`
	Parent     *string      `json:"parent,omitempty"`
}

type permissionJSON struct {
	ID                 string      `json:"id"`
	Object             string      `json:"object"`
	Created            json.Number `json:"created"`
	AllowCreateEngine  bool        `json:"allow_create_engine"`
	AllowSampling      bool        `json:"allow_sampling"`
	AllowLogprobs      bool        `json:"allow_logprobs"`
	AllowSearchIndices bool        `json:"allow_search_indices"`
	AllowView          bool        `json:"allow_view"`
	AllowFineTuning    bool        `json:"allow_fine_tuning"`
	Organization       string      `json:"organization"`
	Group              *string     `json:"group,omitempty"`
	IsBlocking         bool        `json:"is_blocking"`
}

func (m Model) MarshalJSON() ([]byte, error) {
	perms := m.Permission
	if perms == nil {
		perms = []Permission{}
	}
	return json.Marshal(modelJSON{
		ID:         m.ID,
		Object:     m.Object,
		Created:    unixSeconds(m.Created),
		OwnedBy:    m.OwnedBy,
		Permission: perms,
		Root:       m.Root,
		Parent:     m.Parent,
	})
}

func (p Permission) MarshalJSON() ([]byte, error) {
	return json.Marshal(permissionJSON{
		ID:                 p.ID,
		Object:             p.Object,
		Created:            unixSeconds(p.Created),
		AllowCreateEngine:  p.AllowCreateEngine,
		AllowSampling:      p.AllowSampling,
		AllowLogprobs:      p.AllowLogprobs,
		AllowSearchIndices: p.AllowSearchIndices,
		AllowView:          p.AllowView,
		AllowFineTuning:    p.AllowFineTuning,
		Organization:       p.Organization,
		Group:              p.Group,
		IsBlocking:         p.IsBlocking,
	})
}

// DecodeModel decodes a single model record.
func DecodeModel(data []byte) (*Model, error) {
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, malformed("model", err)
	}
	return &m, nil
}

// DecodeModelList decodes a list envelope. The first malformed entry fails
// the whole list.
func DecodeModelList(data []byte) (*ModelList, error) {
	var envelope struct {
		Object string            `json:"object"`
		Data   []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, malformed("list", err)
	}
	if err := checkKeys("list", data, listKeys); err != nil {
		return nil, err
	}
	if envelope.Data == nil {
		return nil, &MalformedRecordError{Record: "list", Field: "data", Reason: "data is a required field"}
	}

	list := &ModelList{Object: envelope.Object, Data: make([]Model, 0, len(envelope.Data))}
	for i, raw := range envelope.Data {
		m, err := DecodeModel(raw)
		if err != nil {
			return nil, fmt.Errorf("data[%d]: %w", i, err)
		}
		list.Data = append(list.Data, *m)
	}
	return list, nil
}

// DecodeModelListFrom reads a list envelope from r.
func DecodeModelListFrom(r io.Reader) (*ModelList, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read model list: %w", err)
	}
	return DecodeModelList(data)
}

// Wire names are snake_case and matched exactly. encoding/json folds case on
// its own, so keys are checked against the raw object.
var (
	modelKeys      = jsonKeys(reflect.TypeOf(modelWire{}))
	permissionKeys = jsonKeys(reflect.TypeOf(permissionWire{}))
	listKeys       = []string{"object", "data"}
)

func jsonKeys(t reflect.Type) []string {
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		keys = append(keys, name)
	}
	return keys
}

// checkKeys rejects keys that only match a wire name case-insensitively.
// Unknown keys are ignored.
func checkKeys(record string, data []byte, keys []string) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return malformed(record, err)
	}
	for k := range raw {
		for _, want := range keys {
			if k != want && strings.EqualFold(k, want) {
				return &MalformedRecordError{
					Record: record,
					Field:  want,
					Reason: fmt.Sprintf("unexpected key %q", k),
				}
			}
		}
	}
	return nil
}

// Unix-second bounds of a four-digit year, the range RFC 3339 can express.
var (
	minUnix = time.Date(0, time.January, 1, 0, 0, 0, 0, time.UTC).Unix()
	maxUnix = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC).Unix()

	nanosPerSecond = big.NewInt(int64(time.Second))
)

// unixSeconds formats t as unix seconds, with a fraction only when t has one.
func unixSeconds(t time.Time) json.Number {
	sec, nsec := t.Unix(), int64(t.Nanosecond())
	if nsec == 0 {
		return json.Number(strconv.FormatInt(sec, 10))
	}

	sign := ""
	if sec < 0 {
		sign = "-"
		sec, nsec = -sec-1, int64(time.Second)-nsec
	}
	frac := strings.TrimRight(fmt.Sprintf("%09d", nsec), "0")
	return json.Number(fmt.Sprintf("%s%d.%s", sign, sec, frac))
}

// timestamp accepts unix seconds (integer or fractional) or an RFC 3339 string.
type timestamp struct {
	time.Time
}

var timeType = reflect.TypeOf(time.Time{})

func (t *timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return &json.UnmarshalTypeError{Value: "empty", Type: timeType}
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return &json.UnmarshalTypeError{Value: "string " + strconv.Quote(s), Type: timeType}
		}
		t.Time = parsed.UTC()
		return nil
	}

	parsed, ok := parseUnixSeconds(string(data))
	if !ok {
		return &json.UnmarshalTypeError{Value: "number " + string(data), Type: timeType}
	}
	t.Time = parsed
	return nil
}

// parseUnixSeconds reads a JSON number exactly, without going through float64.
// Digits past nanoseconds are truncated toward the earlier instant.
func parseUnixSeconds(s string) (time.Time, bool) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return time.Time{}, false
	}
	scaled := r.Mul(r, new(big.Rat).SetInt(nanosPerSecond))

	nanos := new(big.Int).Div(scaled.Num(), scaled.Denom())
	sec, nsec := new(big.Int).DivMod(nanos, nanosPerSecond, new(big.Int))
	if !sec.IsInt64() || sec.Int64() < minUnix || sec.Int64() > maxUnix {
		return time.Time{}, false
	}
	return time.Unix(sec.Int64(), nsec.Int64()).UTC(), true
}
