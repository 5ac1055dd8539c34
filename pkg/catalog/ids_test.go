package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_WireStrings(t *testing.T) {
	tests := []struct {
		model ModelID
		want  string
	}{
		{ModelGPT4, "gpt-4"},
		{ModelGPT40314, "gpt-4-0314"},
		{ModelGPT432K, "gpt-4-32k"},
		{ModelGPT432K0314, "gpt-4-32k-0314"},
		{ModelGPT35Turbo, "gpt-3.5-turbo"},
		{ModelGPT35Turbo16K, "gpt-3.5-turbo-16k"},
		{ModelGPT35Turbo0301, "gpt-3.5-turbo-0301"},
		{ModelTextDavinci003, "text-davinci-003"},
		{ModelTextDavinci002, "text-davinci-002"},
		{ModelTextCurie001, "text-curie-001"},
		{ModelTextBabbage001, "text-babbage-001"},
		{ModelTextAda001, "text-ada-001"},
		{ModelTextEmbeddingAda002, "text-embedding-ada-002"},
		{ModelTextDavinci001, "text-davinci-001"},
		{ModelTextDavinciEdit001, "text-davinci-edit-001"},
		{ModelDavinciInstructBeta, "davinci-instruct-beta"},
		{ModelDavinci, "davinci"},
		{ModelCurieInstructBeta, "curie-instruct-beta"},
		{ModelCurie, "curie"},
		{ModelAda, "ada"},
		{ModelBabbage, "babbage"},
		{ModelCodeDavinci002, "code-davinci-002"},
		{ModelCodeCushman001, "code-cushman-001"},
		{ModelCodeDavinci001, "code-davinci-001"},
		{ModelCodeDavinciEdit001, "code-davinci-edit-001"},
		{ModelWhisper1, "whisper-1"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.model.ID())
		})
	}
}

func TestID_Generic(t *testing.T) {
	type custom string
	assert.Equal(t, "anything", ID(custom("anything")))
	assert.Equal(t, "gpt-4-32k", ID(ModelGPT432K))
}

func TestParse_RoundTrip(t *testing.T) {
	for _, e := range Entries() {
		m, err := Parse(e.ID)
		require.NoError(t, err)
		assert.Equal(t, e.ID, m.ID())
		assert.Equal(t, e.Family, FamilyOf(m))
	}
}

func TestParse_Unknown(t *testing.T) {
	_, err := Parse("gpt-5")
	assert.ErrorIs(t, err, ErrUnknownModel)
}

func TestMaxTokensFor(t *testing.T) {
	limit, ok := MaxTokensFor("gpt-3.5-turbo-16k")
	assert.True(t, ok)
	assert.Equal(t, 16_384, limit)

	_, ok = MaxTokensFor("whisper-1")
	assert.False(t, ok)

	_, ok = MaxTokensFor("nope")
	assert.False(t, ok)
}

func TestEntries(t *testing.T) {
	entries := Entries()
	assert.Len(t, entries, 26)

	gpt4 := EntriesFor(FamilyGPT4)
	require.Len(t, gpt4, 4)
	assert.Equal(t, Entry{ID: "gpt-4", Family: FamilyGPT4, MaxTokens: 8_192, HasLimit: true}, gpt4[0])

	codex := EntriesFor(FamilyCodex)
	require.Len(t, codex, 4)
	for _, e := range codex {
		assert.False(t, e.HasLimit)
		assert.Zero(t, e.MaxTokens)
	}

	assert.Len(t, EntriesFor(""), 26)
	assert.Empty(t, EntriesFor("llama"))
}
