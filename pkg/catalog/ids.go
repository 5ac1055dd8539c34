package catalog

import "slices"

// ModelID is implemented by every cataloged model variant.
type ModelID interface {
	// ID returns the name the upstream API expects on the wire.
	ID() string
}

// TokenLimited is a model variant with a known context size.
type TokenLimited interface {
	ModelID
	MaxTokens() int
}

// ID returns the wire identifier of any string-backed variant.
func ID[T ~string](v T) string {
	return string(v)
}

// Family names a group of related model variants.
type Family string

const (
	FamilyGPT4    Family = "gpt-4"
	FamilyGPT3    Family = "gpt-3"
	FamilyCodex   Family = "codex"
	FamilyWhisper Family = "whisper"
)

// Families returns every known family in a stable order.
func Families() []Family {
	return []Family{FamilyGPT4, FamilyGPT3, FamilyCodex, FamilyWhisper}
}

// GPT4 is a model from the GPT-4 family.
type GPT4 string

const (
	ModelGPT4        GPT4 = "gpt-4"
	ModelGPT40314    GPT4 = "gpt-4-0314"
	ModelGPT432K     GPT4 = "gpt-4-32k"
	ModelGPT432K0314 GPT4 = "gpt-4-32k-0314"
)

// GPT3 is a model from the GPT-3 and GPT-3.5 family.
type GPT3 string

const (
	ModelGPT35Turbo          GPT3 = "gpt-3.5-turbo"
	ModelGPT35Turbo16K       GPT3 = "gpt-3.5-turbo-16k"
	ModelGPT35Turbo0301      GPT3 = "gpt-3.5-turbo-0301"
	ModelTextDavinci003      GPT3 = "text-davinci-003"
	ModelTextDavinci002      GPT3 = "text-davinci-002"
	ModelTextCurie001        GPT3 = "text-curie-001"
	ModelTextBabbage001      GPT3 = "text-babbage-001"
	ModelTextAda001          GPT3 = "text-ada-001"
	ModelTextEmbeddingAda002 GPT3 = "text-embedding-ada-002"
	ModelTextDavinci001      GPT3 = "text-davinci-001"
	ModelTextDavinciEdit001  GPT3 = "text-davinci-edit-001"
	ModelDavinciInstructBeta GPT3 = "davinci-instruct-beta"
	ModelDavinci             GPT3 = "davinci"
	ModelCurieInstructBeta   GPT3 = "curie-instruct-beta"
	ModelCurie               GPT3 = "curie"
	ModelAda                 GPT3 = "ada"
	ModelBabbage             GPT3 = "babbage"
)

// Codex is a code completion model. No context sizes are published for it.
type Codex string

const (
	ModelCodeDavinci002     Codex = "code-davinci-002"
	ModelCodeCushman001     Codex = "code-cushman-001"
	ModelCodeDavinci001     Codex = "code-davinci-001"
	ModelCodeDavinciEdit001 Codex = "code-davinci-edit-001"
)

// Whisper is a speech recognition model.
type Whisper string

const (
	ModelWhisper1 Whisper = "whisper-1"
)

func (m GPT4) ID() string    { return ID(m) }
func (m GPT3) ID() string    { return ID(m) }
func (m Codex) ID() string   { return ID(m) }
func (m Whisper) ID() string { return ID(m) }

func (m GPT4) String() string    { return ID(m) }
func (m GPT3) String() string    { return ID(m) }
func (m Codex) String() string   { return ID(m) }
func (m Whisper) String() string { return ID(m) }

// GPT4Models returns every GPT-4 variant in declaration order.
func GPT4Models() []GPT4 {
	return []GPT4{ModelGPT4, ModelGPT40314, ModelGPT432K, ModelGPT432K0314}
}

// GPT3Models returns every GPT-3 variant in declaration order.
func GPT3Models() []GPT3 {
	return []GPT3{
		ModelGPT35Turbo,
		ModelGPT35Turbo16K,
		ModelGPT35Turbo0301,
		ModelTextDavinci003,
		ModelTextDavinci002,
		ModelTextCurie001,
		ModelTextBabbage001,
		ModelTextAda001,
		ModelTextEmbeddingAda002,
		ModelTextDavinci001,
		ModelTextDavinciEdit001,
		ModelDavinciInstructBeta,
		ModelDavinci,
		ModelCurieInstructBeta,
		ModelCurie,
		ModelAda,
		ModelBabbage,
	}
}

// CodexModels returns every Codex variant in declaration order.
func CodexModels() []Codex {
	return []Codex{ModelCodeDavinci002, ModelCodeCushman001, ModelCodeDavinci001, ModelCodeDavinciEdit001}
}

// WhisperModels returns every Whisper variant.
func WhisperModels() []Whisper {
	return []Whisper{ModelWhisper1}
}

// Valid reports whether m is one of the cataloged GPT-4 variants.
func (m GPT4) Valid() bool { return slices.Contains(GPT4Models(), m) }

// Valid reports whether m is one of the cataloged GPT-3 variants.
func (m GPT3) Valid() bool { return slices.Contains(GPT3Models(), m) }

// Valid reports whether m is one of the cataloged Codex variants.
func (m Codex) Valid() bool { return slices.Contains(CodexModels(), m) }

// Valid reports whether m is one of the cataloged Whisper variants.
func (m Whisper) Valid() bool { return slices.Contains(WhisperModels(), m) }
