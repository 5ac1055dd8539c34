package catalog

// MaxTokens returns the combined prompt and completion budget of the model.
// Values follow https://platform.openai.com/docs/models/gpt-4.
func (m GPT4) MaxTokens() int {
	switch m {
	case ModelGPT4:
		return 8_192
	case ModelGPT40314:
		return 8_192
	case ModelGPT432K:
		return 32_768
	case ModelGPT432K0314:
		return 32_768
	default:
		return 0
	}
}

// MaxTokens returns the combined prompt and completion budget of the model.
// Values follow https://platform.openai.com/docs/models/gpt-3-5.
func (m GPT3) MaxTokens() int {
	switch m {
	case ModelGPT35Turbo:
		return 4_096
	case ModelGPT35Turbo16K:
		return 16_384
	case ModelGPT35Turbo0301:
		return 4_096
	case ModelTextDavinci003:
		return 4_096
	case ModelTextDavinci002:
		return 4_096
	case ModelTextCurie001:
		return 2_049
	case ModelTextBabbage001:
		return 2_049
	case ModelTextAda001:
		return 2_049
	case ModelTextEmbeddingAda002:
		// see https://github.com/MicrosoftDocs/azure-docs/issues/107061
		return 8_192
	case ModelTextDavinci001:
		return 2_049
	case ModelTextDavinciEdit001:
		return 2_049
	case ModelDavinciInstructBeta:
		return 2_049
	case ModelDavinci:
		return 2_049
	case ModelCurieInstructBeta:
		return 2_049
	case ModelCurie:
		return 2_049
	case ModelAda:
		return 2_049
	case ModelBabbage:
		return 2_049
	default:
		return 0
	}
}
