package tokenizer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/nulzo/model-catalog/pkg/catalog"
	"github.com/pkoukk/tiktoken-go"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const defaultEncoding = "cl100k_base"

var (
	// ErrContextOverflow is returned when a prompt does not fit the model.
	ErrContextOverflow = errors.New("prompt exceeds model context")
	// ErrNoLimit is returned for models without a published context size.
	ErrNoLimit = errors.New("model has no token limit")
)

// Encoder turns text into tokens.
type Encoder interface {
	Encode(text string, allowedSpecial []string, disallowedSpecial []string) []int
}

// Loader returns the encoder for a model id.
type Loader func(model string) (Encoder, error)

// Budget is the token accounting of a prompt against a model's limit.
type Budget struct {
	Model     string `json:"model" yaml:"model"`
	Limit     int    `json:"limit" yaml:"limit"`
	Prompt    int    `json:"prompt_tokens" yaml:"prompt_tokens"`
	Remaining int    `json:"remaining" yaml:"remaining"`
}

// OverflowError carries the budget that was exceeded.
type OverflowError struct {
	Budget Budget
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("%s: %d prompt tokens, limit %d", ErrContextOverflow, e.Budget.Prompt, e.Budget.Limit)
}

func (e *OverflowError) Is(target error) bool {
	return target == ErrContextOverflow
}

// Counter counts tokens with one cached encoder per model. Loading one
// model's encoder never blocks counting for another.
type Counter struct {
	logger   *zap.Logger
	load     Loader
	loads    singleflight.Group
	mu       sync.RWMutex
	encoders map[string]Encoder
}

// New creates a Counter backed by tiktoken encodings.
func New(logger *zap.Logger) *Counter {
	return NewWithLoader(logger, loadTiktoken)
}

// NewWithLoader creates a Counter with a custom encoder source.
func NewWithLoader(logger *zap.Logger, load Loader) *Counter {
	return &Counter{
		logger:   logger,
		load:     load,
		encoders: make(map[string]Encoder),
	}
}

func loadTiktoken(model string) (Encoder, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err == nil {
		return enc, nil
	}
	enc, err = tiktoken.GetEncoding(defaultEncoding)
	if err != nil {
		return nil, fmt.Errorf("load %s encoding: %w", defaultEncoding, err)
	}
	return enc, nil
}

func (c *Counter) encoder(model string) (Encoder, error) {
	if enc, ok := c.cached(model); ok {
		return enc, nil
	}

	v, err, _ := c.loads.Do(model, func() (any, error) {
		if enc, ok := c.cached(model); ok {
			return enc, nil
		}
		enc, err := c.load(model)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.encoders[model] = enc
		c.mu.Unlock()
		return enc, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Encoder), nil
}

func (c *Counter) cached(model string) (Encoder, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	enc, ok := c.encoders[model]
	return enc, ok
}

// Count returns the number of tokens text encodes to for model.
func (c *Counter) Count(model catalog.ModelID, text string) (int, error) {
	enc, err := c.encoder(model.ID())
	if err != nil {
		return 0, err
	}
	tokens := len(enc.Encode(text, nil, nil))
	c.logger.Debug("Tokens counted", zap.String("model", model.ID()), zap.Int("tokens", tokens))
	return tokens, nil
}

// Budget counts prompt against the model's limit. On overflow the returned
// error is an *OverflowError and the budget is still filled in.
func (c *Counter) Budget(model catalog.ModelID, prompt string) (Budget, error) {
	limited, ok := model.(catalog.TokenLimited)
	if !ok {
		return Budget{}, fmt.Errorf("%w: %s", ErrNoLimit, model.ID())
	}

	tokens, err := c.Count(model, prompt)
	if err != nil {
		return Budget{}, err
	}

	b := Budget{
		Model:     model.ID(),
		Limit:     limited.MaxTokens(),
		Prompt:    tokens,
		Remaining: limited.MaxTokens() - tokens,
	}
	if b.Remaining < 0 {
		return b, &OverflowError{Budget: b}
	}
	return b, nil
}
