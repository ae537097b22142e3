package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Text: "A short summary.", Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Text: "Answer: blue"},
	)

	resp1, err := mock.Generate(context.Background(), UserPrompt("", "summarize"))
	require.NoError(t, err)
	assert.Equal(t, "A short summary.", resp1.Text)
	assert.Equal(t, 10, resp1.Usage.InputTokens)
	assert.Equal(t, "end", resp1.StopReason)

	resp2, err := mock.Generate(context.Background(), UserPrompt("", "ask"))
	require.NoError(t, err)
	assert.Equal(t, "Answer: blue", resp2.Text)
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	_, err := NewMockProvider().Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	assert.True(t, errors.As(err, &unavail), "got %T", err)
}

func TestMockProvider_ValidatesSchema(t *testing.T) {
	mock := NewMockProvider(MockResponse{Text: `{"questions":[]}`})
	req := UserPrompt("", "quiz")
	req.Schema = testQuizSchema()

	_, err := mock.Generate(context.Background(), req)
	var invErr *ErrInvalidResponse
	assert.True(t, errors.As(err, &invErr), "got %T", err)
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(MockResponse{Text: "ok"})

	_, _ = mock.Generate(context.Background(), UserPrompt("sys", "hello"))

	assert.Equal(t, 1, mock.CallCount())
	last, ok := mock.LastCall()
	require.True(t, ok)
	assert.Equal(t, "sys", last.System)
	assert.Equal(t, "hello", last.Messages[0].Content)
	assert.Equal(t, RoleUser, last.Messages[0].Role)
}

func TestMockProvider_ReturnsConfiguredError(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{}})
	_, err := mock.Generate(context.Background(), Request{})
	var rl *ErrRateLimit
	assert.True(t, errors.As(err, &rl))
	assert.Equal(t, "mock", mock.ModelID())
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "unknown", PurposeFrom(ctx))

	ctx = WithPurpose(ctx, PurposeQuizGen)
	assert.Equal(t, PurposeQuizGen, PurposeFrom(ctx))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"gemini without key", Config{Provider: "gemini"}, true},
		{"gemini with key", Config{Provider: "gemini", Gemini: GeminiConfig{APIKey: "g-test"}}, false},
		{"anthropic without key", Config{Provider: "anthropic"}, true},
		{"anthropic with key", Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-test"}}, false},
		{"openai without key", Config{Provider: "openai"}, true},
		{"openai with key", Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "sk-test"}}, false},
		{"openrouter without key", Config{Provider: "openrouter"}, true},
		{"mock needs no key", Config{Provider: "mock"}, false},
		{"unknown provider", Config{Provider: "unknown"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
		"DOCCHAT_LLM_PROVIDER", "DOCCHAT_GEMINI_API_KEY", "DOCCHAT_GEMINI_MODEL",
		"DOCCHAT_ANTHROPIC_API_KEY", "DOCCHAT_OPENAI_API_KEY", "DOCCHAT_OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestConfig_ApplyEnv(t *testing.T) {
	t.Run("docchat variables win", func(t *testing.T) {
		clearProviderEnv(t)
		t.Setenv("DOCCHAT_LLM_PROVIDER", "anthropic")
		t.Setenv("DOCCHAT_ANTHROPIC_API_KEY", "sk-ant")
		t.Setenv("OPENAI_API_KEY", "sk-openai")

		cfg := DefaultConfig()
		cfg.ApplyEnv()
		assert.Equal(t, "anthropic", cfg.Provider)
		assert.Equal(t, "sk-ant", cfg.Anthropic.APIKey)
	})

	t.Run("discovers vendor key", func(t *testing.T) {
		clearProviderEnv(t)
		t.Setenv("OPENAI_API_KEY", "sk-openai")

		cfg := DefaultConfig()
		cfg.ApplyEnv()
		assert.Equal(t, "openai", cfg.Provider)
		assert.Equal(t, "sk-openai", cfg.OpenAI.APIKey)
	})

	t.Run("gemini preferred", func(t *testing.T) {
		clearProviderEnv(t)
		t.Setenv("OPENAI_API_KEY", "sk-openai")
		t.Setenv("GEMINI_API_KEY", "g-key")

		cfg := DefaultConfig()
		assert.True(t, cfg.Discover())
		assert.Equal(t, "gemini", cfg.Provider)
	})

	t.Run("nothing found", func(t *testing.T) {
		clearProviderEnv(t)
		cfg := DefaultConfig()
		assert.False(t, cfg.Discover())
		assert.Error(t, cfg.Validate())
	})
}

func TestNewProvider_Mock(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: "mock", Retry: DefaultConfig().Retry}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())

	_, err = p.Generate(context.Background(), UserPrompt("", "anything"))
	assert.Error(t, err)
}

func TestNewProvider_InvalidConfig(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Provider: "gemini"}, nil, nil)
	assert.Error(t, err)
}

func TestEstimateCost(t *testing.T) {
	cost, ok := EstimateCost("gpt-4o-mini", 1_000_000, 1_000_000)
	require.True(t, ok)
	assert.InDelta(t, 0.75, cost, 1e-9)

	_, ok = EstimateCost("no-such-model", 10, 10)
	assert.False(t, ok)
}
