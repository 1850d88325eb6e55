package providers

import (
	"net/http"
	"os"
	"testing"

	"github.com/aabdullah27/cybersaga/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroqProvider_Name(t *testing.T) {
	p := &GroqProvider{}
	assert.Equal(t, "groq", p.Name())
}

func TestGroqProvider_BuildURL(t *testing.T) {
	p := &GroqProvider{}

	tests := []struct {
		name    string
		baseURL string
		want    string
	}{
		{
			name:    "empty uses default",
			baseURL: "",
			want:    "https://api.groq.com/openai/v1/chat/completions",
		},
		{
			name:    "custom base URL",
			baseURL: "https://proxy.internal/groq/v1",
			want:    "https://proxy.internal/groq/v1/chat/completions",
		},
		{
			name:    "trailing slash handled",
			baseURL: "https://api.groq.com/openai/v1/",
			want:    "https://api.groq.com/openai/v1/chat/completions",
		},
		{
			name:    "already has endpoint",
			baseURL: "https://api.groq.com/openai/v1/chat/completions",
			want:    "https://api.groq.com/openai/v1/chat/completions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.BuildURL(tt.baseURL)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGroqProvider_SetHeaders(t *testing.T) {
	p := &GroqProvider{}

	t.Run("sets authorization header", func(t *testing.T) {
		t.Setenv("GROQ_API_KEY", "test-groq-key")

		req, _ := http.NewRequest("POST", "https://api.groq.com/openai/v1/chat/completions", nil)
		p.SetHeaders(req)

		assert.Equal(t, "Bearer test-groq-key", req.Header.Get("Authorization"))
	})

	t.Run("no header when env var not set", func(t *testing.T) {
		oldKey := os.Getenv("GROQ_API_KEY")
		os.Unsetenv("GROQ_API_KEY")
		defer func() {
			if oldKey != "" {
				os.Setenv("GROQ_API_KEY", oldKey)
			}
		}()

		req, _ := http.NewRequest("POST", "https://api.groq.com/openai/v1/chat/completions", nil)
		p.SetHeaders(req)

		assert.Empty(t, req.Header.Get("Authorization"))
	})
}

// Groq shares the OpenAI-compatible wire format via embedding; make sure the
// embedded request builder works through the Groq type.
func TestGroqProvider_BuildRequestBody(t *testing.T) {
	p := &GroqProvider{}

	body, err := p.BuildRequestBody("llama-3.3-70b-versatile", []llm.Message{
		{Role: "user", Content: "Generate a scenario"},
	}, nil, 4096)
	require.NoError(t, err)

	assert.Contains(t, string(body), `"model":"llama-3.3-70b-versatile"`)
	assert.Contains(t, string(body), `"max_tokens":4096`)
}

func TestGroqProvider_Registered(t *testing.T) {
	assert.NotNil(t, llm.GetProvider("groq"))
}
