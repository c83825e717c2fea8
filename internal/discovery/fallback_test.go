package discovery

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscout/internal/resilience"
)

func TestParseFallbackLeaders(t *testing.T) {
	t.Run("plain array", func(t *testing.T) {
		out := parseFallbackLeaders(`[{"name": "John Smith", "role": "CEO"}]`)
		require.Len(t, out, 1)
		assert.Equal(t, "John Smith", out[0].Name)
		assert.Equal(t, "CEO", out[0].Role)
	})

	t.Run("markdown fences", func(t *testing.T) {
		out := parseFallbackLeaders("```json\n[{\"name\": \"Maria Garcia\", \"role\": \"CTO\"}]\n```")
		require.Len(t, out, 1)
		assert.Equal(t, "Maria Garcia", out[0].Name)
	})

	t.Run("leading prose", func(t *testing.T) {
		out := parseFallbackLeaders(`Here are the leaders I found: [{"name": "Wei Chen", "role": "CFO"}]`)
		require.Len(t, out, 1)
	})

	t.Run("refusal prose", func(t *testing.T) {
		assert.Empty(t, parseFallbackLeaders("I cannot determine the leadership of this company."))
	})

	t.Run("empty array", func(t *testing.T) {
		assert.Empty(t, parseFallbackLeaders("[]"))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, parseFallbackLeaders(""))
	})
}

func TestClassifyFallbackError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantTrip bool
	}{
		{"quota exhaustion", eris.New("anthropic: create message: insufficient_quota"), true},
		{"invalid key", eris.New("anthropic: create message: invalid api key provided"), true},
		{"permission denied", eris.New("anthropic: permission_error for this model"), true},
		{"plain rate limit", eris.New("anthropic: rate limit exceeded, retry after 2s"), false},
		{"network blip", eris.New("anthropic: connection reset by peer"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			breaker := resilience.NewFallbackBreaker()
			e := &Engine{breaker: breaker}
			e.classifyFallbackError(tt.err)

			disabled, _ := breaker.Disabled()
			assert.Equal(t, tt.wantTrip, disabled)
		})
	}
}
