package discovery

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/extract"
	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/pkg/anthropic"
)

const fallbackSystem = `You are a research assistant that identifies the publicly known leadership of companies. Only report people you are confident about from public information. Never invent names.`

const fallbackPromptTmpl = `List up to {max} senior leaders (founders, executives, directors, department heads) of the company below.

Company: {company}
Website: {website}

Respond with a JSON array only, no prose, no markdown fences. Each element:
{"name": "<full name>", "role": "<job title>"}

If you are not confident about any leader, respond with [].`

// fallbackConfidence is assigned to validated LLM answers. It clears the
// default gate but ranks below strong on-page evidence.
const fallbackConfidence = 0.70

// fallbackLeader is the wire shape expected back from the model.
type fallbackLeader struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// fallbackLeaders asks the model for the company's leadership and
// re-validates every answer with the same shape tests applied to scraped
// candidates. A model that refuses or returns prose yields nothing.
func (e *Engine) fallbackLeaders(ctx context.Context, target model.Target) []model.LeaderCandidate {
	prompt := strings.NewReplacer(
		"{max}", strconv.Itoa(target.MaxLeaders),
		"{company}", target.CompanyName,
		"{website}", target.Website,
	).Replace(fallbackPromptTmpl)

	ctx, cancel := context.WithTimeout(ctx, target.Remaining())
	defer cancel()

	temp := 0.0
	resp, err := e.llm.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       e.llmModel,
		MaxTokens:   e.llmTokens,
		System:      fallbackSystem,
		Messages:    []anthropic.Message{{Role: "user", Content: prompt}},
		Temperature: &temp,
	})
	if err != nil {
		e.classifyFallbackError(err)
		return nil
	}

	parsed := parseFallbackLeaders(resp.Text())
	out := make([]model.LeaderCandidate, 0, len(parsed))
	for _, p := range parsed {
		name := extract.Normalize(p.Name)
		role := extract.Normalize(p.Role)
		if !extract.LooksLikeHumanName(name) || !extract.RoleMatches(role) {
			continue
		}
		out = append(out, model.LeaderCandidate{
			Name:       name,
			Role:       role,
			SourceURL:  target.Website,
			Evidence:   "[llm] " + name + " — " + role,
			Confidence: fallbackConfidence,
		})
	}
	return out
}

// classifyFallbackError decides whether a fallback failure is permanent for
// the process. Auth and quota failures will fail for every target, so they
// trip the breaker; transient faults (including plain rate limiting) do not.
func (e *Engine) classifyFallbackError(err error) {
	msg := strings.ToLower(err.Error())
	status, _ := anthropic.StatusCode(err)

	switch {
	case status == 401 || status == 403:
		e.breaker.Trip("auth failure: " + err.Error())
	case strings.Contains(msg, "insufficient_quota"),
		strings.Contains(msg, "billing"),
		strings.Contains(msg, "invalid api key"),
		strings.Contains(msg, "permission"):
		e.breaker.Trip("quota or permission failure: " + err.Error())
	default:
		zap.L().Debug("llm fallback failed, will retry on next target", zap.Error(err))
	}
}

// parseFallbackLeaders decodes the model's reply, tolerating markdown code
// fences and leading prose around the JSON array.
func parseFallbackLeaders(text string) []fallbackLeader {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if i := strings.Index(text, "["); i >= 0 {
		if j := strings.LastIndex(text, "]"); j > i {
			text = text[i : j+1]
		}
	}
	var out []fallbackLeader
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		zap.L().Debug("llm fallback returned unparsable reply", zap.Error(err))
		return nil
	}
	return out
}

