package reasoner

import (
	"fmt"

	"github.com/durableai/durable-agent/internal/models"
)

// New builds the provider adapter named by cfg.ReasonerProvider. An empty
// provider defaults to OpenAI, or to the scripted client when tools are
// mocked so demo runs need no credentials.
func New(cfg models.CoreConfig) (Client, error) {
	switch cfg.ReasonerProvider {
	case "openai":
		return NewOpenAIClient(), nil
	case "anthropic":
		return NewAnthropicClient(), nil
	case "scripted":
		return NewScriptedClient(), nil
	case "":
		if cfg.ToolsMock {
			return NewScriptedClient(), nil
		}
		return NewOpenAIClient(), nil
	default:
		return nil, fmt.Errorf("unknown reasoner provider: %s", cfg.ReasonerProvider)
	}
}
