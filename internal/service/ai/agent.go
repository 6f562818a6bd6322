package ai

import (
	"context"
	"fmt"
	"os"

	"autoclerk/internal/config"
	"autoclerk/internal/gdocs"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/flow/agent/react"
	"github.com/cloudwego/eino/schema"
)

// Orchestrator binds a chat model and the document tools into a ReAct agent.
// It keeps no conversation memory: the handler constructs a fresh one per
// request and discards it afterwards.
type Orchestrator struct {
	agent *react.Agent
}

// NewOrchestrator resolves the API key (explicit argument, then config, then
// GROQ_API_KEY) and the model name (explicit argument, then AUTOCLERK_MODEL,
// then the provider default), builds the chat model and configures the
// reasoning loop with the fixed document tool set.
func NewOrchestrator(ctx context.Context, cfg *config.Config, docsSvc *gdocs.Service, apiKey, modelName string) (*Orchestrator, error) {
	if modelName == "" {
		modelName = os.Getenv("AUTOCLERK_MODEL")
	}
	if modelName == "" && cfg.Provider("").Model == "" {
		modelName = DefaultAgentModel
	}

	chatModel, err := NewChatModel(ctx, cfg, "", modelName, apiKey)
	if err != nil {
		return nil, err
	}

	agent, err := react.NewAgent(ctx, &react.AgentConfig{
		ToolCallingModel: chatModel,
		ToolsConfig: compose.ToolsNodeConfig{
			Tools: docTools(docsSvc),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("init react agent: %w", err)
	}

	return &Orchestrator{agent: agent}, nil
}

// Run sends the input through the reasoning loop and returns its final answer.
func (o *Orchestrator) Run(ctx context.Context, input string) (string, error) {
	out, err := o.agent.Generate(ctx, []*schema.Message{schema.UserMessage(input)})
	if err != nil {
		return "", fmt.Errorf("run agent: %w", err)
	}
	return out.Content, nil
}
