package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/gin-gonic/gin"

	"autoclerk/internal/models"
)

// SystemPersona is prepended to every direct chat call.
const SystemPersona = "You are Autoclerk, a friendly AI assistant specialized in finance and office automation. "

// AgentFallbackResponse is returned when the orchestrator produces no text.
const AgentFallbackResponse = "Task completed successfully. The requested Google Docs operation was performed."

// ChatModel is the slice of the language model the chat route needs.
type ChatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// AgentRunner runs one agent invocation to completion.
type AgentRunner interface {
	Run(ctx context.Context, input string) (string, error)
}

// AgentFactory builds a fresh orchestrator for a single /agent request.
type AgentFactory func(ctx context.Context) (AgentRunner, error)

// Handler wires the two HTTP routes to the chat model and the agent factory.
type Handler struct {
	chatModel ChatModel
	newAgent  AgentFactory
}

// NewHandler constructs a Handler instance.
func NewHandler(chatModel ChatModel, newAgent AgentFactory) *Handler {
	return &Handler{
		chatModel: chatModel,
		newAgent:  newAgent,
	}
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.POST("/chat", h.chat)
	router.POST("/agent", h.agent)
}

// chat forwards the persona, the supplied history and the prompt to the model
// and returns the completion text.
func (h *Handler) chat(c *gin.Context) {
	req, ok := bindChatRequest(c)
	if !ok {
		return
	}

	messages := make([]*schema.Message, 0, len(req.History)+2)
	messages = append(messages, schema.SystemMessage(SystemPersona))
	for _, msg := range req.History {
		switch msg.Role {
		case models.RoleAssistant:
			messages = append(messages, schema.AssistantMessage(msg.Content, nil))
		case models.RoleSystem:
			messages = append(messages, schema.SystemMessage(msg.Content))
		default:
			messages = append(messages, schema.UserMessage(msg.Content))
		}
	}
	messages = append(messages, schema.UserMessage(req.Prompt))

	out, err := h.chatModel.Generate(c.Request.Context(), messages)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": out.Content})
}

// agent constructs a fresh orchestrator, runs the prompt through it and
// substitutes the canned completion message when the answer is empty. History
// is accepted in the body but unused: the agent keeps no memory.
func (h *Handler) agent(c *gin.Context) {
	req, ok := bindChatRequest(c)
	if !ok {
		return
	}

	runner, err := h.newAgent(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	result, err := runner.Run(c.Request.Context(), req.Prompt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	if strings.TrimSpace(result) == "" {
		result = AgentFallbackResponse
	}
	c.JSON(http.StatusOK, gin.H{"response": result})
}

func bindChatRequest(c *gin.Context) (*models.ChatRequest, bool) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return nil, false
	}
	if strings.TrimSpace(req.Prompt) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "prompt is required"})
		return nil, false
	}
	return &req, true
}
