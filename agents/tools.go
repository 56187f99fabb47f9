package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"financial-guardian/api/llm"
	"financial-guardian/api/logger"

	"go.uber.org/zap"
)

// Tool is a callable capability exposed to an agent's model.
type Tool struct {
	Spec llm.ToolSpec
	Run  func(ctx context.Context, userID int64, args map[string]any) (any, error)
}

// Agent is a specialist: a system prompt plus a constrained tool set run in a
// bounded ReAct loop.
type Agent struct {
	Name   string
	Prompt string
	Tools  []Tool
}

// maxToolSteps bounds the tool loop so a confused model cannot spin.
const maxToolSteps = 6

// Run executes the agent's tool loop for a query. history carries prior
// conversation turns, oldest first.
func (a *Agent) Run(ctx context.Context, c llm.Completer, userID int64, query string, history []llm.Message) (*AgentResult, error) {
	specs := make([]llm.ToolSpec, len(a.Tools))
	byName := make(map[string]Tool, len(a.Tools))
	for i, t := range a.Tools {
		specs[i] = t.Spec
		byName[t.Spec.Name] = t
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: a.Prompt})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: "user", Content: fmt.Sprintf("[User ID: %d] %s", userID, query)})

	result := &AgentResult{ToolCalls: []string{}, Data: map[string]any{}}

	for step := 0; step < maxToolSteps; step++ {
		resp, err := c.Chat(ctx, llm.ChatRequest{
			Messages:    messages,
			Tools:       specs,
			Temperature: 0,
		})
		if err != nil {
			return nil, fmt.Errorf("%s agent: %w", a.Name, err)
		}

		if len(resp.ToolCalls) == 0 {
			result.Response = resp.Content
			return result, nil
		}

		messages = append(messages, llm.Message{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		for _, tc := range resp.ToolCalls {
			tool, ok := byName[tc.Function.Name]
			if !ok {
				messages = append(messages, toolReply(tc, map[string]any{
					"status": "error", "message": "unknown tool: " + tc.Function.Name,
				}))
				continue
			}

			args := map[string]any{}
			if tc.Function.Arguments != "" {
				if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
					messages = append(messages, toolReply(tc, map[string]any{
						"status": "error", "message": "invalid tool arguments: " + err.Error(),
					}))
					continue
				}
			}

			logger.Get().Debug("agent tool call",
				zap.String("agent", a.Name),
				zap.String("tool", tc.Function.Name),
				zap.Int64("user_id", userID))

			out, err := tool.Run(ctx, userID, args)
			if err != nil {
				out = map[string]any{"status": "error", "message": err.Error()}
			}
			result.ToolCalls = append(result.ToolCalls, tc.Function.Name)
			result.Data[tc.Function.Name] = out
			messages = append(messages, toolReply(tc, out))
		}
	}

	return nil, fmt.Errorf("%s agent exceeded %d tool steps", a.Name, maxToolSteps)
}

func toolReply(tc llm.ToolCall, out any) llm.Message {
	content, err := json.Marshal(out)
	if err != nil {
		content = []byte(`{"status":"error","message":"unserializable tool result"}`)
	}
	return llm.Message{
		Role:       "tool",
		ToolCallID: tc.ID,
		Name:       tc.Function.Name,
		Content:    string(content),
	}
}

// Argument coercion helpers. The router model sometimes passes numbers as
// strings, so each accepts both.

func argString(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func argInt(args map[string]any, key string) int64 {
	switch v := args[key].(type) {
	case float64:
		return int64(v)
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	}
	return 0
}

func argDecimal(args map[string]any, key string) decimal.Decimal {
	switch v := args[key].(type) {
	case float64:
		return decimal.NewFromFloat(v)
	case string:
		d, err := decimal.NewFromString(v)
		if err == nil {
			return d
		}
	}
	return decimal.Zero
}
