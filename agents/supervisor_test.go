package agents

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financial-guardian/api/llm"
	"financial-guardian/api/logger"
	"financial-guardian/api/qdrant"
)

func TestMain(m *testing.M) {
	if err := logger.Init(true, logger.ErrorLevel); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// fakeCompleter replays scripted responses in order.
type fakeCompleter struct {
	responses []llm.ChatResponse
	err       error
	requests  []llm.ChatRequest
}

func (f *fakeCompleter) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.responses) == 0 {
		return &llm.ChatResponse{Content: "done"}, nil
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return &resp, nil
}

func TestParseDecision(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"single agent", []string{"analyst"}, []string{"analyst"}},
		{"dual action order kept", []string{"transaction", "planner"}, []string{"transaction", "planner"}},
		{"unknown agents dropped", []string{"analyst", "astrologer"}, []string{"analyst"}},
		{"duplicates dropped", []string{"planner", "planner"}, []string{"planner"}},
		{"case and whitespace normalized", []string{" Analyst ", "KNOWLEDGE"}, []string{"analyst", "knowledge"}},
		{"empty falls back to analyst", nil, []string{"analyst"}},
		{"all invalid falls back to analyst", []string{"nope"}, []string{"analyst"}},
		{"capped at three", []string{"analyst", "knowledge", "planner", "transaction"}, []string{"analyst", "knowledge", "planner"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDecision(RouterDecision{AgentsToCall: tt.in})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRouteParsesDecision(t *testing.T) {
	fake := &fakeCompleter{responses: []llm.ChatResponse{
		{Content: `{"agents_to_call": ["transaction", "planner"], "reasoning": "purchase mentions a goal"}`},
	}}
	s := NewSupervisor(fake, unavailableSearcher{})

	agents, reasoning := s.Route(context.Background(), "I bought shoes for my trip fund")
	assert.Equal(t, []string{"transaction", "planner"}, agents)
	assert.Equal(t, "purchase mentions a goal", reasoning)
}

func TestRouteHandlesCodeFence(t *testing.T) {
	fake := &fakeCompleter{responses: []llm.ChatResponse{
		{Content: "```json\n{\"agents_to_call\": [\"knowledge\"], \"reasoning\": \"definition question\"}\n```"},
	}}
	s := NewSupervisor(fake, unavailableSearcher{})

	agents, _ := s.Route(context.Background(), "what is an ELSS fund?")
	assert.Equal(t, []string{"knowledge"}, agents)
}

func TestRouteFallsBackToAnalyst(t *testing.T) {
	t.Run("llm error", func(t *testing.T) {
		fake := &fakeCompleter{err: errors.New("rate limited")}
		s := NewSupervisor(fake, unavailableSearcher{})
		agents, _ := s.Route(context.Background(), "how is my spending?")
		assert.Equal(t, []string{"analyst"}, agents)
	})
	t.Run("garbage response", func(t *testing.T) {
		fake := &fakeCompleter{responses: []llm.ChatResponse{{Content: "I think the analyst should do it"}}}
		s := NewSupervisor(fake, unavailableSearcher{})
		agents, _ := s.Route(context.Background(), "how is my spending?")
		assert.Equal(t, []string{"analyst"}, agents)
	})
}

// unavailableSearcher stands in for a missing vector store.
type unavailableSearcher struct{}

func (unavailableSearcher) Available() bool { return false }
func (unavailableSearcher) Search(ctx context.Context, query string, topK int) ([]qdrant.KnowledgeHit, error) {
	return nil, nil
}

func TestAgentRunToolLoop(t *testing.T) {
	var gotArgs map[string]any
	agent := &Agent{
		Name:   "echo",
		Prompt: "You echo.",
		Tools: []Tool{{
			Spec: llm.ToolSpec{Name: "echo_amount"},
			Run: func(ctx context.Context, userID int64, args map[string]any) (any, error) {
				gotArgs = args
				return map[string]any{"status": "success", "amount": args["amount"]}, nil
			},
		}},
	}

	fake := &fakeCompleter{responses: []llm.ChatResponse{
		{ToolCalls: []llm.ToolCall{{
			ID:   "call_1",
			Type: "function",
			Function: llm.FunctionCall{
				Name:      "echo_amount",
				Arguments: `{"amount": 450}`,
			},
		}}},
		{Content: "You spent 450."},
	}}

	result, err := agent.Run(context.Background(), fake, 1, "echo 450", nil)
	require.NoError(t, err)
	assert.Equal(t, "You spent 450.", result.Response)
	assert.Equal(t, []string{"echo_amount"}, result.ToolCalls)
	assert.Equal(t, float64(450), gotArgs["amount"])

	// The tool result must be fed back as a tool-role message.
	require.Len(t, fake.requests, 2)
	last := fake.requests[1].Messages[len(fake.requests[1].Messages)-1]
	assert.Equal(t, "tool", last.Role)
	assert.Equal(t, "call_1", last.ToolCallID)

	var reply map[string]any
	require.NoError(t, json.Unmarshal([]byte(last.Content), &reply))
	assert.Equal(t, "success", reply["status"])
}

func TestAgentRunUnknownTool(t *testing.T) {
	agent := &Agent{Name: "strict", Prompt: "p", Tools: nil}

	fake := &fakeCompleter{responses: []llm.ChatResponse{
		{ToolCalls: []llm.ToolCall{{
			ID:       "call_1",
			Type:     "function",
			Function: llm.FunctionCall{Name: "nonexistent", Arguments: `{}`},
		}}},
		{Content: "Sorry, I could not do that."},
	}}

	result, err := agent.Run(context.Background(), fake, 1, "do something", nil)
	require.NoError(t, err)
	assert.Equal(t, "Sorry, I could not do that.", result.Response)
	assert.Empty(t, result.ToolCalls)

	last := fake.requests[1].Messages[len(fake.requests[1].Messages)-1]
	assert.Equal(t, "tool", last.Role)
	assert.Contains(t, last.Content, "unknown tool")
}

func TestAgentRunBoundedSteps(t *testing.T) {
	// A model that never stops calling tools must be cut off.
	loop := llm.ChatResponse{ToolCalls: []llm.ToolCall{{
		ID:       "call_x",
		Type:     "function",
		Function: llm.FunctionCall{Name: "spin", Arguments: `{}`},
	}}}
	responses := make([]llm.ChatResponse, 0, maxToolSteps+1)
	for i := 0; i <= maxToolSteps; i++ {
		responses = append(responses, loop)
	}

	agent := &Agent{
		Name:   "spinner",
		Prompt: "p",
		Tools: []Tool{{
			Spec: llm.ToolSpec{Name: "spin"},
			Run: func(ctx context.Context, userID int64, args map[string]any) (any, error) {
				return map[string]any{"status": "success"}, nil
			},
		}},
	}

	_, err := agent.Run(context.Background(), &fakeCompleter{responses: responses}, 1, "spin forever", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeded")
}

func TestProcessAppendsDualActionContext(t *testing.T) {
	// Router picks transaction then planner; both answer without tools.
	fake := &fakeCompleter{responses: []llm.ChatResponse{
		{Content: `{"agents_to_call": ["transaction", "planner"], "reasoning": "dual action"}`},
		{Content: "Recorded your 30000 laptop purchase."},
		{Content: "Your laptop goal is now closer."},
		{Content: "Recorded the purchase and updated your laptop goal."},
	}}
	s := NewSupervisor(fake, unavailableSearcher{})

	result, err := s.Process(context.Background(), 1, "bought a laptop for 30000, it was my goal", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"transaction", "planner"}, result.AgentsUsed)
	assert.Equal(t, "Recorded the purchase and updated your laptop goal.", result.Response)

	// The planner's query must carry the dual-action context.
	plannerReq := fake.requests[2]
	userMsg := plannerReq.Messages[len(plannerReq.Messages)-1]
	assert.Contains(t, userMsg.Content, "A transaction was just recorded")
	assert.Contains(t, userMsg.Content, "Recorded your 30000 laptop purchase.")
}

func TestProcessForwardsConversationHistory(t *testing.T) {
	fake := &fakeCompleter{responses: []llm.ChatResponse{
		{Content: `{"agents_to_call": ["planner"], "reasoning": "goal follow-up"}`},
		{Content: "Added 5000 to your MacBook goal."},
	}}
	s := NewSupervisor(fake, unavailableSearcher{})

	history := []llm.Message{
		{Role: "user", Content: "create a MacBook goal of 150000"},
		{Role: "assistant", Content: "Goal 'MacBook' created with target ₹150000.00"},
	}
	result, err := s.Process(context.Background(), 1, "add 5000 to it", history, nil)
	require.NoError(t, err)
	assert.Equal(t, "Added 5000 to your MacBook goal.", result.Response)

	// The planner call (second request) replays the prior turns between the
	// system prompt and the current query.
	plannerReq := fake.requests[1]
	require.GreaterOrEqual(t, len(plannerReq.Messages), 4)
	assert.Equal(t, "system", plannerReq.Messages[0].Role)
	assert.Equal(t, "create a MacBook goal of 150000", plannerReq.Messages[1].Content)
	assert.Equal(t, "assistant", plannerReq.Messages[2].Role)
	assert.Contains(t, plannerReq.Messages[3].Content, "add 5000 to it")
}

func TestProcessSingleAgentSkipsSynthesis(t *testing.T) {
	fake := &fakeCompleter{responses: []llm.ChatResponse{
		{Content: `{"agents_to_call": ["analyst"], "reasoning": "spending question"}`},
		{Content: "You spent 12000 on food."},
	}}
	s := NewSupervisor(fake, unavailableSearcher{})

	var events []string
	progress := func(event, agent string) { events = append(events, event+":"+agent) }

	result, err := s.Process(context.Background(), 1, "food spend?", nil, progress)
	require.NoError(t, err)
	assert.Equal(t, "You spent 12000 on food.", result.Response)
	assert.Equal(t, []string{"agent_start:analyst", "agent_done:analyst"}, events)
	// Only router + analyst calls, no synthesizer.
	assert.Len(t, fake.requests, 2)
}
