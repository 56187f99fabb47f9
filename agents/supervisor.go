package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"financial-guardian/api/llm"
	"financial-guardian/api/logger"

	"go.uber.org/zap"
)

const routerSystemPrompt = `You are a Financial Assistant Router. Your job is to analyze the user's query and decide which specialist agent(s) should handle it.

AVAILABLE AGENTS:
1. analyst - Analyzes spending patterns, detects anomalies, forecasts balance
   Use for: "how much did I spend", "unusual transactions", "predict my balance", "spending breakdown"

2. knowledge - Answers financial knowledge questions using a knowledge base
   Use for: "what is SIP", "explain 80C", "how does UPI work", "tax saving tips"

3. planner - Manages budgets and savings goals
   Use for: "set budget", "create goal", "check my budgets", "update goal", "add to goal"

4. transaction - Handles manual transactions and liabilities
   Use for: "add expense", "record purchase", "show my loans", "financial snapshot", "credit card dues"

CRITICAL ROUTING RULES:
1. Select 1-3 agents based on the query
2. For simple queries, use only 1 agent
3. DUAL-ACTION RULE: When the user mentions buying/spending/purchasing something AND mentions what it's for (e.g., "for my gaming PC", "for my MacBook", "for vacation"):
   - ALWAYS route to BOTH ["transaction", "planner"] in that ORDER
   - transaction records the expense
   - planner updates any related goal
4. Keywords suggesting a goal-related purchase: "for my", "towards", "bought for", "gaming PC", "MacBook", "vacation", "trip", "phone", "laptop"
5. If the user just says "bought X" without mentioning purpose, use only ["transaction"]
6. If unsure, default to "analyst" for spending questions or "knowledge" for general questions

EXAMPLES:
- "I spent 15000 on graphics card for my gaming PC" -> ["transaction", "planner"]
- "How much did I spend on food?" -> ["analyst"]
- "Set a budget of 5000 for shopping" -> ["planner"]
- "What is a mutual fund?" -> ["knowledge"]
- "Add 5000 to my MacBook goal" -> ["planner"]
- "I bought a laptop for 80000" -> ["transaction"]
- "paid 5000 for my Bali trip" -> ["transaction", "planner"]

OUTPUT FORMAT (JSON only):
{"agents_to_call": ["transaction", "planner"], "reasoning": "User bought something for a goal"}`

const synthesizerSystemPrompt = `You are a Financial Assistant. Combine the following agent responses into a single, coherent response for the user.
Be concise and helpful. Use Indian Rupees (₹) for currency.`

// Progress is notified as agents start and finish; used to stream status over
// SSE. May be nil.
type Progress func(event, agent string)

// Supervisor routes queries to specialists and synthesizes their outputs.
type Supervisor struct {
	llm    llm.Completer
	agents map[string]*Agent
}

// NewSupervisor builds the supervisor with the standard four specialists.
// The searcher backs the knowledge agent and may be an unavailable stub.
func NewSupervisor(c llm.Completer, searcher KnowledgeSearcher) *Supervisor {
	return &Supervisor{
		llm: c,
		agents: map[string]*Agent{
			AgentAnalyst:     analystAgent(),
			AgentKnowledge:   knowledgeAgent(searcher),
			AgentPlanner:     plannerAgent(),
			AgentTransaction: transactionAgent(),
		},
	}
}

// Route asks the router model which agents should handle the query. Falls
// back to the analyst when the decision cannot be parsed.
func (s *Supervisor) Route(ctx context.Context, query string) ([]string, string) {
	resp, err := s.llm.Chat(ctx, llm.ChatRequest{
		Messages: []llm.Message{
			{Role: "system", Content: routerSystemPrompt},
			{Role: "user", Content: "User query: " + query},
		},
		Temperature: 0,
	})
	if err != nil {
		logger.Get().Warn("router call failed, falling back to analyst", zap.Error(err))
		return []string{AgentAnalyst}, "fallback: router error"
	}

	var decision RouterDecision
	if err := json.Unmarshal([]byte(llm.StripCodeFence(resp.Content)), &decision); err != nil {
		logger.Get().Warn("router decision unparseable, falling back to analyst",
			zap.String("content", resp.Content))
		return []string{AgentAnalyst}, "fallback: parse error"
	}

	agents := ParseDecision(decision)
	logger.Get().Info("router decision",
		zap.Strings("agents", agents),
		zap.String("reasoning", decision.Reasoning))
	return agents, decision.Reasoning
}

// ParseDecision validates a router decision against the known agents,
// preserving order and dropping duplicates. Empty results become ["analyst"].
func ParseDecision(decision RouterDecision) []string {
	agents := []string{}
	seen := map[string]bool{}
	for _, a := range decision.AgentsToCall {
		a = strings.ToLower(strings.TrimSpace(a))
		if ValidAgents[a] && !seen[a] {
			agents = append(agents, a)
			seen[a] = true
		}
	}
	if len(agents) == 0 {
		agents = []string{AgentAnalyst}
	}
	if len(agents) > 3 {
		agents = agents[:3]
	}
	return agents
}

// Process runs the full pipeline: route, execute agents in order, synthesize.
// history carries prior conversation turns, oldest first; it is passed to
// each specialist so follow-up questions keep their context.
func (s *Supervisor) Process(ctx context.Context, userID int64, query string, history []llm.Message, progress Progress) (*Result, error) {
	pending, _ := s.Route(ctx, query)

	result := &Result{
		AgentsUsed: []string{},
		Outputs:    map[string]AgentResult{},
	}

	for _, name := range pending {
		agent, ok := s.agents[name]
		if !ok {
			continue
		}
		if progress != nil {
			progress("agent_start", name)
		}

		agentQuery := query
		if name == AgentPlanner {
			if txnOut, ok := result.Outputs[AgentTransaction]; ok {
				// Dual-action: the transaction agent already recorded the
				// expense; steer the planner at the matching goal.
				agentQuery = query + fmt.Sprintf(
					"\n\n[CONTEXT: A transaction was just recorded. Details: %s]\nYour task: Check if the user has any goals related to this purchase and update goal progress if applicable. First call get_goals_status to see all goals.",
					txnOut.Response,
				)
			}
		}

		out, err := agent.Run(ctx, s.llm, userID, agentQuery, history)
		if err != nil {
			logger.Get().Error("agent failed",
				zap.String("agent", name),
				zap.Error(err))
			out = &AgentResult{Response: fmt.Sprintf("The %s agent could not complete this request.", name)}
		}
		result.Outputs[name] = *out
		result.AgentsUsed = append(result.AgentsUsed, name)

		if progress != nil {
			progress("agent_done", name)
		}
	}

	response, err := s.synthesize(ctx, query, result)
	if err != nil {
		return nil, err
	}
	result.Response = response
	return result, nil
}

func (s *Supervisor) synthesize(ctx context.Context, query string, result *Result) (string, error) {
	if len(result.Outputs) == 0 {
		return "I couldn't process your request.", nil
	}
	if len(result.Outputs) == 1 {
		for _, out := range result.Outputs {
			return out.Response, nil
		}
	}

	var combined strings.Builder
	for _, name := range result.AgentsUsed {
		out := result.Outputs[name]
		fmt.Fprintf(&combined, "=== %s AGENT ===\n%s\n\n", strings.ToUpper(name), out.Response)
	}

	return llm.Complete(ctx, s.llm, synthesizerSystemPrompt,
		fmt.Sprintf("User query: %s\n\nAgent Responses:\n%s", query, combined.String()), 0.2)
}
