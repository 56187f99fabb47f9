// Package agents implements the supervisor-routed multi-agent core: a router
// that picks specialist agents for a query, ReAct-style tool loops for each
// specialist, and a synthesizer that merges their answers.
package agents

// Specialist agent names the router may select.
const (
	AgentAnalyst     = "analyst"
	AgentKnowledge   = "knowledge"
	AgentPlanner     = "planner"
	AgentTransaction = "transaction"
)

// ValidAgents is the allow-list applied to router decisions.
var ValidAgents = map[string]bool{
	AgentAnalyst:     true,
	AgentKnowledge:   true,
	AgentPlanner:     true,
	AgentTransaction: true,
}

// AgentResult is a single specialist's output.
type AgentResult struct {
	Response  string         `json:"response"`
	ToolCalls []string       `json:"tool_calls"`
	Data      map[string]any `json:"data,omitempty"`
}

// Result is the final supervisor output for a query.
type Result struct {
	Response   string                 `json:"response"`
	AgentsUsed []string               `json:"agents_used"`
	Outputs    map[string]AgentResult `json:"agent_outputs"`
}

// RouterDecision is the JSON shape the router model must produce.
type RouterDecision struct {
	AgentsToCall []string `json:"agents_to_call"`
	Reasoning    string   `json:"reasoning"`
}
