// Package handlers wires HTTP endpoints to the database, the analytics
// helpers, and the multi-agent supervisor.
package handlers

import (
	"errors"

	"financial-guardian/api/agents"
	"financial-guardian/api/llm"
	"financial-guardian/api/worker"
)

var (
	errUnknownUser    = errors.New("user not found")
	errNoUserIdentity = errors.New("user_id or phone_number is required")
)

// Package-level clients, set once from main before the router starts.
var (
	LLMClient llm.Completer
	Assistant *agents.Supervisor
	ChatPool  *worker.Pool
)
