// Package sse tracks open event-stream connections keyed by chat session ID.
package sse

import (
	"encoding/json"
	"sync"

	"financial-guardian/api/logger"
	"financial-guardian/api/models"

	"go.uber.org/zap"
)

type ClientStream struct {
	Messages chan string
	Done     chan struct{}
	done     sync.Once
}

// signalDone closes Done so every current and future receiver sees it.
func (s *ClientStream) signalDone() {
	s.done.Do(func() { close(s.Done) })
}

var (
	SSEConnections = make(map[string]*ClientStream)
	Mu             sync.RWMutex
)

// Register adds a stream for a session and returns it.
func Register(sessionID string) *ClientStream {
	stream := &ClientStream{
		Messages: make(chan string, 100),
		Done:     make(chan struct{}),
	}
	Mu.Lock()
	SSEConnections[sessionID] = stream
	Mu.Unlock()
	return stream
}

// Unregister removes the stream for a session.
func Unregister(sessionID string) {
	Mu.Lock()
	delete(SSEConnections, sessionID)
	Mu.Unlock()
}

// SendEvent delivers a stream event to the session's client, if connected.
// Terminal events also close out the stream with a done signal.
func SendEvent(event models.StreamEvent) {
	Mu.RLock()
	stream, ok := SSEConnections[event.SessionID]
	Mu.RUnlock()
	if !ok {
		logger.Get().Debug("no client stream for session",
			zap.String("session_id", event.SessionID))
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Get().Error("failed to marshal stream event", zap.Error(err))
		return
	}

	select {
	case stream.Messages <- string(payload):
	default:
		logger.Get().Warn("stream buffer full, dropping event",
			zap.String("session_id", event.SessionID),
			zap.String("type", event.Type))
	}

	if event.Last {
		select {
		case stream.Messages <- "[DONE]":
		default:
		}
		stream.signalDone()
	}
}
