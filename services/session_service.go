// Package services holds the thin facades the transport layer drives.
package services

import (
	"fmt"
	"log/slog"

	"chat-relay/contract"
	"chat-relay/domain"
)

// SessionService owns the lifecycle of connection handles: it mints them,
// publishes them in the registry and retires them. The transport layer
// never touches the registry directly.
type SessionService struct {
	log             *slog.Logger
	registry        contract.IRegistry
	mailboxCapacity int
}

func NewSessionService(log *slog.Logger, registry contract.IRegistry, mailboxCapacity int) *SessionService {
	return &SessionService{
		log:             log,
		registry:        registry,
		mailboxCapacity: mailboxCapacity,
	}
}

// StartSession mints a fresh connection handle and makes it reachable
// for broadcasts before any pump starts.
func (s *SessionService) StartSession() *domain.Connection {
	conn := domain.NewConnection(s.mailboxCapacity)
	s.registry.Register(conn)
	s.log.Info(fmt.Sprintf("Session %s started", conn.ID))
	return conn
}

// ShutdownSession retires a connection from the registry. Every teardown
// path calls it, so an id already gone is simply ignored.
func (s *SessionService) ShutdownSession(id string) {
	if _, ok := s.registry.Lookup(id); !ok {
		return
	}
	s.registry.Deregister(id)
	s.log.Info(fmt.Sprintf("Session %s ended", id))
}

// Broadcast delivers msg once to every live connection and reports how
// many of them accepted it.
func (s *SessionService) Broadcast(msg domain.Message) int {
	return s.registry.Broadcast(msg)
}
