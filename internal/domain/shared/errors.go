package shared

import (
	"errors"
	"fmt"
)

// ErrStoreContended marks a write abandoned after its retry budget ran out
// on lock contention. Jobs skip the agent for the cycle.
var ErrStoreContended = errors.New("store contended: retries exhausted")

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Agent-related errors

type AgentError struct {
	*DomainError
	AgentID int
}

func NewAgentError(agentID int, message string) *AgentError {
	return &AgentError{DomainError: &DomainError{Message: message}, AgentID: agentID}
}

type AgentNotFoundError struct {
	*AgentError
}

func NewAgentNotFoundError(agentID int) *AgentNotFoundError {
	return &AgentNotFoundError{
		AgentError: NewAgentError(agentID, fmt.Sprintf("agent %d not found", agentID)),
	}
}

type InvalidTransitionError struct {
	*AgentError
	From string
	To   string
}

func NewInvalidTransitionError(agentID int, from, to, reason string) *InvalidTransitionError {
	return &InvalidTransitionError{
		AgentError: NewAgentError(agentID, fmt.Sprintf("agent %d cannot go from %s to %s: %s", agentID, from, to, reason)),
		From:       from,
		To:         to,
	}
}

type InvalidAgentDataError struct {
	*AgentError
}

func NewInvalidAgentDataError(agentID int, message string) *InvalidAgentDataError {
	return &InvalidAgentDataError{AgentError: NewAgentError(agentID, message)}
}

// Room-related errors

type InvalidRoomError struct {
	*DomainError
	Room string
}

func NewInvalidRoomError(room, message string) *InvalidRoomError {
	return &InvalidRoomError{
		DomainError: &DomainError{Message: fmt.Sprintf("room %q: %s", room, message)},
		Room:        room,
	}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
