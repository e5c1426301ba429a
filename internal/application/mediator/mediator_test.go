package mediator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/officesim-go/internal/application/mediator"
	"github.com/andrescamacho/officesim-go/internal/domain/shared"
)

type pingCommand struct {
	AgentID int
}

type pingHandler struct {
	calls int
}

func (h *pingHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	h.calls++
	return "pong", nil
}

func TestMediator_DispatchesThroughMiddlewareInOrder(t *testing.T) {
	// Arrange
	m := mediator.NewMediator()
	handler := &pingHandler{}
	require.NoError(t, mediator.RegisterHandler[*pingCommand](m, handler))

	var order []string
	for _, name := range []string{"outer", "inner"} {
		name := name
		m.RegisterMiddleware(func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
			order = append(order, name)
			return next(ctx, request)
		})
	}

	// Act
	resp, err := mediator.Send[string](context.Background(), m, &pingCommand{AgentID: 1})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "pong", resp)
	assert.Equal(t, []string{"outer", "inner"}, order)
	assert.Equal(t, 1, handler.calls)
}

func TestMediator_RejectsDuplicateAndUnknown(t *testing.T) {
	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*pingCommand](m, &pingHandler{}))

	assert.Error(t, mediator.RegisterHandler[*pingCommand](m, &pingHandler{}))

	_, err := m.Send(context.Background(), struct{}{})
	assert.Error(t, err)
}

func TestAgentGuardMiddleware(t *testing.T) {
	m := mediator.NewMediator()
	handler := &pingHandler{}
	require.NoError(t, mediator.RegisterHandler[*pingCommand](m, handler))
	m.RegisterMiddleware(mediator.AgentGuardMiddleware())

	_, err := m.Send(context.Background(), &pingCommand{AgentID: 0})

	var vErr *shared.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, 0, handler.calls)
}

func TestRequestName(t *testing.T) {
	assert.Equal(t, "pingCommand", mediator.RequestName(&pingCommand{}))
	id, ok := mediator.AgentIDOf(&pingCommand{AgentID: 9})
	assert.True(t, ok)
	assert.Equal(t, 9, id)
}
