package model

import (
	"context"
	"errors"
	"testing"

	"github.com/agentmux/agentmux/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptedModel_PromptLookup(t *testing.T) {
	m := NewScriptedModel("test-model")
	m.AddResponse("ping", "pong")

	resp, err := m.Generate(context.Background(), Request{
		Messages: []core.Message{core.NewUserMessage("ping")},
	})
	require.NoError(t, err)
	assert.Equal(t, "pong", resp.Message.Text())
	assert.Equal(t, "stop", resp.FinishReason)

	resp, err = m.Generate(context.Background(), Request{
		Messages: []core.Message{core.NewUserMessage("unknown")},
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Message.Text(), "unknown")
}

func TestScriptedModel_ScriptTakesPrecedence(t *testing.T) {
	m := NewScriptedModel("test-model")
	m.AddResponse("hi", "canned")
	m.Enqueue(
		ToolCallResponse("calculator", `{"operation":"add","a":5,"b":5}`),
		TextResponse("the answer is 10"),
	)

	resp, err := m.Generate(context.Background(), Request{
		Messages: []core.Message{core.NewUserMessage("hi")},
	})
	require.NoError(t, err)
	calls := resp.Message.GetFunctionCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "calculator", calls[0].Name)
	assert.Equal(t, "tool_calls", resp.FinishReason)

	resp, err = m.Generate(context.Background(), Request{
		Messages: []core.Message{core.NewUserMessage("hi")},
	})
	require.NoError(t, err)
	assert.Equal(t, "the answer is 10", resp.Message.Text())

	// Script exhausted: fall back to the prompt map
	resp, err = m.Generate(context.Background(), Request{
		Messages: []core.Message{core.NewUserMessage("hi")},
	})
	require.NoError(t, err)
	assert.Equal(t, "canned", resp.Message.Text())
}

func TestScriptedModel_FailWith(t *testing.T) {
	m := NewScriptedModel("test-model")
	cause := errors.New("connection refused")
	m.FailWith(cause)

	_, err := m.Generate(context.Background(), Request{
		Messages: []core.Message{core.NewUserMessage("hi")},
	})
	assert.ErrorIs(t, err, cause)

	m.FailWith(nil)
	_, err = m.Generate(context.Background(), Request{
		Messages: []core.Message{core.NewUserMessage("hi")},
	})
	assert.NoError(t, err)
}

func TestScriptedModel_RecordsRequests(t *testing.T) {
	m := NewScriptedModel("test-model")

	_, err := m.Generate(context.Background(), Request{
		Instructions: "be brief",
		Messages:     []core.Message{core.NewUserMessage("hi")},
	})
	require.NoError(t, err)

	reqs := m.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "be brief", reqs[0].Instructions)
}
