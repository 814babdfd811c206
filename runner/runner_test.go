package runner

import (
	"context"
	"errors"
	"testing"

	"github.com/agentmux/agentmux/agent"
	"github.com/agentmux/agentmux/continuation"
	"github.com/agentmux/agentmux/core"
	"github.com/agentmux/agentmux/model"
	"github.com/agentmux/agentmux/supervisor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestRunner_TurnPersistsConversation(t *testing.T) {
	llm := model.NewScriptedModel("test-model")
	llm.AddResponse("hello", "hi there")
	r := New(agent.NewModelAgent("greeter", llm))

	reply, err := r.Turn(context.Background(), "alice", core.NewUserMessage("hello"))
	require.NoError(t, err)
	assert.Equal(t, "hi there", reply.Text())

	history, err := r.History("alice")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, core.RoleUser, history[0].Role)
	assert.Equal(t, core.RoleAssistant, history[1].Role)
}

func TestRunner_TurnCarriesHistoryForward(t *testing.T) {
	llm := model.NewScriptedModel("test-model")
	r := New(agent.NewModelAgent("greeter", llm))

	_, err := r.Turn(context.Background(), "alice", core.NewUserMessage("first"))
	require.NoError(t, err)
	_, err = r.Turn(context.Background(), "alice", core.NewUserMessage("second"))
	require.NoError(t, err)

	// The second model request saw the full stored transcript.
	reqs := llm.Requests()
	require.Len(t, reqs, 2)
	assert.Len(t, reqs[1].Messages, 3)

	history, err := r.History("alice")
	require.NoError(t, err)
	assert.Len(t, history, 4)
}

func TestRunner_ConversationsAreScopedPerUser(t *testing.T) {
	r := New(agent.NewModelAgent("greeter", model.NewScriptedModel("test-model")))

	_, err := r.Turn(context.Background(), "alice", core.NewUserMessage("hi"))
	require.NoError(t, err)

	history, err := r.History("bob")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestRunner_TerminalFailureYieldsCannedReply(t *testing.T) {
	llm := model.NewScriptedModel("test-model")
	llm.FailWith(errors.New("connection refused"))
	r := New(agent.NewModelAgent("greeter", llm))

	reply, err := r.Turn(context.Background(), "alice", core.NewUserMessage("hello"))
	require.NoError(t, err, "terminal failure is absorbed, not surfaced")
	assert.Equal(t, DefaultUnavailableMessage, reply.Text())

	// Both the user message and the canned reply are persisted, so a retry
	// after recovery continues the same conversation.
	history, err := r.History("alice")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "hello", history[0].Text())
	assert.Equal(t, DefaultUnavailableMessage, history[1].Text())

	llm.FailWith(nil)
	llm.AddResponse("again", "back online")
	reply, err = r.Turn(context.Background(), "alice", core.NewUserMessage("again"))
	require.NoError(t, err)
	assert.Equal(t, "back online", reply.Text())
}

func TestRunner_RoutingFailurePropagatesUnpersisted(t *testing.T) {
	coord := model.NewScriptedModel("coord")
	coord.Enqueue(model.ToolCallResponse(supervisor.DelegateToolName, `{"agent":"ghost"}`))

	member := agent.NewModelAgent("calc", model.NewScriptedModel("m"))
	sup, err := supervisor.New("team", coord, []core.Agent{member})
	require.NoError(t, err)
	r := New(sup)

	_, err = r.Turn(context.Background(), "alice", core.NewUserMessage("hi"))
	require.Error(t, err)

	var re *core.RoutingError
	assert.True(t, errors.As(err, &re))

	// Unlike terminal failures, nothing is persisted.
	history, err := r.History("alice")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestRunner_Reset(t *testing.T) {
	r := New(agent.NewModelAgent("greeter", model.NewScriptedModel("test-model")))

	_, err := r.Turn(context.Background(), "alice", core.NewUserMessage("hi"))
	require.NoError(t, err)
	require.NoError(t, r.Reset("alice"))

	history, err := r.History("alice")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestRunner_AttachmentRewriteReplacesStoredTranscript(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Total"))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	workbook := core.FileRef{
		Name:     "data.xlsx",
		MimeType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Bytes:    buf.Bytes(),
	}

	excel := agent.NewExcelAgent("excel", model.NewScriptedModel("test-model"), func(o *agent.ModelAgentOptions) {
		o.Continuations = continuation.NewInMemoryStore()
	})
	r := New(excel)

	// Seed a plain turn so there is an assistant message to drop.
	_, err = r.Turn(context.Background(), "alice", core.NewUserMessage("hello"))
	require.NoError(t, err)

	_, err = r.Turn(context.Background(), "alice", core.NewUserFileMessage("summarize", workbook))
	require.NoError(t, err)

	// 2 user messages survive, the old assistant reply is gone, one fresh
	// reply is stored.
	history, err := r.History("alice")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, core.RoleUser, history[0].Role)
	assert.Equal(t, core.RoleUser, history[1].Role)
	assert.Equal(t, core.RoleAssistant, history[2].Role)
	assert.Contains(t, history[2].Text(), "Total")
}
