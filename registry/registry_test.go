package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/agentmux/agentmux/agent"
	"github.com/agentmux/agentmux/core"
	"github.com/agentmux/agentmux/model"
	"github.com/agentmux/agentmux/supervisor"
	"github.com/agentmux/agentmux/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() *Registry {
	return New(model.NewScriptedModel("test-model"))
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := newTestRegistry()
	a := agent.NewModelAgent("calculator", model.NewScriptedModel("m"))
	r.Register(a)

	got, err := r.Get("calculator")
	require.NoError(t, err)
	assert.Same(t, a, got)
}

func TestRegistry_GetUnknownIsNotFound(t *testing.T) {
	r := newTestRegistry()

	_, err := r.Get("ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrAgentNotFound)
	assert.Contains(t, err.Error(), "ghost")
}

func TestRegistry_ListPreservesRegistrationOrder(t *testing.T) {
	r := newTestRegistry()
	for _, name := range []string{"charlie", "alpha", "bravo"} {
		r.Register(agent.NewModelAgent(name, model.NewScriptedModel("m")))
	}

	assert.Equal(t, []string{"charlie", "alpha", "bravo"}, r.List())
}

func TestRegistry_LastWriteWins(t *testing.T) {
	r := newTestRegistry()
	r.Register(agent.NewModelAgent("calculator", model.NewScriptedModel("m")))
	r.Register(agent.NewModelAgent("safety", model.NewScriptedModel("m")))

	replacement := agent.NewModelAgent("calculator", model.NewScriptedModel("m"))
	r.Register(replacement)

	got, err := r.Get("calculator")
	require.NoError(t, err)
	assert.Same(t, replacement, got)

	// Replacement keeps the original listing position.
	assert.Equal(t, []string{"calculator", "safety"}, r.List())
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_Remove(t *testing.T) {
	r := newTestRegistry()
	r.Register(agent.NewModelAgent("calculator", model.NewScriptedModel("m")))

	assert.True(t, r.Remove("calculator"))
	assert.False(t, r.Remove("calculator"))
	assert.Empty(t, r.List())

	_, err := r.Get("calculator")
	assert.ErrorIs(t, err, core.ErrAgentNotFound)
}

func TestRegistry_CreateSupervisor(t *testing.T) {
	coord := model.NewScriptedModel("coord")
	r := New(coord)
	r.Register(agent.NewModelAgent("calculator", model.NewScriptedModel("m")))

	sup, err := r.CreateSupervisor("team", []string{"calculator"})
	require.NoError(t, err)
	assert.Equal(t, []string{"calculator"}, sup.Members())

	// The supervisor itself is registered and routable by name.
	got, err := r.Get("team")
	require.NoError(t, err)
	assert.Equal(t, core.AgentTypeSupervisor, got.Type())
}

func TestRegistry_CreateSupervisor_EmptyMembersMeansAll(t *testing.T) {
	r := newTestRegistry()
	r.Register(agent.NewModelAgent("calculator", model.NewScriptedModel("m")))
	r.Register(agent.NewModelAgent("safety", model.NewScriptedModel("m")))

	sup, err := r.CreateSupervisor("team", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"calculator", "safety"}, sup.Members())
}

func TestRegistry_CreateSupervisor_UnresolvedMember(t *testing.T) {
	r := newTestRegistry()

	_, err := r.CreateSupervisor("team", []string{"calculator"})
	require.Error(t, err)

	var ce *core.ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "calculator", ce.Agent)

	// No partial graph: nothing was registered.
	_, err = r.Get("team")
	assert.ErrorIs(t, err, core.ErrAgentNotFound)
}

func TestRegistry_CreateSupervisor_FirstUnresolvedNamed(t *testing.T) {
	r := newTestRegistry()
	r.Register(agent.NewModelAgent("calculator", model.NewScriptedModel("m")))

	_, err := r.CreateSupervisor("team", []string{"calculator", "ghost", "phantom"})
	var ce *core.ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "ghost", ce.Agent)
}

func TestRegistry_Bootstrap(t *testing.T) {
	r := newTestRegistry()

	err := r.Bootstrap(
		Definition{
			Name:        "calculator",
			Kind:        KindModel,
			Description: "Performs arithmetic",
			Tools:       []string{"calculator"},
		},
		Definition{Name: "excel", Kind: KindExcel},
		Definition{Name: "pdf", Kind: KindPDF},
		Definition{
			Name:       "team",
			Kind:       KindSupervisor,
			Members:    []string{"calculator", "excel"},
			OutputMode: supervisor.OutputModeLastMessage,
		},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"calculator", "excel", "pdf", "team"}, r.List())

	calc, err := r.Get("calculator")
	require.NoError(t, err)
	assert.Equal(t, "Performs arithmetic", calc.Description())
	assert.True(t, calc.(*agent.ModelAgent).HasTool("calculator"))

	team, err := r.Get("team")
	require.NoError(t, err)
	sup := team.(*supervisor.Supervisor)
	assert.Equal(t, []string{"calculator", "excel"}, sup.Members())
	assert.Equal(t, supervisor.OutputModeLastMessage, sup.OutputMode())
}

func TestRegistry_Bootstrap_UnknownKind(t *testing.T) {
	r := newTestRegistry()
	err := r.Bootstrap(Definition{Name: "x", Kind: "mystery"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kind")
}

func TestRegistry_Bootstrap_UnknownTool(t *testing.T) {
	r := newTestRegistry()
	err := r.Bootstrap(Definition{Name: "x", Kind: KindModel, Tools: []string{"teleport"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown tool "teleport"`)
}

func TestRegistry_Bootstrap_SupervisorMissingMember(t *testing.T) {
	r := newTestRegistry()
	err := r.Bootstrap(Definition{Name: "team", Kind: KindSupervisor, Members: []string{"calculator"}})

	var ce *core.ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "calculator", ce.Agent)
}

func TestRegistry_RoutingScenario(t *testing.T) {
	coord := model.NewScriptedModel("coord")
	coord.Enqueue(
		model.ToolCallResponse(supervisor.DelegateToolName, `{"agent":"calculator"}`),
		model.TextResponse("The answer is 10."),
	)
	r := New(coord)

	calcLLM := model.NewScriptedModel("m")
	calcLLM.Enqueue(
		model.ToolCallResponse("calculator", `{"operation":"add","a":5,"b":5}`),
		model.TextResponse("5 + 5 = 10"),
	)
	r.Register(agent.NewModelAgent("calculator", calcLLM, func(o *agent.ModelAgentOptions) {
		o.Tools = []tool.Tool{tool.NewCalculatorTool()}
	}))

	sup, err := r.CreateSupervisor("team", []string{"calculator"})
	require.NoError(t, err)

	out, err := sup.Invoke(context.Background(), core.NewState(core.NewUserMessage("what is 5 + 5?")))
	require.NoError(t, err)

	last, _ := out.LastMessage()
	assert.Contains(t, last.Text(), "10")
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := newTestRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			r.Register(agent.NewModelAgent(fmt.Sprintf("agent-%d", i), model.NewScriptedModel("m")))
		}(i)
		go func() {
			defer wg.Done()
			_ = r.List()
			_, _ = r.Get("agent-0")
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, r.Len())
}
