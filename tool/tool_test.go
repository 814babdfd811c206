package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/agentmux/agentmux/core"
	"github.com/agentmux/agentmux/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------- Schema & Validation Tests --------------------

type sampleSchema struct {
	A string `json:"a" description:"Field A"`
	B *int   `json:"b" description:"Optional pointer field"`
	C int    `json:"c,omitempty" description:"Omit empty field"`
	D string `json:"d" enum:"x,y"`
}

func TestCreateSchema(t *testing.T) {
	schema := util.CreateSchema(sampleSchema{})
	props, ok := schema["properties"].(map[string]any)
	assert.True(t, ok)
	assert.Contains(t, props, "a")
	assert.Contains(t, props, "b")
	assert.Contains(t, props, "c")
	// Required only includes non-pointer, non-omitempty exported fields
	req, _ := schema["required"].([]string)
	assert.ElementsMatch(t, []string{"a", "d"}, req)
	// Enum tags surface in the property schema
	dProp := props["d"].(map[string]any)
	assert.ElementsMatch(t, []any{"x", "y"}, dProp["enum"])
}

func TestValidateParameters(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"x":  map[string]any{"type": "integer"},
			"op": map[string]any{"type": "string", "enum": []any{"add", "subtract"}},
		},
		"required": []any{"x"},
	}

	// Success
	err := util.ValidateParameters(map[string]any{"x": 5, "op": "add"}, schema)
	assert.NoError(t, err)

	// Missing required
	err = util.ValidateParameters(map[string]any{}, schema)
	assert.Error(t, err)
	if vErr, ok := err.(*ValidationError); ok {
		assert.Equal(t, "x", vErr.Field)
	} else {
		t.Fatalf("expected ValidationError, got %T", err)
	}

	// Wrong type
	err = util.ValidateParameters(map[string]any{"x": "not-int"}, schema)
	assert.Error(t, err)

	// Out of enum
	err = util.ValidateParameters(map[string]any{"x": 1, "op": "divide"}, schema)
	assert.Error(t, err)
}

// -------------------- FunctionTool Tests --------------------

func testContext(fcID string) *Context {
	key := core.ConversationKey{AgentID: "agent-a", UserID: "user-1"}
	return NewContext(context.Background(), key, "agent-a", fcID)
}

func TestFunctionTool_Success(t *testing.T) {
	params := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "number"},
			"b": map[string]any{"type": "number"},
		},
		"required": []string{"a", "b"},
	}

	sumTool := NewFunctionTool("sum", "Add numbers", params, func(_ *Context, args map[string]any) (any, error) {
		return args["a"].(float64) + args["b"].(float64), nil
	})

	result, err := sumTool.Call(testContext("fc1"), map[string]any{"a": 2.0, "b": 3.0})
	assert.NoError(t, err)
	assert.Equal(t, 5.0, result)
}

func TestFunctionTool_ValidationError(t *testing.T) {
	params := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "number"},
		},
		"required": []any{"a"},
	}
	tTool := NewFunctionTool("test", "Test", params, func(_ *Context, _ map[string]any) (any, error) {
		return 0, nil
	})
	_, err := tTool.Call(testContext("fc2"), map[string]any{})
	assert.Error(t, err)
	toolErr, ok := err.(*ToolError)
	assert.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
}

func TestFunctionTool_ExecutionError(t *testing.T) {
	tTool := NewFunctionTool("boom", "Always fails",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ *Context, _ map[string]any) (any, error) {
			return nil, errors.New("backend unavailable")
		})
	_, err := tTool.Call(testContext("fc3"), map[string]any{})
	require.Error(t, err)
	toolErr, ok := err.(*ToolError)
	require.True(t, ok)
	assert.Equal(t, "EXECUTION_ERROR", toolErr.Code)
}

// -------------------- Calculator Tests --------------------

func TestCalculatorTool(t *testing.T) {
	calc := NewCalculatorTool()
	tc := testContext("fc4")

	result, err := calc.Call(tc, map[string]any{"operation": "add", "a": 5.0, "b": 5.0})
	require.NoError(t, err)
	out := result.(map[string]any)
	assert.Equal(t, 10.0, out["result"])

	result, err = calc.Call(tc, map[string]any{"operation": "divide", "a": 9.0, "b": 3.0})
	require.NoError(t, err)
	assert.Equal(t, 3.0, result.(map[string]any)["result"])
}

func TestCalculatorTool_DivisionByZero(t *testing.T) {
	calc := NewCalculatorTool()

	_, err := calc.Call(testContext("fc5"), map[string]any{"operation": "divide", "a": 1.0, "b": 0.0})
	require.Error(t, err)
	toolErr, ok := err.(*ToolError)
	require.True(t, ok)
	assert.Equal(t, "EXECUTION_ERROR", toolErr.Code)
	assert.Contains(t, toolErr.Message, "division by zero")
}

func TestCalculatorTool_UnknownOperation(t *testing.T) {
	calc := NewCalculatorTool()

	_, err := calc.Call(testContext("fc6"), map[string]any{"operation": "modulo", "a": 1.0, "b": 2.0})
	require.Error(t, err)
	toolErr, ok := err.(*ToolError)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
}

// -------------------- Safety Scan Tests --------------------

func TestSafetyScanTool(t *testing.T) {
	scan := NewSafetyScanTool()
	tc := testContext("fc7")

	result, err := scan.Call(tc, map[string]any{"text": "hello world"})
	require.NoError(t, err)
	out := result.(map[string]any)
	assert.True(t, out["safe"].(bool))

	result, err = scan.Call(tc, map[string]any{"text": "my api_key = sk-12345 please keep it"})
	require.NoError(t, err)
	out = result.(map[string]any)
	assert.False(t, out["safe"].(bool))
	assert.Contains(t, out["flagged"].([]string), "credential")
}
