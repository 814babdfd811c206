package tool

import "fmt"

// calculatorArgs is the argument container for the calculator tool.
type calculatorArgs struct {
	Operation string  `json:"operation" description:"Arithmetic operation to perform" enum:"add,subtract,multiply,divide"`
	A         float64 `json:"a" description:"First operand"`
	B         float64 `json:"b" description:"Second operand"`
}

// NewCalculatorTool returns a deterministic arithmetic tool supporting the
// four basic operations. Division by zero is reported as a ToolError so the
// calling agent can narrate the failure instead of aborting the turn.
func NewCalculatorTool() Tool {
	return NewFunctionToolFromStruct(
		"calculator",
		"Perform basic arithmetic: add, subtract, multiply or divide two numbers.",
		calculatorArgs{},
		func(tc *Context, args map[string]any) (any, error) {
			op, _ := args["operation"].(string)
			a, aok := toFloat(args["a"])
			b, bok := toFloat(args["b"])
			if !aok || !bok {
				return nil, NewToolError("calculator", "operands must be numbers", "VALIDATION_ERROR")
			}

			var result float64
			switch op {
			case "add":
				result = a + b
			case "subtract":
				result = a - b
			case "multiply":
				result = a * b
			case "divide":
				if b == 0 {
					return nil, NewToolError("calculator", "division by zero", "EXECUTION_ERROR")
				}
				result = a / b
			default:
				return nil, NewToolError("calculator", fmt.Sprintf("unknown operation %q", op), "VALIDATION_ERROR")
			}

			return map[string]any{"operation": op, "a": a, "b": b, "result": result}, nil
		},
	)
}

// toFloat widens JSON numeric representations to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
