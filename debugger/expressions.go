package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lookbusy1344/riscv64-emulator/core"
)

// registerAliases maps every name the debugger accepts for a register onto
// its Register value: x0-x31/pc plus the ABI names the disassembler uses.
var registerAliases = map[string]core.Register{
	"pc": core.PC,
	"zero": core.X0, "ra": core.X1, "sp": core.X2, "gp": core.X3, "tp": core.X4,
	"t0": core.X5, "t1": core.X6, "t2": core.X7,
	"s0": core.X8, "fp": core.X8, "s1": core.X9,
	"a0": core.X10, "a1": core.X11, "a2": core.X12, "a3": core.X13,
	"a4": core.X14, "a5": core.X15, "a6": core.X16, "a7": core.X17,
	"s2": core.X18, "s3": core.X19, "s4": core.X20, "s5": core.X21,
	"s6": core.X22, "s7": core.X23, "s8": core.X24, "s9": core.X25,
	"s10": core.X26, "s11": core.X27,
	"t3": core.X28, "t4": core.X29, "t5": core.X30, "t6": core.X31,
}

func init() {
	for i := 0; i <= 31; i++ {
		registerAliases[fmt.Sprintf("x%d", i)] = core.Register(i)
	}
}

// ExpressionEvaluator evaluates expressions in debugger commands
type ExpressionEvaluator struct {
	valueHistory []uint64 // History of evaluated values
	valueNumber  int      // Current value number for $1, $2, etc.
}

// NewExpressionEvaluator creates a new expression evaluator
func NewExpressionEvaluator() *ExpressionEvaluator {
	return &ExpressionEvaluator{
		valueHistory: make([]uint64, 0),
		valueNumber:  0,
	}
}

// EvaluateExpression evaluates an expression and returns the result
func (e *ExpressionEvaluator) EvaluateExpression(expr string, c *core.Core, symbols map[string]uint64) (uint64, error) {
	result, err := e.evaluate(expr, c, symbols)
	if err != nil {
		return 0, err
	}

	e.valueHistory = append(e.valueHistory, result)
	e.valueNumber = len(e.valueHistory)

	return result, nil
}

// Evaluate evaluates an expression and returns a boolean result (for conditions)
func (e *ExpressionEvaluator) Evaluate(expr string, c *core.Core, symbols map[string]uint64) (bool, error) {
	result, err := e.evaluate(expr, c, symbols)
	if err != nil {
		return false, err
	}

	return result != 0, nil
}

// GetValueNumber returns the current value number
func (e *ExpressionEvaluator) GetValueNumber() int {
	return e.valueNumber
}

// GetValue returns a value from history by number
func (e *ExpressionEvaluator) GetValue(number int) (uint64, error) {
	if number < 1 || number > len(e.valueHistory) {
		return 0, fmt.Errorf("value $%d not in history", number)
	}

	return e.valueHistory[number-1], nil
}

// evaluate is the main evaluation logic
func (e *ExpressionEvaluator) evaluate(expr string, c *core.Core, symbols map[string]uint64) (uint64, error) {
	expr = strings.TrimSpace(expr)

	if expr == "" {
		return 0, fmt.Errorf("empty expression")
	}

	if val, err := e.trySimpleEval(expr, c, symbols); err == nil {
		return val, nil
	}

	// Support: +, -, *, /, &, |, ^, <<, >>
	// Look for operators with whitespace around them to avoid matching
	// inside hex literals.
	operators := []string{"<<", ">>", "&", "|", "^", "+", "-", "*", "/"}
	for _, op := range operators {
		patterns := []string{
			" " + op + " ",
			" " + op,
			op + " ",
		}

		for _, pattern := range patterns {
			idx := strings.Index(expr, pattern)
			if idx < 0 {
				continue
			}

			opPos := idx
			if pattern[0] == ' ' {
				opPos++
			}

			left := strings.TrimSpace(expr[:opPos])
			right := strings.TrimSpace(expr[opPos+len(op):])

			if left == "" || right == "" {
				continue
			}

			leftVal, err := e.evaluate(left, c, symbols)
			if err != nil {
				continue
			}

			rightVal, err := e.evaluate(right, c, symbols)
			if err != nil {
				continue
			}

			return e.applyOperator(leftVal, rightVal, op)
		}
	}

	return 0, fmt.Errorf("invalid expression: %s", expr)
}

// trySimpleEval tries to evaluate a simple expression (number, register, memory, symbol)
func (e *ExpressionEvaluator) trySimpleEval(expr string, c *core.Core, symbols map[string]uint64) (uint64, error) {
	expr = strings.TrimSpace(expr)

	if strings.HasPrefix(expr, "[") && strings.HasSuffix(expr, "]") {
		addrExpr := strings.TrimSpace(expr[1 : len(expr)-1])
		addr, err := e.evaluate(addrExpr, c, symbols)
		if err != nil {
			return 0, err
		}

		value, err := c.Mem.ReadU64(addr)
		if err != nil {
			return 0, fmt.Errorf("failed to read memory at 0x%016x: %w", addr, err)
		}

		return value, nil
	}

	if strings.HasPrefix(expr, "*") {
		addrExpr := strings.TrimSpace(expr[1:])
		addr, err := e.evaluate(addrExpr, c, symbols)
		if err != nil {
			return 0, err
		}

		value, err := c.Mem.ReadU64(addr)
		if err != nil {
			return 0, fmt.Errorf("failed to read memory at 0x%016x: %w", addr, err)
		}

		return value, nil
	}

	if strings.HasPrefix(expr, "$") {
		numStr := expr[1:]
		num, err := strconv.Atoi(numStr)
		if err != nil {
			return 0, fmt.Errorf("invalid value reference: %s", expr)
		}

		return e.GetValue(num)
	}

	if val, err := e.evalRegister(expr, c); err == nil {
		return val, nil
	}

	if addr, exists := symbols[expr]; exists {
		return addr, nil
	}

	if val, err := e.parseNumber(expr); err == nil {
		return val, nil
	}

	return 0, fmt.Errorf("unknown identifier: %s", expr)
}

// evalRegister evaluates a register reference
func (e *ExpressionEvaluator) evalRegister(expr string, c *core.Core) (uint64, error) {
	reg, ok := registerAliases[strings.ToLower(expr)]
	if !ok {
		return 0, fmt.Errorf("not a register")
	}
	return c.Reg(reg), nil
}

// parseNumber parses a numeric literal
func (e *ExpressionEvaluator) parseNumber(expr string) (uint64, error) {
	expr = strings.TrimSpace(expr)

	if strings.HasPrefix(strings.ToLower(expr), "0x") {
		val, err := strconv.ParseUint(expr[2:], 16, 64)
		if err != nil {
			return 0, err
		}
		return val, nil
	}

	if strings.HasPrefix(expr, "0b") || strings.HasPrefix(expr, "0B") {
		val, err := strconv.ParseUint(expr[2:], 2, 64)
		if err != nil {
			return 0, err
		}
		return val, nil
	}

	if strings.HasPrefix(expr, "0") && len(expr) > 1 {
		val, err := strconv.ParseUint(expr, 8, 64)
		if err != nil {
			return 0, err
		}
		return val, nil
	}

	val, err := strconv.ParseInt(expr, 10, 64)
	if err != nil {
		return 0, err
	}

	return uint64(val), nil
}

// applyOperator applies a binary operator to two values
func (e *ExpressionEvaluator) applyOperator(left, right uint64, op string) (uint64, error) {
	switch op {
	case "+":
		return left + right, nil
	case "-":
		return left - right, nil
	case "*":
		return left * right, nil
	case "/":
		if right == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return left / right, nil
	case "&":
		return left & right, nil
	case "|":
		return left | right, nil
	case "^":
		return left ^ right, nil
	case "<<":
		return left << right, nil
	case ">>":
		return left >> right, nil
	default:
		return 0, fmt.Errorf("unknown operator: %s", op)
	}
}

// Reset clears the value history
func (e *ExpressionEvaluator) Reset() {
	e.valueHistory = e.valueHistory[:0]
	e.valueNumber = 0
}
