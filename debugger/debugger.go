// Package debugger implements an interactive command/TUI debugger for a
// core.Core: breakpoints, watchpoints, command history, and a register/
// memory/disassembly expression evaluator.
package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lookbusy1344/riscv64-emulator/core"
)

// Debugger represents the debugger state and functionality
type Debugger struct {
	Core *core.Core

	// Breakpoint management
	Breakpoints *BreakpointManager

	// Watchpoint management
	Watchpoints *WatchpointManager

	// Command history
	History *CommandHistory

	// Expression evaluator
	Evaluator *ExpressionEvaluator

	// Execution control
	Running           bool
	StepMode          StepMode
	StepOverCallDepth int    // Track call depth for step over
	StepOverPC        uint64 // PC to return to after step over

	// Symbol table (for label/symbol resolution)
	Symbols map[string]uint64

	// Source/disassembly mapping (address -> rendered line)
	SourceMap map[uint64]string

	// Last command (for repeat on empty input)
	LastCommand string

	// Output buffer
	Output strings.Builder
}

// StepMode represents different stepping modes
type StepMode int

const (
	StepNone   StepMode = iota // Not stepping
	StepSingle                 // Step one instruction
	StepOver                   // Step over function calls
	StepOut                    // Step out of current function
)

// NewDebugger creates a new debugger instance
func NewDebugger(c *core.Core) *Debugger {
	return &Debugger{
		Core:        c,
		Breakpoints: NewBreakpointManager(),
		Watchpoints: NewWatchpointManager(),
		History:     NewCommandHistory(),
		Evaluator:   NewExpressionEvaluator(),
		Running:     false,
		StepMode:    StepNone,
		Symbols:     make(map[string]uint64),
		SourceMap:   make(map[uint64]string),
	}
}

// LoadSymbols loads the symbol table for label resolution
func (d *Debugger) LoadSymbols(symbols map[string]uint64) {
	d.Symbols = symbols
}

// LoadDisassembly populates the source/disassembly map for the code view,
// keyed by the address each instruction is fetched from.
func (d *Debugger) LoadDisassembly(lines map[uint64]string) {
	d.SourceMap = lines
}

// ResolveAddress resolves a label to an address, or parses a numeric address
func (d *Debugger) ResolveAddress(addrStr string) (uint64, error) {
	if addr, exists := d.Symbols[addrStr]; exists {
		return addr, nil
	}

	lower := strings.ToLower(addrStr)
	if strings.HasPrefix(lower, "0x") {
		addr, err := strconv.ParseUint(lower[2:], 16, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid address: %s", addrStr)
		}
		return addr, nil
	}

	addr, err := strconv.ParseUint(addrStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid address: %s", addrStr)
	}
	return addr, nil
}

// ExecuteCommand processes and executes a debugger command
func (d *Debugger) ExecuteCommand(cmdLine string) error {
	cmdLine = strings.TrimSpace(cmdLine)

	// Empty command repeats last command (for step, next, etc.)
	if cmdLine == "" {
		cmdLine = d.LastCommand
	}

	if cmdLine != "" {
		d.History.Add(cmdLine)
		d.LastCommand = cmdLine
	}

	parts := strings.Fields(cmdLine)
	if len(parts) == 0 {
		return nil
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	return d.handleCommand(cmd, args)
}

// handleCommand dispatches commands to appropriate handlers
func (d *Debugger) handleCommand(cmd string, args []string) error {
	switch cmd {
	// Execution control
	case "run", "r":
		return d.cmdRun(args)
	case "continue", "c":
		return d.cmdContinue(args)
	case "step", "s", "si":
		return d.cmdStep(args)
	case "next", "n":
		return d.cmdNext(args)
	case "finish", "fin":
		return d.cmdFinish(args)

	// Breakpoints
	case "break", "b":
		return d.cmdBreak(args)
	case "tbreak", "tb":
		return d.cmdTBreak(args)
	case "delete", "d":
		return d.cmdDelete(args)
	case "enable":
		return d.cmdEnable(args)
	case "disable":
		return d.cmdDisable(args)

	// Watchpoints
	case "watch", "w":
		return d.cmdWatch(args)
	case "rwatch":
		return d.cmdRWatch(args)
	case "awatch":
		return d.cmdAWatch(args)

	// Inspection
	case "print", "p":
		return d.cmdPrint(args)
	case "x":
		return d.cmdExamine(args)
	case "info", "i":
		return d.cmdInfo(args)
	case "backtrace", "bt", "where":
		return d.cmdBacktrace(args)
	case "list", "l":
		return d.cmdList(args)
	case "disassemble", "disas":
		return d.cmdDisassemble(args)

	// State modification
	case "set":
		return d.cmdSet(args)

	// Program control
	case "load":
		return d.cmdLoad(args)
	case "reset":
		return d.cmdReset(args)
	case "history":
		return d.cmdHistory(args)

	// Help
	case "help", "h", "?":
		return d.cmdHelp(args)

	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmd)
	}
}

// ShouldBreak checks if execution should pause at the current PC
func (d *Debugger) ShouldBreak() (bool, string) {
	pc := d.Core.Reg(core.PC)

	switch d.StepMode {
	case StepSingle:
		d.StepMode = StepNone
		return true, "single step"

	case StepOver:
		if pc == d.StepOverPC {
			d.StepMode = StepNone
			return true, "step over complete"
		}

	case StepOut:
		// would require call stack tracking; not implemented
	}

	if bp := d.Breakpoints.GetBreakpoint(pc); bp != nil {
		if !bp.Enabled {
			return false, ""
		}

		if bp.Condition != "" {
			result, err := d.Evaluator.Evaluate(bp.Condition, d.Core, d.Symbols)
			if err != nil {
				return true, fmt.Sprintf("breakpoint %d (condition error: %v)", bp.ID, err)
			}
			if !result {
				return false, ""
			}
		}

		bp.HitCount++

		if bp.Temporary {
			_ = d.Breakpoints.DeleteBreakpoint(bp.ID)
		}

		return true, fmt.Sprintf("breakpoint %d", bp.ID)
	}

	if wp, changed := d.Watchpoints.CheckWatchpoints(d.Core); wp != nil && changed {
		return true, fmt.Sprintf("watchpoint %d: %s", wp.ID, wp.Expression)
	}

	return false, ""
}

// GetOutput returns and clears the output buffer
func (d *Debugger) GetOutput() string {
	output := d.Output.String()
	d.Output.Reset()
	return output
}

// Printf writes formatted output to the output buffer
func (d *Debugger) Printf(format string, args ...interface{}) {
	d.Output.WriteString(fmt.Sprintf(format, args...))
}

// Println writes a line to the output buffer
func (d *Debugger) Println(args ...interface{}) {
	d.Output.WriteString(fmt.Sprintln(args...))
}

// SetStepOver configures the debugger to step over function calls. A JAL or
// JALR/C.JALR that writes ra (x1) is treated as "a call" worth stepping over.
func (d *Debugger) SetStepOver() {
	pc := d.Core.Reg(core.PC)
	word, err := d.Core.Mem.ReadU16(pc)
	if err != nil {
		d.StepMode = StepSingle
		d.Running = true
		return
	}

	length := uint64(2)
	isCall := false
	if word&0x3 == 0x3 {
		length = 4
		if hi, err := d.Core.Mem.ReadU16(pc + 2); err == nil {
			full := uint32(word) | uint32(hi)<<16
			inst := core.Decode32(full)
			isCall = (inst.Op == core.OpJal || inst.Op == core.OpJalr) && inst.Rd == core.RA
		}
	} else {
		inst := core.Decode16(word)
		isCall = inst.Op == core.OpCJalr && inst.Rd == core.RA
	}

	if isCall {
		d.StepOverPC = pc + length
		d.StepMode = StepOver
		d.Running = true
	} else {
		d.StepMode = StepSingle
		d.Running = true
	}
}

// SetStepOut sets StepOut mode and resumes execution. ShouldBreak does not
// track call depth, so execution stops only at a breakpoint, a watchpoint or
// when the program stops, not at the current function's return.
func (d *Debugger) SetStepOut() {
	d.StepMode = StepOut
	d.Running = true
}
