package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lookbusy1344/riscv64-emulator/core"
)

// Command handler implementations

// cmdRun starts execution from the current PC; it does not reset the core (see cmdReset)
func (d *Debugger) cmdRun(args []string) error {
	d.Running = true
	d.StepMode = StepNone

	d.Println("Starting program execution...")
	return nil
}

// cmdContinue continues execution from current point
func (d *Debugger) cmdContinue(args []string) error {
	d.Running = true
	d.StepMode = StepNone

	d.Println("Continuing...")
	return nil
}

// cmdStep executes a single instruction
func (d *Debugger) cmdStep(args []string) error {
	d.StepMode = StepSingle
	d.Running = true
	return nil
}

// cmdNext steps over function calls (step to next instruction at same level)
func (d *Debugger) cmdNext(args []string) error {
	d.SetStepOver()
	return nil
}

// cmdFinish resumes execution in StepOut mode. No call depth is tracked, so
// it stops only at a breakpoint, a watchpoint or when the program stops, not
// at the current function's return.
func (d *Debugger) cmdFinish(args []string) error {
	d.SetStepOut()
	return nil
}

// cmdBreak sets a breakpoint
func (d *Debugger) cmdBreak(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: break <address|label> [if <condition>]")
	}

	address, err := d.ResolveAddress(args[0])
	if err != nil {
		return err
	}

	var condition string
	if len(args) > 1 && strings.ToLower(args[1]) == "if" {
		condition = strings.Join(args[2:], " ")
	}

	bp := d.Breakpoints.AddBreakpoint(address, false, condition)

	if condition != "" {
		d.Printf("Breakpoint %d at 0x%016X (condition: %s)\n", bp.ID, address, condition)
	} else {
		d.Printf("Breakpoint %d at 0x%016X\n", bp.ID, address)
	}

	return nil
}

// cmdTBreak sets a temporary breakpoint (auto-delete after hit)
func (d *Debugger) cmdTBreak(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: tbreak <address|label>")
	}

	address, err := d.ResolveAddress(args[0])
	if err != nil {
		return err
	}

	bp := d.Breakpoints.AddBreakpoint(address, true, "")
	d.Printf("Temporary breakpoint %d at 0x%016X\n", bp.ID, address)

	return nil
}

// cmdDelete deletes breakpoint(s)
func (d *Debugger) cmdDelete(args []string) error {
	if len(args) == 0 {
		d.Breakpoints.Clear()
		d.Println("All breakpoints deleted")
		return nil
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint ID: %s", args[0])
	}

	if err := d.Breakpoints.DeleteBreakpoint(id); err != nil {
		return err
	}

	d.Printf("Breakpoint %d deleted\n", id)
	return nil
}

// cmdEnable enables breakpoint(s)
func (d *Debugger) cmdEnable(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: enable <breakpoint-id>")
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint ID: %s", args[0])
	}

	if err := d.Breakpoints.EnableBreakpoint(id); err != nil {
		return err
	}

	d.Printf("Breakpoint %d enabled\n", id)
	return nil
}

// cmdDisable disables breakpoint(s)
func (d *Debugger) cmdDisable(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: disable <breakpoint-id>")
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint ID: %s", args[0])
	}

	if err := d.Breakpoints.DisableBreakpoint(id); err != nil {
		return err
	}

	d.Printf("Breakpoint %d disabled\n", id)
	return nil
}

// cmdWatch sets a write watchpoint
func (d *Debugger) cmdWatch(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: watch <expression>")
	}

	expression := strings.Join(args, " ")

	isRegister, register, address, err := d.parseWatchExpression(expression)
	if err != nil {
		return err
	}

	wp := d.Watchpoints.AddWatchpoint(WatchWrite, expression, address, isRegister, register)

	if err := d.Watchpoints.InitializeWatchpoint(wp.ID, d.Core); err != nil {
		_ = d.Watchpoints.DeleteWatchpoint(wp.ID)
		return err
	}

	d.Printf("Watchpoint %d: %s\n", wp.ID, expression)
	return nil
}

// cmdRWatch sets a read watchpoint
func (d *Debugger) cmdRWatch(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: rwatch <expression>")
	}

	expression := strings.Join(args, " ")
	isRegister, register, address, err := d.parseWatchExpression(expression)
	if err != nil {
		return err
	}

	wp := d.Watchpoints.AddWatchpoint(WatchRead, expression, address, isRegister, register)

	if err := d.Watchpoints.InitializeWatchpoint(wp.ID, d.Core); err != nil {
		_ = d.Watchpoints.DeleteWatchpoint(wp.ID)
		return err
	}

	d.Printf("Read watchpoint %d: %s\n", wp.ID, expression)
	return nil
}

// cmdAWatch sets a read/write watchpoint
func (d *Debugger) cmdAWatch(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: awatch <expression>")
	}

	expression := strings.Join(args, " ")
	isRegister, register, address, err := d.parseWatchExpression(expression)
	if err != nil {
		return err
	}

	wp := d.Watchpoints.AddWatchpoint(WatchReadWrite, expression, address, isRegister, register)

	if err := d.Watchpoints.InitializeWatchpoint(wp.ID, d.Core); err != nil {
		_ = d.Watchpoints.DeleteWatchpoint(wp.ID)
		return err
	}

	d.Printf("Access watchpoint %d: %s\n", wp.ID, expression)
	return nil
}

// parseWatchExpression parses a watch expression (register or memory address)
func (d *Debugger) parseWatchExpression(expr string) (isRegister bool, register core.Register, address uint64, err error) {
	expr = strings.ToLower(strings.TrimSpace(expr))

	if reg, ok := registerAliases[expr]; ok {
		return true, reg, 0, nil
	}

	if strings.HasPrefix(expr, "[") && strings.HasSuffix(expr, "]") {
		addrStr := strings.TrimSuffix(strings.TrimPrefix(expr, "["), "]")
		addr, err := d.ResolveAddress(addrStr)
		if err != nil {
			return false, 0, 0, err
		}
		return false, 0, addr, nil
	}

	addr, err := d.ResolveAddress(expr)
	if err != nil {
		return false, 0, 0, fmt.Errorf("invalid watch expression: %s", expr)
	}

	return false, 0, addr, nil
}

// cmdPrint evaluates and prints an expression
func (d *Debugger) cmdPrint(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: print <expression>")
	}

	expression := strings.Join(args, " ")
	result, err := d.Evaluator.EvaluateExpression(expression, d.Core, d.Symbols)
	if err != nil {
		return err
	}

	d.Printf("$%d = 0x%016X (%d)\n", d.Evaluator.GetValueNumber(), result, int64(result))
	return nil
}

// cmdExamine examines memory at an address
func (d *Debugger) cmdExamine(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: x[/nfu] <address>\n  n: count, f: format (x/d/u/o/t), u: unit size (b/h/w/g)")
	}

	count := 1
	format := 'x'
	unit := 'w'
	addrArg := args[0]

	if strings.HasPrefix(args[0], "/") {
		formatStr := args[0][1:]
		if len(args) < 2 {
			return fmt.Errorf("missing address")
		}
		addrArg = args[1]

		i := 0
		for i < len(formatStr) && formatStr[i] >= '0' && formatStr[i] <= '9' {
			i++
		}
		if i > 0 {
			if n, err := strconv.Atoi(formatStr[:i]); err == nil {
				count = n
			}
			formatStr = formatStr[i:]
		}

		if len(formatStr) > 0 {
			format = rune(formatStr[0])
			formatStr = formatStr[1:]
		}

		if len(formatStr) > 0 {
			unit = rune(formatStr[0])
		}
	}

	address, err := d.ResolveAddress(addrArg)
	if err != nil {
		return err
	}

	d.Printf("0x%016X:", address)
	for i := 0; i < count; i++ {
		var value uint64
		var readErr error

		switch unit {
		case 'b':
			v, e := d.Core.Mem.ReadU8(address)
			value = uint64(v)
			readErr = e
			address++
		case 'h':
			v, e := d.Core.Mem.ReadU16(address)
			value = uint64(v)
			readErr = e
			address += 2
		case 'g':
			value, readErr = d.Core.Mem.ReadU64(address)
			address += 8
		default: // 'w' - word
			v, e := d.Core.Mem.ReadU32(address)
			value = uint64(v)
			readErr = e
			address += 4
		}

		if readErr != nil {
			return readErr
		}

		switch format {
		case 'x':
			d.Printf(" 0x%X", value)
		case 'd':
			d.Printf(" %d", int64(value))
		case 'u':
			d.Printf(" %d", value)
		case 'o':
			d.Printf(" %o", value)
		case 't':
			d.Printf(" %b", value)
		default:
			d.Printf(" 0x%X", value)
		}
	}
	d.Println()

	return nil
}

// cmdInfo displays information about program state
func (d *Debugger) cmdInfo(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: info <registers|csr|breakpoints|watchpoints|stack>")
	}

	switch strings.ToLower(args[0]) {
	case "registers", "reg", "r":
		return d.showRegisters()
	case "csr":
		return d.showCSR(args[1:])
	case "breakpoints", "break", "b":
		return d.showBreakpoints()
	case "watchpoints", "watch", "w":
		return d.showWatchpoints()
	case "stack", "s":
		return d.showStack()
	default:
		return fmt.Errorf("unknown info command: %s", args[0])
	}
}

// showRegisters displays all general-purpose registers plus PC
func (d *Debugger) showRegisters() error {
	d.Println("Registers:")
	for i := 0; i < 32; i += 4 {
		d.Printf("  x%-2d=0x%016X  x%-2d=0x%016X  x%-2d=0x%016X  x%-2d=0x%016X\n",
			i, d.Core.Reg(core.Register(i)),
			i+1, d.Core.Reg(core.Register(i+1)),
			i+2, d.Core.Reg(core.Register(i+2)),
			i+3, d.Core.Reg(core.Register(i+3)))
	}
	d.Printf("  pc =0x%016X  cycles=%d\n", d.Core.Reg(core.PC), d.Core.Cycles)

	return nil
}

// showCSR displays a single CSR, or a short well-known set with no argument
func (d *Debugger) showCSR(args []string) error {
	if len(args) == 0 {
		for _, addr := range []uint16{0x300, 0x305, 0x341, 0x342} {
			val, err := d.Core.ReadCSR(addr)
			if err != nil {
				continue
			}
			d.Printf("  csr[0x%03x] = 0x%016X\n", addr, val)
		}
		return nil
	}

	addr, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(args[0]), "0x"), 16, 16)
	if err != nil {
		return fmt.Errorf("invalid csr address: %s", args[0])
	}

	val, err := d.Core.ReadCSR(uint16(addr))
	if err != nil {
		return err
	}
	d.Printf("  csr[0x%03x] = 0x%016X\n", addr, val)
	return nil
}

// showBreakpoints displays all breakpoints
func (d *Debugger) showBreakpoints() error {
	breakpoints := d.Breakpoints.GetAllBreakpoints()
	if len(breakpoints) == 0 {
		d.Println("No breakpoints")
		return nil
	}

	d.Println("Breakpoints:")
	for _, bp := range breakpoints {
		status := "enabled"
		if !bp.Enabled {
			status = "disabled"
		}

		temp := ""
		if bp.Temporary {
			temp = " (temporary)"
		}

		condition := ""
		if bp.Condition != "" {
			condition = fmt.Sprintf(" if %s", bp.Condition)
		}

		d.Printf("  %d: 0x%016X %s%s%s (hit %d times)\n",
			bp.ID, bp.Address, status, temp, condition, bp.HitCount)
	}

	return nil
}

// showWatchpoints displays all watchpoints
func (d *Debugger) showWatchpoints() error {
	watchpoints := d.Watchpoints.GetAllWatchpoints()
	if len(watchpoints) == 0 {
		d.Println("No watchpoints")
		return nil
	}

	d.Println("Watchpoints:")
	for _, wp := range watchpoints {
		status := "enabled"
		if !wp.Enabled {
			status = "disabled"
		}

		wpType := "write"
		if wp.Type == WatchRead {
			wpType = "read"
		} else if wp.Type == WatchReadWrite {
			wpType = "access"
		}

		d.Printf("  %d: %s %s %s (hit %d times, last value: 0x%016X)\n",
			wp.ID, wp.Expression, wpType, status, wp.HitCount, wp.LastValue)
	}

	return nil
}

// showStack displays stack contents
func (d *Debugger) showStack() error {
	sp := d.Core.Reg(core.SP)
	d.Printf("Stack (sp = 0x%016X):\n", sp)

	for i := 0; i < 8; i++ {
		addr := sp + uint64(i*8)
		value, err := d.Core.Mem.ReadU64(addr)
		if err != nil {
			break
		}
		d.Printf("  0x%016X: 0x%016X (%d)\n", addr, value, int64(value))
	}

	return nil
}

// cmdBacktrace shows the call stack
func (d *Debugger) cmdBacktrace(args []string) error {
	d.Println("Call stack:")
	d.Printf("  #0  pc=0x%016X\n", d.Core.Reg(core.PC))
	d.Printf("  #1  ra=0x%016X\n", d.Core.Reg(core.RA))

	return nil
}

// cmdList shows disassembly around current PC
func (d *Debugger) cmdList(args []string) error {
	pc := d.Core.Reg(core.PC)

	if line, exists := d.SourceMap[pc]; exists {
		d.Printf("=> 0x%016X: %s\n", pc, line)
	} else {
		d.Printf("=> 0x%016X: <no disassembly>\n", pc)
	}

	for offset := uint64(2); offset <= 16; offset += 2 {
		addr := pc + offset
		if line, exists := d.SourceMap[addr]; exists {
			d.Printf("   0x%016X: %s\n", addr, line)
		}
	}

	return nil
}

// cmdDisassemble disassembles instructions starting at an address (or PC)
func (d *Debugger) cmdDisassemble(args []string) error {
	addr := d.Core.Reg(core.PC)
	if len(args) > 0 {
		a, err := d.ResolveAddress(args[0])
		if err != nil {
			return err
		}
		addr = a
	}

	for i := 0; i < 16; i++ {
		lo, err := d.Core.Mem.ReadU16(addr)
		if err != nil {
			break
		}

		var inst core.Instruction
		var length uint64
		if lo&0x3 == 0x3 {
			hi, err := d.Core.Mem.ReadU16(addr + 2)
			if err != nil {
				break
			}
			inst = core.Decode32(uint32(lo) | uint32(hi)<<16)
			length = 4
		} else {
			inst = core.Decode16(lo)
			length = 2
		}

		marker := "  "
		if addr == d.Core.Reg(core.PC) {
			marker = "->"
		}
		d.Printf("%s 0x%016X: %s\n", marker, addr, core.Disassemble(inst))
		addr += length
	}

	return nil
}

// cmdSet modifies register or memory values
func (d *Debugger) cmdSet(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: set <register|*address> = <value>")
	}

	if args[1] != "=" {
		return fmt.Errorf("usage: set <register|*address> = <value>")
	}

	target := strings.ToLower(args[0])
	valueStr := args[2]

	value, err := d.Evaluator.EvaluateExpression(valueStr, d.Core, d.Symbols)
	if err != nil {
		return err
	}

	if strings.HasPrefix(target, "*") {
		addrStr := target[1:]
		address, err := d.ResolveAddress(addrStr)
		if err != nil {
			return err
		}

		if err := d.Core.Mem.WriteU64(address, value); err != nil {
			return err
		}

		d.Printf("Memory 0x%016X set to 0x%016X\n", address, value)
		return nil
	}

	reg, ok := registerAliases[target]
	if !ok {
		return fmt.Errorf("invalid target: %s", target)
	}

	d.Core.SetReg(reg, value)
	d.Printf("Register %s set to 0x%016X\n", target, value)

	return nil
}

// cmdLoad loads a program (placeholder)
func (d *Debugger) cmdLoad(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: load <filename>")
	}

	d.Printf("Load command not yet implemented for file: %s\n", args[0])
	return nil
}

// cmdReset resets the core
func (d *Debugger) cmdReset(args []string) error {
	d.Core.Reset()
	d.Println("Core reset")
	return nil
}

// cmdHistory lists recent commands, optionally filtered by a prefix, or
// clears the history with "history clear".
func (d *Debugger) cmdHistory(args []string) error {
	if len(args) > 0 && args[0] == "clear" {
		d.History.Clear()
		d.Println("Command history cleared")
		return nil
	}

	cmds := d.History.GetAll()
	if len(args) > 0 {
		cmds = d.History.Search(args[0])
	}

	if len(cmds) == 0 {
		d.Println("No commands in history")
		return nil
	}

	for i, cmd := range cmds {
		d.Printf("%4d  %s\n", i+1, cmd)
	}
	if last := d.History.GetLast(); last != "" {
		d.Printf("(last: %s)\n", last)
	}

	return nil
}

// cmdHelp displays help information
func (d *Debugger) cmdHelp(args []string) error {
	if len(args) > 0 {
		return d.showCommandHelp(args[0])
	}

	d.Println("RV64GC Debugger Commands:")
	d.Println()
	d.Println("Execution Control:")
	d.Println("  run (r)           - Start program execution")
	d.Println("  continue (c)      - Continue execution")
	d.Println("  step (s, si)      - Execute single instruction")
	d.Println("  next (n)          - Step over function calls")
	d.Println("  finish (fin)      - Run until a breakpoint/watchpoint (does not stop at return)")
	d.Println()
	d.Println("Breakpoints:")
	d.Println("  break (b) <addr>  - Set breakpoint")
	d.Println("  tbreak (tb) <addr>- Set temporary breakpoint")
	d.Println("  delete (d) [id]   - Delete breakpoint(s)")
	d.Println("  enable <id>       - Enable breakpoint")
	d.Println("  disable <id>      - Disable breakpoint")
	d.Println()
	d.Println("Watchpoints:")
	d.Println("  watch (w) <expr>  - Stop when the value changes")
	d.Println("  rwatch <expr>     - Same as watch (reads are not detected)")
	d.Println("  awatch <expr>     - Same as watch (reads are not detected)")
	d.Println()
	d.Println("Inspection:")
	d.Println("  print (p) <expr>  - Evaluate expression")
	d.Println("  x[/nfu] <addr>    - Examine memory")
	d.Println("  info (i) <what>   - Show information (registers, csr, breakpoints, watchpoints, stack)")
	d.Println("  backtrace (bt)    - Show call stack")
	d.Println("  list (l)          - List disassembly")
	d.Println("  disassemble       - Disassemble at address")
	d.Println()
	d.Println("Modification:")
	d.Println("  set <var> = <val> - Modify register/memory")
	d.Println()
	d.Println("Control:")
	d.Println("  reset             - Reset core")
	d.Println("  history [prefix]  - Show command history, optionally filtered")
	d.Println("  help (h, ?)       - Show this help")
	d.Println()
	d.Println("Type 'help <command>' for detailed help on a specific command.")

	return nil
}

// showCommandHelp shows detailed help for a specific command
func (d *Debugger) showCommandHelp(cmd string) error {
	helpText := map[string]string{
		"break": "break <address|label> [if <condition>]\n  Set a breakpoint at the specified address or label.\n  Optional condition will be evaluated each time.",
		"step":  "step\n  Execute a single instruction.",
		"next":  "next\n  Step over function calls (execute until next instruction at same level).",
		"print": "print <expression>\n  Evaluate and print an expression.\n  Expressions can include registers, memory, symbols, and arithmetic.",
		"x":     "x[/nfu] <address>\n  Examine memory.\n  n: count, f: format (x/d/u/o/t), u: unit (b/h/w/g)",
		"info":  "info <registers|csr|breakpoints|watchpoints|stack>\n  Display information about program state.",
	}

	if help, exists := helpText[cmd]; exists {
		d.Println(help)
		return nil
	}

	return fmt.Errorf("no help available for command: %s", cmd)
}
