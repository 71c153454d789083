// Command riscv-emu runs a flat RV64GC program image, optionally under the
// interactive CLI or TUI debugger.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lookbusy1344/riscv64-emulator/config"
	"github.com/lookbusy1344/riscv64-emulator/core"
	"github.com/lookbusy1344/riscv64-emulator/debugger"
	"github.com/lookbusy1344/riscv64-emulator/loader"

	"flag"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		debugMode   = flag.Bool("debug", false, "Start in debugger mode")
		tuiMode     = flag.Bool("tui", false, "Use TUI (Text User Interface) debugger")
		maxCycles   = flag.Uint64("max-cycles", 0, "Maximum CPU cycles before halt (0 = use config default)")
		memSize     = flag.Uint64("mem-size", 0, "Memory size in bytes (0 = use config default)")
		entryPoint  = flag.String("entry", "", "Entry point address, hex or decimal (default: load address)")
		loadAddr    = flag.String("load-addr", "0x80000000", "Address the image is loaded at")
		stackTop    = flag.String("stack-top", "", "Initial stack pointer (empty = use config default, 0 = leave sp unset)")
		sentinel    = flag.String("sentinel", "", "Sentinel return address written into ra (empty = use config default, 0 = disabled)")
		verboseMode = flag.Bool("verbose", false, "Verbose output")
		symbolsFile = flag.String("symbols-file", "", "Load a \"name addr\" symbol table from this file")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("riscv64-emu %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	if *showHelp || flag.NArg() == 0 {
		printHelp()
		os.Exit(0)
	}

	imagePath := flag.Arg(0)
	if _, err := os.Stat(imagePath); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: file not found: %s\n", imagePath)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	size := cfg.Execution.MemorySize
	if *memSize != 0 {
		size = *memSize
	}
	c := core.NewCore(size)

	opts := loader.Options{
		LoadAddr: mustParseAddr(*loadAddr, cfg.Execution.EntryPoint),
	}
	if *entryPoint != "" {
		opts.EntryPoint = mustParseAddr(*entryPoint, opts.LoadAddr)
	}
	opts.StackTop = cfg.Execution.StackTop
	if *stackTop != "" {
		opts.StackTop = mustParseAddr(*stackTop, cfg.Execution.StackTop)
	}
	sentinelAddr := cfg.Execution.SentinelReturn
	if *sentinel != "" {
		sentinelAddr = mustParseAddr(*sentinel, cfg.Execution.SentinelReturn)
	}
	opts.Sentinel = sentinelAddr
	opts.Args = flag.Args()[1:]

	if *verboseMode {
		fmt.Printf("Loading image: %s\n", imagePath)
		fmt.Printf("Load address: 0x%016X  entry: 0x%016X  stack top: 0x%016X\n",
			opts.LoadAddr, entryOrDefault(opts), opts.StackTop)
	}

	if err := loader.LoadFile(c, imagePath, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	symbols := make(map[string]uint64)
	if *symbolsFile != "" {
		syms, err := loadSymbolFile(*symbolsFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading symbols: %v\n", err)
			os.Exit(1)
		}
		symbols = syms
	}

	sourceMap := buildDisassemblyMap(c)

	limit := cfg.Execution.MaxCycles
	if *maxCycles != 0 {
		limit = *maxCycles
	}

	if *debugMode || *tuiMode {
		dbg := debugger.NewDebugger(c)
		dbg.LoadSymbols(symbols)
		dbg.LoadDisassembly(sourceMap)

		if *tuiMode {
			if err := debugger.RunTUI(dbg); err != nil {
				fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
				os.Exit(1)
			}
		} else {
			fmt.Println("RV64GC Debugger - Type 'help' for commands")
			fmt.Printf("Program loaded: %s\n", imagePath)
			fmt.Println()

			if err := debugger.RunCLI(dbg); err != nil {
				fmt.Fprintf(os.Stderr, "Debugger error: %v\n", err)
				os.Exit(1)
			}
		}
		return
	}

	if *verboseMode {
		fmt.Println("Starting execution...")
		fmt.Println("----------------------------------------")
	}

	result, err := c.Run(limit, sentinelAddr)
	if err != nil && result.Status == core.StatusRunning {
		fmt.Fprintf(os.Stderr, "Runtime error at pc=0x%016X: %v\n", c.Reg(core.PC), err)
		os.Exit(1)
	}

	if *verboseMode {
		fmt.Println("----------------------------------------")
		fmt.Printf("Stopped: %s\n", result.Status)
		fmt.Printf("Steps executed: %d\n", result.Steps)
		fmt.Print(c.DumpState())
	}

	if result.Status == core.StatusEcall {
		os.Exit(int(c.Reg(core.X10) & 0xFF))
	}
}

func entryOrDefault(opts loader.Options) uint64 {
	if opts.EntryPoint == 0 {
		return opts.LoadAddr
	}
	return opts.EntryPoint
}

func mustParseAddr(s string, fallback uint64) uint64 {
	if s == "" {
		return fallback
	}
	lower := strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(lower, "0x") {
		v, err := strconv.ParseUint(lower[2:], 16, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid address %q: %v\n", s, err)
			os.Exit(1)
		}
		return v
	}
	v, err := strconv.ParseUint(lower, 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid address %q: %v\n", s, err)
		os.Exit(1)
	}
	return v
}

// loadSymbolFile reads whitespace-separated "name address" pairs, one per
// line, ignoring blank lines and lines starting with '#'.
func loadSymbolFile(path string) (map[string]uint64, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-supplied symbol file path
	if err != nil {
		return nil, fmt.Errorf("failed to read symbol file: %w", err)
	}

	symbols := make(map[string]uint64)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		symbols[fields[0]] = mustParseAddr(fields[1], 0)
	}
	return symbols, nil
}

// buildDisassemblyMap walks the loaded image from the reset PC, decoding a
// mixed stream of 2- and 4-byte instructions into an address->text map for
// the debugger's source view. It stops at the first decode or memory fault,
// which is the expected way to hit the end of code and fall into data.
func buildDisassemblyMap(c *core.Core) map[uint64]string {
	lines := make(map[uint64]string)
	addr := c.Reg(core.PC)

	for i := 0; i < 1<<16; i++ {
		lo, err := c.Mem.ReadU16(addr)
		if err != nil {
			break
		}

		var inst core.Instruction
		var length uint64
		if lo&0x3 == 0x3 {
			hi, err := c.Mem.ReadU16(addr + 2)
			if err != nil {
				break
			}
			inst = core.Decode32(uint32(lo) | uint32(hi)<<16)
			length = 4
		} else {
			inst = core.Decode16(lo)
			length = 2
		}

		if inst.Op == core.OpUndefined || inst.Op == core.OpUndefinedCompressed {
			break
		}

		lines[addr] = core.Disassemble(inst)
		addr += length
	}

	return lines
}

func printHelp() {
	fmt.Printf(`riscv64-emu %s

Usage: riscv-emu [options] <program-image> [args...]

Options:
  -help              Show this help message
  -version           Show version information
  -debug             Start in debugger mode (CLI)
  -tui               Start in TUI debugger mode
  -max-cycles N      Maximum CPU cycles before halt (default: config value)
  -mem-size N        Memory size in bytes (default: config value)
  -load-addr ADDR    Address the image is loaded at (default: 0x80000000)
  -entry ADDR        Entry point address (default: load address)
  -stack-top ADDR    Initial stack pointer (default: config value)
  -sentinel ADDR     Sentinel return address written into ra (default: config value)
  -symbols-file FILE Load a "name addr" symbol table from this file
  -verbose           Enable verbose output

Examples:
  # Run a flat program image directly
  riscv-emu program.bin

  # Run with the command-line debugger
  riscv-emu -debug program.bin

  # Run with the TUI debugger
  riscv-emu -tui program.bin
`, Version)
}
