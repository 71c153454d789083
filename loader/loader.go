// Package loader places a flat RV64GC program image into a core.Core and
// prepares its entry state. It has no assembler pass of its own: callers
// hand it an already-encoded byte image (typically produced by the asm
// package or read from disk) and loader.Load writes it verbatim and sets
// up PC/SP.
package loader

import (
	"fmt"
	"os"

	"github.com/lookbusy1344/riscv64-emulator/core"
)

// Options controls how an image is placed into memory.
type Options struct {
	LoadAddr   uint64 // where the image's first byte lands
	EntryPoint uint64 // initial PC; defaults to LoadAddr when zero
	StackTop   uint64 // initial sp; zero leaves sp untouched
	Sentinel   uint64 // if nonzero, planted in ra so a jalr x0,ra,0 return lands here
	Args       []string
}

// Load writes image into c's memory at opts.LoadAddr, then sets PC, SP, and
// (if requested) the sentinel return address in ra.
func Load(c *core.Core, image []byte, opts Options) error {
	if err := c.LoadBytes(opts.LoadAddr, image); err != nil {
		return fmt.Errorf("failed to load program image: %w", err)
	}

	entry := opts.EntryPoint
	if entry == 0 {
		entry = opts.LoadAddr
	}
	c.SetReg(core.PC, entry)

	if opts.StackTop != 0 {
		sp := setupArgv(c, opts.StackTop, opts.Args)
		c.SetReg(core.SP, sp)
	}

	if opts.Sentinel != 0 {
		c.SetReg(core.RA, opts.Sentinel)
	}

	return nil
}

// LoadFile reads path and loads it the way Load does.
func LoadFile(c *core.Core, path string, opts Options) error {
	image, err := os.ReadFile(path) // #nosec G304 -- user-supplied program path
	if err != nil {
		return fmt.Errorf("failed to read program image %q: %w", path, err)
	}
	return Load(c, image, opts)
}

// setupArgv writes a minimal argv block below stackTop (each arg
// null-terminated, back to back, highest address first) and returns the
// resulting stack pointer, 16-byte aligned. Registers a0/a1 are left for
// the caller to wire up as argc/argv if its ecall convention wants them.
func setupArgv(c *core.Core, stackTop uint64, args []string) uint64 {
	sp := stackTop
	for i := len(args) - 1; i >= 0; i-- {
		arg := args[i]
		sp -= uint64(len(arg) + 1)
		_ = c.Mem.LoadBytes(sp, append([]byte(arg), 0))
	}
	sp &^= 0xF
	return sp
}
