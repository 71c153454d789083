package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookbusy1344/riscv64-emulator/core"
)

func TestLoad_SetsEntryStackAndSentinel(t *testing.T) {
	c := core.NewCore(0x100000)
	image := []byte{0x01, 0x02, 0x03, 0x04}

	err := Load(c, image, Options{
		LoadAddr: 0x1000,
		StackTop: 0x2000,
		Sentinel: 0xffff1337,
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(0x1000), c.Reg(core.PC))
	assert.Equal(t, uint64(0xffff1337), c.Reg(core.RA))
	assert.LessOrEqual(t, c.Reg(core.SP), uint64(0x2000))
}

func TestLoad_NoSentinelLeavesRAUntouched(t *testing.T) {
	c := core.NewCore(0x100000)
	c.SetReg(core.RA, 0xdeadbeef)

	err := Load(c, []byte{0x00}, Options{LoadAddr: 0x1000})
	require.NoError(t, err)

	assert.Equal(t, uint64(0xdeadbeef), c.Reg(core.RA))
}

func TestLoad_CustomEntryPoint(t *testing.T) {
	c := core.NewCore(0x100000)

	err := Load(c, []byte{0x00}, Options{LoadAddr: 0x1000, EntryPoint: 0x1004})
	require.NoError(t, err)

	assert.Equal(t, uint64(0x1004), c.Reg(core.PC))
}
