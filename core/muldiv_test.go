package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExecDiv_ByZero(t *testing.T) {
	assert.Equal(t, ^uint64(0), execDiv(42, 0))
	assert.Equal(t, ^uint64(0), execDivu(42, 0))
}

func TestExecRem_ByZero(t *testing.T) {
	assert.Equal(t, uint64(42), execRem(42, 0))
	assert.Equal(t, uint64(42), execRemu(42, 0))
}

func TestExecDiv_SignedOverflow(t *testing.T) {
	got := execDiv(minInt64, -1)
	assert.Equal(t, uint64(minInt64), got)
}

func TestExecRem_SignedOverflow(t *testing.T) {
	got := execRem(minInt64, -1)
	assert.Equal(t, uint64(0), got)
}

func TestExecDivw_SignedOverflow(t *testing.T) {
	got := execDivw(minInt32, -1)
	assert.Equal(t, sext64(minInt32), got)
}

func TestExecRemw_ByZero(t *testing.T) {
	got := execRemw(7, 0)
	assert.Equal(t, sext64(7), got)
}

func TestExecMulh_Signed(t *testing.T) {
	// -1 * -1 = 1, high word is 0
	assert.Equal(t, uint64(0), execMulh(-1, -1))

	// A large negative times a large positive exercises the 128-bit path.
	a := int64(-1) << 40
	b := int64(1) << 40
	got := execMulh(a, b)
	assert.Equal(t, uint64(0xFFFFFFFFFFFF0000), got)
}

func TestExecMulhu(t *testing.T) {
	assert.Equal(t, uint64(0), execMulhu(2, 3))
	got := execMulhu(^uint64(0), 2)
	assert.Equal(t, uint64(1), got)
}
