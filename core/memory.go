package core

import "fmt"

// Memory is a flat, byte-addressable little-endian RAM of fixed size.
// It has no permissions and no MMU: the whole region is a single
// contiguous extent, with no paging, no MMIO, and no alignment checks.
type Memory struct {
	data []byte
}

// NewMemory allocates a zeroed RAM of the given size.
func NewMemory(size uint64) *Memory {
	return &Memory{data: make([]byte, size)}
}

// Size returns the configured RAM size in bytes.
func (m *Memory) Size() uint64 {
	return uint64(len(m.data))
}

func (m *Memory) checkBounds(addr uint64, width uint64) error {
	if addr+width > m.Size() || addr+width < addr {
		return fmt.Errorf("address 0x%016x (width %d) exceeds memory size 0x%x", addr, width, m.Size())
	}
	return nil
}

// ReadU8 reads a single byte.
func (m *Memory) ReadU8(addr uint64) (uint8, error) {
	if err := m.checkBounds(addr, 1); err != nil {
		return 0, err
	}
	return m.data[addr], nil
}

// WriteU8 writes a single byte.
func (m *Memory) WriteU8(addr uint64, value uint8) error {
	if err := m.checkBounds(addr, 1); err != nil {
		return err
	}
	m.data[addr] = value
	return nil
}

// ReadU16 reads a little-endian halfword as the concatenation of two byte reads.
func (m *Memory) ReadU16(addr uint64) (uint16, error) {
	if err := m.checkBounds(addr, 2); err != nil {
		return 0, err
	}
	lo, _ := m.ReadU8(addr)
	hi, _ := m.ReadU8(addr + 1)
	return uint16(lo) | uint16(hi)<<8, nil
}

// WriteU16 writes a little-endian halfword as the decomposition into two byte writes.
func (m *Memory) WriteU16(addr uint64, value uint16) error {
	if err := m.checkBounds(addr, 2); err != nil {
		return err
	}
	_ = m.WriteU8(addr, uint8(value))
	_ = m.WriteU8(addr+1, uint8(value>>8))
	return nil
}

// ReadU32 reads a little-endian word as the concatenation of four byte reads.
func (m *Memory) ReadU32(addr uint64) (uint32, error) {
	if err := m.checkBounds(addr, 4); err != nil {
		return 0, err
	}
	lo, _ := m.ReadU16(addr)
	hi, _ := m.ReadU16(addr + 2)
	return uint32(lo) | uint32(hi)<<16, nil
}

// WriteU32 writes a little-endian word as the decomposition into four byte writes.
func (m *Memory) WriteU32(addr uint64, value uint32) error {
	if err := m.checkBounds(addr, 4); err != nil {
		return err
	}
	_ = m.WriteU16(addr, uint16(value))
	_ = m.WriteU16(addr+2, uint16(value>>16))
	return nil
}

// ReadU64 reads a little-endian doubleword as the concatenation of eight byte reads.
func (m *Memory) ReadU64(addr uint64) (uint64, error) {
	if err := m.checkBounds(addr, 8); err != nil {
		return 0, err
	}
	lo, _ := m.ReadU32(addr)
	hi, _ := m.ReadU32(addr + 4)
	return uint64(lo) | uint64(hi)<<32, nil
}

// WriteU64 writes a little-endian doubleword as the decomposition into eight byte writes.
func (m *Memory) WriteU64(addr uint64, value uint64) error {
	if err := m.checkBounds(addr, 8); err != nil {
		return err
	}
	_ = m.WriteU32(addr, uint32(value))
	_ = m.WriteU32(addr+4, uint32(value>>32))
	return nil
}

// LoadBytes copies a byte image verbatim into memory starting at offset.
func (m *Memory) LoadBytes(offset uint64, image []byte) error {
	for i, b := range image {
		if err := m.WriteU8(offset+uint64(i), b); err != nil {
			return fmt.Errorf("failed to load byte at offset %d: %w", i, err)
		}
	}
	return nil
}

// GetBytes copies length bytes starting at addr out of memory.
func (m *Memory) GetBytes(addr, length uint64) ([]byte, error) {
	if err := m.checkBounds(addr, length); err != nil {
		return nil, err
	}
	out := make([]byte, length)
	copy(out, m.data[addr:addr+length])
	return out, nil
}

// Reset clears the whole RAM to zero.
func (m *Memory) Reset() {
	for i := range m.data {
		m.data[i] = 0
	}
}
