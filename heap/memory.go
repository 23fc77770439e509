package heap

import (
	"encoding/binary"

	"github.com/wippyai/task-runtime/errors"
)

// Memory interface over the heap's backing buffer. All accesses are
// bounds-checked against the current memory size.

func (h *Heap) check(offset, length uint32) error {
	end := uint64(offset) + uint64(length)
	if end > uint64(len(h.buf)) {
		return errors.OutOfBounds(errors.PhaseAlloc, offset, length, uint32(len(h.buf)))
	}
	return nil
}

// Read returns a view of length bytes at offset. The slice aliases heap
// memory and is invalidated by any allocation that grows the heap.
func (h *Heap) Read(offset, length uint32) ([]byte, error) {
	if err := h.check(offset, length); err != nil {
		return nil, err
	}
	return h.buf[offset : offset+length : offset+length], nil
}

func (h *Heap) Write(offset uint32, data []byte) error {
	if err := h.check(offset, uint32(len(data))); err != nil {
		return err
	}
	copy(h.buf[offset:], data)
	return nil
}

func (h *Heap) ReadU8(offset uint32) (uint8, error) {
	if err := h.check(offset, 1); err != nil {
		return 0, err
	}
	return h.buf[offset], nil
}

func (h *Heap) ReadU32(offset uint32) (uint32, error) {
	if err := h.check(offset, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(h.buf[offset:]), nil
}

func (h *Heap) ReadU64(offset uint32) (uint64, error) {
	if err := h.check(offset, 8); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(h.buf[offset:]), nil
}

func (h *Heap) WriteU8(offset uint32, value uint8) error {
	if err := h.check(offset, 1); err != nil {
		return err
	}
	h.buf[offset] = value
	return nil
}

func (h *Heap) WriteU32(offset uint32, value uint32) error {
	if err := h.check(offset, 4); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(h.buf[offset:], value)
	return nil
}

func (h *Heap) WriteU64(offset uint32, value uint64) error {
	if err := h.check(offset, 8); err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(h.buf[offset:], value)
	return nil
}

// Fill writes value into length bytes at offset.
func (h *Heap) Fill(offset uint32, value byte, length uint32) error {
	if err := h.check(offset, length); err != nil {
		return err
	}
	seg := h.buf[offset : offset+length]
	for i := range seg {
		seg[i] = value
	}
	return nil
}

// Move copies length bytes from src to dst within the heap, handling overlap.
func (h *Heap) Move(dst, src, length uint32) error {
	if err := h.check(src, length); err != nil {
		return err
	}
	if err := h.check(dst, length); err != nil {
		return err
	}
	copy(h.buf[dst:dst+length], h.buf[src:src+length])
	return nil
}
