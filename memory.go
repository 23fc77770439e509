package taskruntime

// Ptr is an address in a heap's linear memory. The zero value is the null
// pointer; no allocator ever returns it.
type Ptr = uint32

// Memory represents a heap's linear memory.
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	ReadU8(offset uint32) (uint8, error)
	ReadU32(offset uint32) (uint32, error)
	ReadU64(offset uint32) (uint64, error)
	WriteU8(offset uint32, value uint8) error
	WriteU32(offset uint32, value uint32) error
	WriteU64(offset uint32, value uint64) error
}

// MemorySizer provides the current size of a linear memory in bytes.
type MemorySizer interface {
	Size() uint32
}

// Allocator allocates zero-initialized regions in linear memory.
type Allocator interface {
	Alloc(size, align uint32) (uint32, error)
	Free(ptr uint32) error
}
