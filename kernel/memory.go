package kernel

// Locked Memory view of the exchange heap. Reads copy out of the buffer:
// the heap may grow (and move) under another task's allocation, so aliasing
// views cannot be handed across the lock.

func (k *Kernel) Read(offset, length uint32) ([]byte, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	view, err := k.exchange.Read(offset, length)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), view...), nil
}

func (k *Kernel) Write(offset uint32, data []byte) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.exchange.Write(offset, data)
}

func (k *Kernel) ReadU8(offset uint32) (uint8, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.exchange.ReadU8(offset)
}

func (k *Kernel) ReadU32(offset uint32) (uint32, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.exchange.ReadU32(offset)
}

func (k *Kernel) ReadU64(offset uint32) (uint64, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.exchange.ReadU64(offset)
}

func (k *Kernel) WriteU8(offset uint32, value uint8) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.exchange.WriteU8(offset, value)
}

func (k *Kernel) WriteU32(offset uint32, value uint32) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.exchange.WriteU32(offset, value)
}

func (k *Kernel) WriteU64(offset uint32, value uint64) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.exchange.WriteU64(offset, value)
}
