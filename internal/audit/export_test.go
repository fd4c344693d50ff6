package audit

// Tamper mutates the in-memory record at index i, bypassing the append-only
// contract.
func (c *Chain) Tamper(i int, f func(*Record)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f(&c.records[i])
}

// Drop removes the in-memory record at index i.
func (c *Chain) Drop(i int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records[:i:i], c.records[i+1:]...)
}

// Tamper mutates a stored record in place.
func (m *MemoryBackend) Tamper(i int, f func(*Record)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f(&m.records[i])
}
