// Package file provides the default history.Driver backed by a single JSON
// file, matching the on-disk shape {"history": [{"role", "content"}, ...]}.
//
// The reader is deliberately tolerant: byte-order marks are stripped and a
// document with trailing garbage is recovered by decoding the first JSON
// value, then falling back to a line-by-line scan. Conversation memory is a
// convenience, not a ledger; a half-written file must never take the
// assistant down.
package file

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/papercomputeco/veil/pkg/history"
)

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// Driver implements history.Driver on a JSON file.
type Driver struct {
	path string

	// mu serializes Load/Save across concurrent requests sharing this
	// driver. Last-writer-wins races on the underlying file are the
	// reason the chat service additionally holds its own lock across the
	// whole load-mutate-save window.
	mu sync.Mutex
}

// NewDriver creates a file driver at path, creating an empty memory file
// when none exists yet.
func NewDriver(path string) (*Driver, error) {
	if path == "" {
		return nil, errors.New("memory file path is required")
	}

	d := &Driver{path: path}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := d.writeAtomic(history.NewMemory()); err != nil {
			return nil, fmt.Errorf("initializing memory file: %w", err)
		}
	}

	return d, nil
}

// Load reads and sanitizes the persisted memory. A missing or unreadable
// file yields an empty memory and the read error so the caller can log the
// degradation; the returned memory is always usable.
func (d *Driver) Load(_ context.Context) (*history.Memory, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	data, err := os.ReadFile(d.path)
	if err != nil {
		return history.NewMemory(), fmt.Errorf("reading memory file: %w", err)
	}

	mem, err := decodeMemory(data)
	if err != nil {
		return history.NewMemory(), fmt.Errorf("parsing memory file: %w", err)
	}

	mem.History = history.Truncate(mem.History, history.MaxEntries)
	return mem, nil
}

// Save persists the memory atomically via a temp file and rename.
func (d *Driver) Save(_ context.Context, mem *history.Memory) error {
	if mem == nil {
		return errors.New("cannot save nil memory")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	return d.writeAtomic(mem)
}

// Close is a no-op for the file driver.
func (d *Driver) Close() error { return nil }

func (d *Driver) writeAtomic(mem *history.Memory) error {
	data, err := json.MarshalIndent(mem, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling memory: %w", err)
	}

	dir := filepath.Dir(d.path)
	tmp, err := os.CreateTemp(dir, "memory-*.json")
	if err != nil {
		return fmt.Errorf("creating temp memory file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("writing temp memory file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("closing temp memory file: %w", err)
	}

	if err := os.Rename(tmp.Name(), d.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("persisting memory file: %w", err)
	}

	return nil
}

// decodeMemory parses raw bytes into a Memory, tolerating BOM prefixes and
// trailing garbage. Attempt order: whole document, first JSON value, then
// each non-empty line.
func decodeMemory(raw []byte) (*history.Memory, error) {
	raw = bytes.TrimSpace(bytes.TrimPrefix(raw, utf8BOM))
	if len(raw) == 0 {
		return history.NewMemory(), nil
	}

	mem := history.NewMemory()
	if err := json.Unmarshal(raw, mem); err == nil {
		return ensureHistory(mem), nil
	}

	// Trailing garbage: take the first complete JSON value.
	dec := json.NewDecoder(bytes.NewReader(raw))
	first := history.NewMemory()
	if err := dec.Decode(first); err == nil {
		return ensureHistory(first), nil
	}

	// Last resort: one of the lines may be a complete document.
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		lineMem := history.NewMemory()
		if err := json.Unmarshal(line, lineMem); err == nil {
			return ensureHistory(lineMem), nil
		}
	}

	return nil, errors.New("no decodable JSON document found")
}

func ensureHistory(mem *history.Memory) *history.Memory {
	if mem.History == nil {
		mem.History = []history.Turn{}
	}
	return mem
}
