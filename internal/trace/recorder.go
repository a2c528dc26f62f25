// Package trace implements the optional execution trace: one line per
// executed instruction, naming the registers that changed and the
// condition flags afterward. It is a passive recorder driven by the
// processor's OnStep hook rather than a tracing facility the processor
// depends on.
package trace

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/lookbusy1344/arm-toy/isa"
)

// Entry is a single recorded instruction execution.
type Entry struct {
	Sequence        uint64
	PC              uint32
	Word            uint32
	RegisterChanges map[string]uint32
	Flags           Flags
	Duration        time.Duration
}

// Flags is a snapshot of the condition flags at the time of the entry.
type Flags struct {
	N, Z, C, V bool
}

// Recorder accumulates trace entries and flushes them as text lines to
// Writer. Disabled recorders (the default) do no work.
type Recorder struct {
	Enabled    bool
	Writer     io.Writer
	MaxEntries int

	entries      []Entry
	startTime    time.Time
	lastSnapshot [16]uint32
	haveSnapshot bool
}

// New returns a disabled Recorder writing to w when enabled.
func New(w io.Writer) *Recorder {
	return &Recorder{
		Writer:     w,
		MaxEntries: 100000,
		entries:    make([]Entry, 0, 1024),
	}
}

// Start resets the recorder's clock and register snapshot.
func (r *Recorder) Start() {
	r.startTime = time.Now()
	r.entries = r.entries[:0]
	r.haveSnapshot = false
}

// Record captures one executed instruction: the registers and flags are
// read fresh from the CPU-shaped accessors passed in.
func (r *Recorder) Record(pc, word uint32, regs [16]uint32, flags Flags) {
	if !r.Enabled {
		return
	}
	if r.MaxEntries > 0 && len(r.entries) >= r.MaxEntries {
		return
	}

	entry := Entry{
		PC:              pc,
		Word:            word,
		RegisterChanges: make(map[string]uint32),
		Flags:           flags,
		Duration:        time.Since(r.startTime),
	}
	entry.Sequence = uint64(len(r.entries))

	for i, v := range regs {
		if !r.haveSnapshot || r.lastSnapshot[i] != v {
			entry.RegisterChanges[isa.Register(i).String()] = v
		}
	}
	r.lastSnapshot = regs
	r.haveSnapshot = true

	r.entries = append(r.entries, entry)
}

// Flush writes every recorded entry to Writer as a text line.
func (r *Recorder) Flush() error {
	if r.Writer == nil {
		return nil
	}
	for _, e := range r.entries {
		if err := r.writeEntry(e); err != nil {
			return err
		}
	}
	return nil
}

func (r *Recorder) writeEntry(e Entry) error {
	line := fmt.Sprintf("[%06d] 0x%08x: word=0x%08x", e.Sequence, e.PC, e.Word)

	if len(e.RegisterChanges) > 0 {
		changes := make([]string, 0, len(e.RegisterChanges))
		for name, value := range e.RegisterChanges {
			changes = append(changes, fmt.Sprintf("%s=0x%08x", name, value))
		}
		line += " | " + strings.Join(changes, " ")
	} else {
		line += " | (no changes)"
	}

	line += " | " + flagString(e.Flags)
	line += fmt.Sprintf(" | %v\n", e.Duration)

	_, err := r.Writer.Write([]byte(line))
	return err
}

func flagString(f Flags) string {
	bit := func(set bool, letter string) string {
		if set {
			return letter
		}
		return "-"
	}
	return bit(f.N, "N") + bit(f.Z, "Z") + bit(f.C, "C") + bit(f.V, "V")
}

// Entries returns every entry recorded so far.
func (r *Recorder) Entries() []Entry {
	return r.entries
}

// Clear discards all recorded entries without resetting the clock.
func (r *Recorder) Clear() {
	r.entries = r.entries[:0]
	r.haveSnapshot = false
}
