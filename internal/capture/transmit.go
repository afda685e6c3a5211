package capture

import (
	"fmt"
	"os"
	"sync"

	"github.com/hpungsan/irdeck/internal/code"
)

// MemoryTransmitter records every send. Tests assert on it; nothing else
// should use it.
type MemoryTransmitter struct {
	mu    sync.Mutex
	sends []Sent

	// Err, when set, is returned from Send to simulate hardware failure.
	Err error
}

// Sent is one recorded transmission.
type Sent struct {
	Pulses    code.PulseSequence
	CarrierHz int
}

func (t *MemoryTransmitter) Send(pulses code.PulseSequence, carrierHz int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Err != nil {
		return t.Err
	}
	t.sends = append(t.sends, Sent{Pulses: pulses.Clone(), CarrierHz: carrierHz})
	return nil
}

// Sends returns the recorded transmissions in order.
func (t *MemoryTransmitter) Sends() []Sent {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Sent, len(t.sends))
	copy(out, t.sends)
	return out
}

// FileTransmitter writes each transmission as a pulse recording, one file
// per send, so host-side runs produce something a hardware replayer can
// consume.
type FileTransmitter struct {
	Path string
}

func (t *FileTransmitter) Send(pulses code.PulseSequence, carrierHz int) error {
	body := fmt.Sprintf("# carrier_hz %d\n%s", carrierHz, code.FormatPulses(pulses))
	return os.WriteFile(t.Path, []byte(body), 0600)
}
