package code

// Plausibility filtering for captured commands. Noise on the photodiode
// shows up as degenerate bursts; filtering them before the learning
// callback keeps a learning session armed instead of ending it on static.

// minRawPulses is the shortest burst worth keeping as a raw recording: a
// header pair plus at least one data pair.
const minRawPulses = 4

// Plausible reports whether a captured command is structurally sound
// enough to hand to a learning callback, with a reason when it is not.
func Plausible(c Command) (bool, string) {
	if c.Protocol == "" {
		return false, "empty protocol"
	}
	if c.IsRaw() {
		if len(c.Pulses) < minRawPulses {
			return false, "raw burst too short"
		}
		allZero := true
		for _, d := range c.Pulses {
			if d != 0 {
				allZero = false
				break
			}
		}
		if allZero {
			return false, "raw burst is all zeros"
		}
		return true, ""
	}
	if c.Bits == 0 || c.Bits > 64 {
		return false, "bit count out of range"
	}
	if c.Bits < 64 && c.Value>>c.Bits != 0 {
		return false, "value exceeds bit count"
	}
	return true, ""
}
