package ops

import "context"

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Codes    []CodeInfo `json:"codes"`
	Count    int        `json:"count"`
	MaxCodes int        `json:"max_codes"`
}

// CodeInfo is one listed code in dispatch-facing shape.
type CodeInfo struct {
	Name     string `json:"name"`
	Protocol string `json:"protocol"`
	Value    uint64 `json:"value,omitempty"`
	Bits     uint16 `json:"bits,omitempty"`
	Pulses   int    `json:"pulses,omitempty"`
}

// List returns stored codes in insertion order. Raw codes report their
// pulse count instead of a value.
func (e *Env) List(ctx context.Context) (*ListOutput, error) {
	entries, err := e.Store.List()
	if err != nil {
		return nil, err
	}

	codes := make([]CodeInfo, 0, len(entries))
	for _, entry := range entries {
		info := CodeInfo{
			Name:     entry.Name,
			Protocol: entry.Command.Protocol,
		}
		if entry.Command.IsRaw() {
			info.Pulses = len(entry.Command.Pulses)
		} else {
			info.Value = entry.Command.Value
			info.Bits = entry.Command.Bits
		}
		codes = append(codes, info)
	}
	return &ListOutput{
		Codes:    codes,
		Count:    len(codes),
		MaxCodes: e.Store.MaxCodes(),
	}, nil
}
