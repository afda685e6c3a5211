package ops

import "context"

// StatusOutput contains the result of the Status operation.
type StatusOutput struct {
	Learning   bool `json:"learning"`
	Continuous bool `json:"continuous"`
	Count      int  `json:"count"`
	MaxCodes   int  `json:"max_codes"`
	CarrierHz  int  `json:"carrier_hz"`
}

// Status reports the learning state and store occupancy.
func (e *Env) Status(ctx context.Context) (*StatusOutput, error) {
	count, err := e.Store.Count()
	if err != nil {
		return nil, err
	}
	armed, continuous := e.Receiver.Armed()
	return &StatusOutput{
		Learning:   armed,
		Continuous: continuous,
		Count:      count,
		MaxCodes:   e.Store.MaxCodes(),
		CarrierHz:  e.Config.CarrierHz,
	}, nil
}
