package domain

type PairStatus int

const (
	PairSolo PairStatus = iota
	PairPending
	PairPaired
)

func (s PairStatus) String() string {
	switch s {
	case PairPending:
		return "pending"
	case PairPaired:
		return "paired"
	default:
		return "solo"
	}
}

// PairState is Solo, Pending(Partner) or Paired(Partner).
type PairState struct {
	Status  PairStatus
	Partner UserID
}

func (p PairState) MarshalText() ([]byte, error) {
	if p.Status == PairSolo {
		return []byte("solo"), nil
	}
	return []byte(p.Status.String() + ":" + string(p.Partner)), nil
}

func Solo() PairState                  { return PairState{Status: PairSolo} }
func Pending(partner UserID) PairState { return PairState{Status: PairPending, Partner: partner} }
func Paired(partner UserID) PairState  { return PairState{Status: PairPaired, Partner: partner} }
