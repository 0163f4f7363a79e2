package app

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropEvent
	KickSubscriber
)

// Policy decides what happens to a subscriber whose buffer was full.
// missed counts consecutive dropped events for that subscriber.
type Policy interface {
	OnBackPressure(sub SubscriberID, missed int) BackpressureAction
}

// SimplePolicy kicks on the first miss.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(SubscriberID, int) BackpressureAction {
	return KickSubscriber
}

// TolerantPolicy drops events until MaxMissed in a row, then kicks.
type TolerantPolicy struct {
	MaxMissed int
}

func (p TolerantPolicy) OnBackPressure(_ SubscriberID, missed int) BackpressureAction {
	if missed >= p.MaxMissed {
		return KickSubscriber
	}
	return DropEvent
}
