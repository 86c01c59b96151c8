package poll

// Yield is the future returned by YieldNow.
type Yield struct {
	yielded bool
}

// YieldNow returns a future that is pending on its first poll and complete afterwards.
// The first poll wakes its waker before returning, so the executor polls again
// right away after giving everything else a turn.
func YieldNow() *Yield {
	return &Yield{}
}

func (y *Yield) Poll(w Waker) (struct{}, error) {
	if y.yielded {
		return struct{}{}, nil
	}
	y.yielded = true
	w.Wake()
	return struct{}{}, ErrPending
}
