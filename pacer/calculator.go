package pacer

import "time"

// Default implements an attack/decay exponential backoff: on a retry the
// sleep time grows towards maxSleep by attackConstant, and on success it
// decays towards minSleep by decayConstant. attackConstant/decayConstant of
// 0 jump straight to the bound; larger values approach it more gradually.
type Default struct {
	minSleep       time.Duration
	maxSleep       time.Duration
	decayConstant  uint
	attackConstant uint
}

// DefaultOption configures a Default calculator.
type DefaultOption func(*Default)

// MinSleep sets the floor sleep duration.
func MinSleep(d time.Duration) DefaultOption { return func(c *Default) { c.minSleep = d } }

// MaxSleep sets the ceiling sleep duration.
func MaxSleep(d time.Duration) DefaultOption { return func(c *Default) { c.maxSleep = d } }

// DecayConstant sets how quickly the sleep time decays back to minSleep
// after a success.
func DecayConstant(n uint) DefaultOption { return func(c *Default) { c.decayConstant = n } }

// AttackConstant sets how quickly the sleep time grows towards maxSleep
// after a retry.
func AttackConstant(n uint) DefaultOption { return func(c *Default) { c.attackConstant = n } }

// NewDefault builds a Default calculator with rclone-style defaults
// (10ms..2s, decay 2, attack 1), then applies opts.
func NewDefault(opts ...DefaultOption) *Default {
	c := &Default{
		minSleep:       10 * time.Millisecond,
		maxSleep:       2 * time.Second,
		decayConstant:  2,
		attackConstant: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Calculate implements Calculator. On success (ConsecutiveRetries == 0)
// the sleep time decays towards minSleep by a factor of (2^decay-1)/2^decay;
// on retry it attacks towards maxSleep by a factor of 2^attack/(2^attack-1).
func (c *Default) Calculate(state State) time.Duration {
	if state.ConsecutiveRetries == 0 {
		if c.decayConstant == 0 {
			return c.minSleep
		}
		pow := time.Duration(uint64(1) << c.decayConstant)
		sleepTime := state.SleepTime * (pow - 1) / pow
		if sleepTime < c.minSleep {
			sleepTime = c.minSleep
		}
		return sleepTime
	}
	if c.attackConstant == 0 {
		return c.maxSleep
	}
	pow := time.Duration(uint64(1) << c.attackConstant)
	sleepTime := state.SleepTime * pow / (pow - 1)
	if sleepTime > c.maxSleep {
		sleepTime = c.maxSleep
	}
	return sleepTime
}

// Fixed is a constant-backoff calculator: the same sleep duration every
// retry, regardless of state. FileIngester's §4.5 NETWORKERROR_SLEEP
// (default 3s) uses this.
type Fixed struct {
	Sleep time.Duration
}

// Calculate implements Calculator.
func (f Fixed) Calculate(State) time.Duration { return f.Sleep }
