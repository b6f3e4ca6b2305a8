package stream

import "time"

// progressTargetRate is the target out-of-band emission rate: "rate-limit
// progress OOB emissions to ≈10/s" (§4.5).
const progressTargetRate = 10.0

// progressSmoothing is the exponential-averaging weight applied to each
// newly observed inter-emission interval.
const progressSmoothing = 0.2

// ProgressTracker rate-limits taskProgress OOB emissions to at most
// progressTargetRate per second: SetProgress reports true only once a fixed
// 1/progressTargetRate interval has passed since the last emission, so a
// writer calling SetProgress in a tight loop does not flood the stream with
// OOB packets (§4.5 "Progress"). It also keeps an exponential average of the
// observed emission interval in avgInterval; that average does not take part
// in the emission decision.
type ProgressTracker struct {
	taskSize   int64
	done       int64
	avgInterval time.Duration
	lastEmit   time.Time
	started    bool
	now        func() time.Time
}

// NewProgressTracker creates a tracker for a task of the given total size,
// set once before the stream descriptor is written.
func NewProgressTracker(taskSize int64) *ProgressTracker {
	return &ProgressTracker{
		taskSize:    taskSize,
		avgInterval: time.Second / progressTargetRate,
		now:         time.Now,
	}
}

// SetProgress records n units of work done and reports whether a
// taskProgress OOB packet should be emitted now.
func (p *ProgressTracker) SetProgress(n int64) bool {
	p.done = n
	now := p.now()

	if !p.started {
		p.started = true
		p.lastEmit = now

		return true
	}

	elapsed := now.Sub(p.lastEmit)
	target := time.Second / progressTargetRate
	if elapsed < target {
		return false
	}

	// Record an exponential average of the observed interval. The check
	// above uses only the fixed target, so every call made once elapsed
	// crosses it emits.
	p.avgInterval = time.Duration((1-progressSmoothing)*float64(p.avgInterval) + progressSmoothing*float64(elapsed))
	p.lastEmit = now

	return true
}

// Fraction returns done/taskSize, or 0 if taskSize is 0 or unset.
func (p *ProgressTracker) Fraction() float64 {
	if p.taskSize <= 0 {
		return 0
	}

	return float64(p.done) / float64(p.taskSize)
}
