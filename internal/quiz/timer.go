package quiz

import (
	"fmt"
	"sync"
	"time"
)

// Timer is a cancellable countdown handle. Stop must be safe to call more
// than once and must not wait for an in-flight tick.
type Timer interface {
	Stop()
}

// TimerFactory starts a periodic timer that calls tick until stopped.
type TimerFactory func(tick func()) Timer

// NewTicker is the default factory: one tick per second.
func NewTicker(tick func()) Timer {
	return StartTicker(time.Second, tick)
}

type ticker struct {
	done chan struct{}
	once sync.Once
}

// StartTicker calls tick every interval on its own goroutine.
func StartTicker(interval time.Duration, tick func()) Timer {
	t := &ticker{done: make(chan struct{})}
	tk := time.NewTicker(interval)
	go func() {
		defer tk.Stop()
		for {
			select {
			case <-t.done:
				return
			case <-tk.C:
				select {
				case <-t.done:
					return
				default:
				}
				tick()
			}
		}
	}()
	return t
}

func (t *ticker) Stop() {
	t.once.Do(func() { close(t.done) })
}

// FormatClock renders seconds as mm:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
