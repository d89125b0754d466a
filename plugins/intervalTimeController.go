package plugins

import (
	"log"
	"math/rand"
	"time"

	"github.com/quantadex/crossmarket/api"
)

// IntervalTimeController provides a standard time interval
type IntervalTimeController struct {
	tickInterval       time.Duration
	maxTickDelayMillis int64
}

// MakeIntervalTimeController is a factory method
func MakeIntervalTimeController(tickInterval time.Duration, maxTickDelayMillis int64) api.TimeController {
	return &IntervalTimeController{
		tickInterval:       tickInterval,
		maxTickDelayMillis: maxTickDelayMillis,
	}
}

// ShouldUpdate impl
func (t *IntervalTimeController) ShouldUpdate(lastUpdateTime time.Time, currentUpdateTime time.Time) bool {
	// account for the delay of the tick interval
	var delayMillis int64
	if t.maxTickDelayMillis > 0 {
		delayMillis = rand.Int63n(t.maxTickDelayMillis)
	}
	elapsedSinceUpdate := currentUpdateTime.Sub(lastUpdateTime)
	shouldUpdate := elapsedSinceUpdate >= (t.tickInterval + time.Duration(delayMillis)*time.Millisecond)
	log.Printf("intervalTimeController tickInterval=%s, shouldUpdate=%v, elapsedSinceUpdate=%s, delayMillis=%d\n", t.tickInterval, shouldUpdate, elapsedSinceUpdate, delayMillis)
	return shouldUpdate
}

// SleepTime impl
func (t *IntervalTimeController) SleepTime(lastUpdateTime time.Time) time.Duration {
	// use time till next expected update time
	var durationTillNextUpdate time.Duration
	nextUpdateTime := lastUpdateTime.Add(t.tickInterval)
	currentTime := time.Now()
	if nextUpdateTime.After(currentTime) {
		durationTillNextUpdate = nextUpdateTime.Sub(currentTime)
	}
	return durationTillNextUpdate
}
