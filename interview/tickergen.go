package interview

import "time"

type tickerGen struct{}

func (t tickerGen) Create(duration time.Duration) <-chan time.Time {
	return time.NewTicker(duration).C
}

func NewTickerGen() PeriodicTickerChannelCreator {
	return tickerGen{}
}
