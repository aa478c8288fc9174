package host

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"sfxpool/logger"
	"sfxpool/sfx"
)

// Occupancy is one sample of channel pool usage
type Occupancy struct {
	Busy   int
	Idle   int
	Plays  uint64
	Steals uint64
}

// Monitor periodically logs channel pool occupancy and warns when voices
// were stolen since the previous sample
type Monitor struct {
	dispatcher *sfx.Dispatcher
	interval   time.Duration
	logger     *slog.Logger
	wg         *sync.WaitGroup
	last       Occupancy
}

// NewMonitor creates a new Monitor instance
func NewMonitor(d *sfx.Dispatcher, interval time.Duration, wg *sync.WaitGroup) *Monitor {
	return &Monitor{
		dispatcher: d,
		interval:   interval,
		logger:     logger.WithComponent("monitor"),
		wg:         wg,
	}
}

// Start begins sampling until ctx is done
func (m *Monitor) Start(ctx context.Context) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		m.logger.Info("Starting channel pool monitoring", slog.Duration("interval", m.interval))

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.check()
			case <-ctx.Done():
				m.logger.Info("Channel pool monitoring stopped")
				return
			}
		}
	}()
}

// Sample reads the current occupancy
func (m *Monitor) Sample() (Occupancy, bool) {
	pool := m.dispatcher.Pool()
	if pool == nil {
		return Occupancy{}, false
	}
	stats := m.dispatcher.Stats()
	busy := pool.Busy()
	return Occupancy{
		Busy:   busy,
		Idle:   pool.Len() - busy,
		Plays:  stats.Plays,
		Steals: stats.Steals,
	}, true
}

// check logs one sample and returns how many steals happened since the last
func (m *Monitor) check() uint64 {
	o, ok := m.Sample()
	if !ok {
		return 0
	}

	stolen := uint64(0)
	if o.Steals >= m.last.Steals {
		stolen = o.Steals - m.last.Steals
	}
	m.last = o

	m.logger.Debug("Channel pool occupancy",
		slog.Int("busy", o.Busy),
		slog.Int("idle", o.Idle),
		slog.Uint64("plays", o.Plays))
	if stolen > 0 {
		m.logger.Warn("Channel pool saturated, voices were stolen",
			slog.Uint64("stolen", stolen),
			slog.Int("channels", o.Busy+o.Idle))
	}
	return stolen
}
