package outbox

import (
	"context"
	"errors"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

var (
	ErrAlreadyRunning = errors.New("outbox worker already running")
	ErrNotRunning     = errors.New("outbox worker not running")
)

// Worker relays the outbox on a fixed poll interval
type Worker struct {
	relay *Relay
	clock clockwork.Clock
	cfg   Config

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewWorker(relay *Relay, clock clockwork.Clock, cfg Config) *Worker {
	return &Worker{relay: relay, clock: clock, cfg: cfg}
}

func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return ErrAlreadyRunning
	}
	w.running = true
	w.stopChan = make(chan struct{})

	w.wg.Add(1)
	go w.run(ctx, w.stopChan)

	log.Info().
		Dur("poll_interval", w.cfg.PollInterval).
		Int32("batch_size", w.cfg.BatchSize).
		Msg("outbox worker started")
	return nil
}

func (w *Worker) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return ErrNotRunning
	}
	w.running = false
	close(w.stopChan)
	w.mu.Unlock()

	w.wg.Wait()
	log.Info().Msg("outbox worker stopped")
	return nil
}

// Running reports whether the poll loop is active
func (w *Worker) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Worker) run(ctx context.Context, stop <-chan struct{}) {
	defer w.wg.Done()

	ticker := w.clock.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	// Process immediately on start
	w.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.Chan():
			w.poll(ctx)
		}
	}
}

func (w *Worker) poll(ctx context.Context) {
	if _, err := w.relay.ProcessBatch(ctx); err != nil {
		log.Error().Err(err).Msg("outbox poll failed")
	}
}
