package sweeper

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/kobuai/kobu-ai-be/internal/shared/utils"
)

// RoomExpirer is the slice of the chat room store the sweeper needs
type RoomExpirer interface {
	ExpireIdle(ctx context.Context, cutoff time.Time) (int64, error)
}

// Sweeper periodically marks idle chat rooms as expired so the inbox
// and widget can distinguish stale conversations from active ones.
type Sweeper struct {
	cron    *cron.Cron
	rooms   RoomExpirer
	idleTTL time.Duration
}

// NewSweeper creates a new room expiry sweeper
func NewSweeper(rooms RoomExpirer, idleTTL time.Duration) *Sweeper {
	return &Sweeper{
		cron:    cron.New(),
		rooms:   rooms,
		idleTTL: idleTTL,
	}
}

// Start registers the sweep job and starts the scheduler
func (s *Sweeper) Start() error {
	// Every 10 minutes
	if _, err := s.cron.AddFunc("*/10 * * * *", s.sweep); err != nil {
		return err
	}
	log.Println("⏰ Room expiry sweeper started")
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("⏰ Room expiry sweeper stopped")
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-s.idleTTL)
	expired, err := s.rooms.ExpireIdle(ctx, cutoff)
	if err != nil {
		utils.LogError("room expiry sweep failed", err, nil)
		return
	}
	if expired > 0 {
		utils.LogInfo("expired idle chat rooms", map[string]interface{}{
			"count":  expired,
			"cutoff": cutoff,
		})
	}
}
