package postgres

import (
	"context"
	"time"

	pq "github.com/lib/pq"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/storage"
)

const (
	listenerMinReconnect = 10 * time.Second
	listenerMaxReconnect = time.Minute
	listenerPingInterval = 90 * time.Second
)

// Subscribe listens on the habit change channel and re-lists the user's habits whenever a
// notification for this user arrives, or after a reconnect.
func (s *Store) Subscribe(ctx context.Context) (<-chan []models.Habit, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	listener := pq.NewListener(s.connStr, listenerMinReconnect, listenerMaxReconnect,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				logger.Warn("Habit change listener event", "event", ev, "error", err)
			}
		})
	if err := listener.Listen(constants.HabitChangesChannel); err != nil {
		listener.Close()
		return nil, err
	}

	// Listen before the initial list so no change falls between them.
	initial, err := s.ListHabits()
	if err != nil {
		listener.Close()
		return nil, err
	}

	feed := storage.NewBroadcaster()
	ch := feed.Subscribe(ctx, initial)
	go s.watch(ctx, listener, feed)
	return ch, nil
}

func (s *Store) watch(ctx context.Context, listener *pq.Listener, feed *storage.Broadcaster) {
	defer feed.Close()
	defer listener.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case n := <-listener.Notify:
			// nil after a reconnect: notifications may have been missed.
			if n != nil && n.Extra != s.userID {
				continue
			}
			habits, err := s.ListHabits()
			if err != nil {
				logger.Warn("Failed to refresh habits after change", "error", err)
				continue
			}
			feed.Publish(habits)
		case <-time.After(listenerPingInterval):
			go func() {
				if err := listener.Ping(); err != nil {
					logger.Debug("Habit change listener ping failed", "error", err)
				}
			}()
		}
	}
}
