package sink

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"event-svr/internal/model"
)

// Postgres persists events for the reporting side. The event core itself
// never reads this table back; it is purely a delivery target.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, url string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("postgres config: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (s *Postgres) Name() string { return "postgres" }

func (s *Postgres) Close() {
	s.pool.Close()
}

func (s *Postgres) Accept(ctx context.Context, event *model.Event) error {
	attrs, err := json.Marshal(event.Attributes)
	if err != nil {
		return fmt.Errorf("marshal attributes: %w", err)
	}
	query := `INSERT INTO events (id, type, device_id, position_id, event_time, attributes)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := s.pool.Exec(ctx, query,
		event.ID, event.Type, event.DeviceID, event.PositionID, event.EventTime, attrs); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}
