package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/incidents"
	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/models"
)

const uniqueViolation = "23505"

// Store keeps the incident log in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

var _ incidents.Store = (*Store)(nil)

// New creates a Store backed by a pgx pool.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

const schemaSQL = `
    CREATE SCHEMA IF NOT EXISTS ecosense;
    CREATE TABLE IF NOT EXISTS ecosense.incidents (
        seq         BIGSERIAL PRIMARY KEY,
        id          TEXT NOT NULL UNIQUE,
        sensor_kind TEXT NOT NULL,
        location    TEXT NOT NULL,
        severity    TEXT NOT NULL,
        description TEXT NOT NULL,
        status      TEXT NOT NULL,
        updated_at  TIMESTAMPTZ NOT NULL
    );
`

// EnsureSchema creates the incident table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

const listIncidentsSQL = `
    SELECT id, sensor_kind, location, severity, description, status, updated_at
    FROM ecosense.incidents
    ORDER BY seq DESC
`

// List returns incidents newest insert first.
func (s *Store) List(ctx context.Context) ([]incidents.Incident, error) {
	rows, err := s.pool.Query(ctx, listIncidentsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]incidents.Incident, 0)
	for rows.Next() {
		inc, err := scanIncident(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inc)
	}
	return out, rows.Err()
}

const getIncidentSQL = `
    SELECT id, sensor_kind, location, severity, description, status, updated_at
    FROM ecosense.incidents
    WHERE id = $1
`

// Get returns one incident or incidents.ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (incidents.Incident, error) {
	inc, err := scanIncident(s.pool.QueryRow(ctx, getIncidentSQL, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return incidents.Incident{}, incidents.ErrNotFound
	}
	return inc, err
}

const insertIncidentSQL = `
    INSERT INTO ecosense.incidents (id, sensor_kind, location, severity, description, status, updated_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7)
`

// Insert stores a new incident; a taken id yields incidents.ErrDuplicate.
func (s *Store) Insert(ctx context.Context, inc incidents.Incident) error {
	_, err := s.pool.Exec(ctx, insertIncidentSQL,
		inc.ID,
		inc.SensorKind.Label(),
		inc.Location,
		string(inc.Severity),
		inc.Description,
		string(inc.Status),
		inc.Date,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return incidents.ErrDuplicate
	}
	return err
}

const updateStatusSQL = `
    UPDATE ecosense.incidents
    SET status = $2, updated_at = $3
    WHERE id = $1
    RETURNING id, sensor_kind, location, severity, description, status, updated_at
`

// UpdateStatus changes an incident's status and date.
func (s *Store) UpdateStatus(ctx context.Context, id string, status incidents.Status, at time.Time) (incidents.Incident, error) {
	inc, err := scanIncident(s.pool.QueryRow(ctx, updateStatusSQL, id, string(status), at))
	if errors.Is(err, pgx.ErrNoRows) {
		return incidents.Incident{}, incidents.ErrNotFound
	}
	return inc, err
}

// Delete removes an incident.
func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM ecosense.incidents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return incidents.ErrNotFound
	}
	return nil
}

func scanIncident(row pgx.Row) (incidents.Incident, error) {
	var (
		inc      incidents.Incident
		kind     string
		severity string
		status   string
	)
	if err := row.Scan(
		&inc.ID,
		&kind,
		&inc.Location,
		&severity,
		&inc.Description,
		&status,
		&inc.Date,
	); err != nil {
		return incidents.Incident{}, err
	}

	k, ok := models.ParseKind(kind)
	if !ok {
		return incidents.Incident{}, fmt.Errorf("incident %s: unknown sensor kind %q", inc.ID, kind)
	}
	inc.SensorKind = k
	inc.Severity = incidents.Priority(severity)
	inc.Status = incidents.Status(status)
	return inc, nil
}
