package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	id "orgdesk/pkg/domain"
	audit "orgdesk/pkg/platform/audit"
)

// Store implements audit.Store on the audit_events table.
type Store struct {
	db *sql.DB
}

// New creates a new PostgreSQL audit store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectColumns = `
	category, timestamp, tenant_id, actor_id, staff_id, session_id,
	subject, action, decision, reason, channels,
	request_id, client_ip, device`

// Append inserts an audit event.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	query := `
		INSERT INTO audit_events (
			id, category, timestamp, tenant_id, actor_id, staff_id, session_id,
			subject, action, decision, reason, channels,
			request_id, client_ip, device
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	category := event.Category
	if category == "" {
		category = audit.AuditEvent(event.Action).Category()
	}

	_, err := s.db.ExecContext(ctx, query,
		uuid.New(),
		string(category),
		event.Timestamp,
		uuid.UUID(event.TenantID),
		nullableUUID(uuid.UUID(event.ActorID)),
		nullableUUID(uuid.UUID(event.StaffID)),
		event.SessionID,
		event.Subject,
		event.Action,
		event.Decision,
		event.Reason,
		pq.Array(event.Channels),
		event.RequestID,
		event.ClientIP,
		event.Device,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListByTenant returns events for a tenant, oldest first.
func (s *Store) ListByTenant(ctx context.Context, tenantID id.TenantID) ([]audit.Event, error) {
	query := `SELECT ` + selectColumns + `
		FROM audit_events
		WHERE tenant_id = $1
		ORDER BY timestamp ASC
	`

	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(tenantID))
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListBySession returns the events recorded for one wizard session, oldest first.
func (s *Store) ListBySession(ctx context.Context, tenantID id.TenantID, sessionID string) ([]audit.Event, error) {
	query := `SELECT ` + selectColumns + `
		FROM audit_events
		WHERE tenant_id = $1 AND session_id = $2
		ORDER BY timestamp ASC
	`

	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(tenantID), sessionID)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func nullableUUID(u uuid.UUID) *uuid.UUID {
	if u == uuid.Nil {
		return nil
	}
	return &u
}

func scanEvents(rows *sql.Rows) ([]audit.Event, error) {
	var events []audit.Event

	for rows.Next() {
		var (
			category string
			event    audit.Event
			tenantID uuid.UUID
			actorID  *uuid.UUID
			staffID  *uuid.UUID
			channels []string
		)

		err := rows.Scan(
			&category,
			&event.Timestamp,
			&tenantID,
			&actorID,
			&staffID,
			&event.SessionID,
			&event.Subject,
			&event.Action,
			&event.Decision,
			&event.Reason,
			pq.Array(&channels),
			&event.RequestID,
			&event.ClientIP,
			&event.Device,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}

		event.Category = audit.EventCategory(category)
		event.TenantID = id.TenantID(tenantID)
		if actorID != nil {
			event.ActorID = id.UserID(*actorID)
		}
		if staffID != nil {
			event.StaffID = id.StaffID(*staffID)
		}
		event.Channels = channels

		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}

	return events, nil
}
