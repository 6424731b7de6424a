package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"orgdesk/internal/staff/models"
	id "orgdesk/pkg/domain"
	"orgdesk/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

// PostgresStore persists staff in the staff table. Profile and verification
// details live in JSONB columns; fields used for lookup are promoted to columns.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const staffColumns = `
	id, tenant_id, username, password_hash, is_active,
	profile, verification, created_by, updated_by, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, staff *models.Staff) error {
	const insertSQL = `
		INSERT INTO staff (
			id, tenant_id, username, username_key, password_hash,
			email, phone, role, designation, is_active,
			profile, verification, created_by, updated_by, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := s.pool.Exec(ctx, insertSQL,
		uuid.UUID(staff.ID),
		uuid.UUID(staff.TenantID),
		staff.Username,
		staff.UsernameKey(),
		staff.PasswordHash,
		staff.Profile.Email,
		staff.Profile.Phone,
		staff.Profile.Role,
		staff.Profile.Designation,
		staff.IsActive,
		staff.Profile,
		staff.Verification,
		nullableUser(staff.CreatedBy),
		nullableUser(staff.UpdatedBy),
		staff.CreatedAt,
		staff.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("staff: insert: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, staff *models.Staff) error {
	const updateSQL = `
		UPDATE staff SET
			username = $3, username_key = $4, password_hash = $5,
			email = $6, phone = $7, role = $8, designation = $9, is_active = $10,
			profile = $11, verification = $12, updated_by = $13, updated_at = $14
		WHERE id = $1 AND tenant_id = $2
	`
	tag, err := s.pool.Exec(ctx, updateSQL,
		uuid.UUID(staff.ID),
		uuid.UUID(staff.TenantID),
		staff.Username,
		staff.UsernameKey(),
		staff.PasswordHash,
		staff.Profile.Email,
		staff.Profile.Phone,
		staff.Profile.Role,
		staff.Profile.Designation,
		staff.IsActive,
		staff.Profile,
		staff.Verification,
		nullableUser(staff.UpdatedBy),
		staff.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("staff: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, tenantID id.TenantID, staffID id.StaffID) (*models.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE tenant_id = $1 AND id = $2`
	return scanStaff(s.pool.QueryRow(ctx, query, uuid.UUID(tenantID), uuid.UUID(staffID)))
}

func (s *PostgresStore) FindByUsername(ctx context.Context, tenantID id.TenantID, username string) (*models.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE tenant_id = $1 AND username_key = $2`
	return scanStaff(s.pool.QueryRow(ctx, query, uuid.UUID(tenantID), models.UsernameKey(username)))
}

func (s *PostgresStore) CountByTenant(ctx context.Context, tenantID id.TenantID) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM staff WHERE tenant_id = $1`, uuid.UUID(tenantID)).Scan(&n); err != nil {
		return 0, fmt.Errorf("staff: count: %w", err)
	}
	return n, nil
}

func scanStaff(row pgx.Row) (*models.Staff, error) {
	var (
		staff               models.Staff
		staffID, tenantID   uuid.UUID
		createdBy, updateBy *uuid.UUID
	)
	err := row.Scan(
		&staffID,
		&tenantID,
		&staff.Username,
		&staff.PasswordHash,
		&staff.IsActive,
		&staff.Profile,
		&staff.Verification,
		&createdBy,
		&updateBy,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("staff: scan: %w", err)
	}
	staff.ID = id.StaffID(staffID)
	staff.TenantID = id.TenantID(tenantID)
	if createdBy != nil {
		staff.CreatedBy = id.UserID(*createdBy)
	}
	if updateBy != nil {
		staff.UpdatedBy = id.UserID(*updateBy)
	}
	return &staff, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func nullableUser(u id.UserID) *uuid.UUID {
	if u.IsNil() {
		return nil
	}
	v := uuid.UUID(u)
	return &v
}
