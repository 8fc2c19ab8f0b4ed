package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/quotedeck/quotedeck-server/internal/domain"
	"github.com/quotedeck/quotedeck-server/internal/store"
)

const entitlementColumns = `id, user_id, kind, resource_id, expires_at, granted_by, metadata, created_at, updated_at`

// UpsertEntitlement grants access, keyed by (user_id, kind, resource_id).
//
// Re-granting updates expiry, provenance and metadata on the existing row
// rather than duplicating it; the row ID and created_at are preserved. The
// primary key resolves concurrent double-grants.
func (s *Store) UpsertEntitlement(ctx context.Context, ent *domain.Entitlement) (*domain.Entitlement, error) {
	now := time.Now().UTC()
	if ent.ID == "" {
		ent.ID = uuid.NewString()
	}
	if ent.CreatedAt.IsZero() {
		ent.CreatedAt = now
	}
	ent.UpdatedAt = now

	metadata, err := marshalMetadata(ent.Metadata)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO entitlements (`+entitlementColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, kind, resource_id) DO UPDATE SET
			expires_at = excluded.expires_at,
			granted_by = excluded.granted_by,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at`,
		ent.ID,
		ent.UserID,
		string(ent.Kind),
		ent.ResourceID,
		nullTimeString(ent.ExpiresAt),
		ent.GrantedBy,
		metadata,
		formatTime(ent.CreatedAt),
		formatTime(ent.UpdatedAt),
	)
	if err != nil {
		return nil, err
	}

	return s.GetEntitlement(ctx, ent.UserID, ent.Kind, ent.ResourceID)
}

// GetEntitlement retrieves a grant by its natural key.
func (s *Store) GetEntitlement(ctx context.Context, userID string, kind domain.EntitlementKind, resourceID string) (*domain.Entitlement, error) {
	ent, err := s.scanEntitlement(s.db.QueryRowContext(ctx, `
		SELECT `+entitlementColumns+` FROM entitlements
		WHERE user_id = ? AND kind = ? AND resource_id = ?`,
		userID, string(kind), resourceID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("entitlement not found")
	}
	return ent, err
}

// DeleteEntitlement revokes a grant and returns the number of rows removed
// (0 or 1).
func (s *Store) DeleteEntitlement(ctx context.Context, userID string, kind domain.EntitlementKind, resourceID string) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM entitlements
		WHERE user_id = ? AND kind = ? AND resource_id = ?`,
		userID, string(kind), resourceID,
	)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// ListEntitlementsForUser returns a user's grants, optionally filtered by
// kind (empty kind = all), newest first.
func (s *Store) ListEntitlementsForUser(ctx context.Context, userID string, kind domain.EntitlementKind) ([]*domain.Entitlement, error) {
	query := `SELECT ` + entitlementColumns + ` FROM entitlements WHERE user_id = ?`
	args := []any{userID}
	if kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ents []*domain.Entitlement
	for rows.Next() {
		ent, err := s.scanEntitlement(rows)
		if err != nil {
			return nil, err
		}
		ents = append(ents, ent)
	}
	return ents, rows.Err()
}

func (s *Store) scanEntitlement(row rowScanner) (*domain.Entitlement, error) {
	var ent domain.Entitlement
	var kind, createdAt, updatedAt string
	var expiresAt, metadata sql.NullString

	err := row.Scan(
		&ent.ID,
		&ent.UserID,
		&kind,
		&ent.ResourceID,
		&expiresAt,
		&ent.GrantedBy,
		&metadata,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	ent.Kind = domain.EntitlementKind(kind)
	if ent.ExpiresAt, err = parseNullableTime(expiresAt); err != nil {
		return nil, err
	}
	if metadata.Valid && metadata.String != "" {
		if err := json.Unmarshal([]byte(metadata.String), &ent.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal entitlement metadata: %w", err)
		}
	}
	if ent.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if ent.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &ent, nil
}

func marshalMetadata(m map[string]any) (sql.NullString, error) {
	if len(m) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshal entitlement metadata: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}
