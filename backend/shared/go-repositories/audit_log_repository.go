// backend/shared/go-repositories/audit_log_repository.go
package repositories

import (
	"context"

	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-models"
	"github.com/google/uuid"
)

type auditLogRepo struct {
	db DB
}

func NewAuditLogRepository(db DB) AuditLogRepository {
	return &auditLogRepo{db: db}
}

func (r *auditLogRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO audit_logs (
			id, actor_id, actor_role, action, target_id, target_type, details, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at
	`,
		entry.ID,
		entry.ActorID,
		entry.ActorRole,
		entry.Action,
		entry.TargetID,
		entry.TargetType,
		entry.Details,
	)
	return translatePgError(row.Scan(&entry.CreatedAt))
}

func (r *auditLogRepo) ListByTarget(ctx context.Context, targetID uuid.UUID) ([]*models.AuditLog, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, actor_id, actor_role, action, target_id, target_type, details, created_at
		FROM audit_logs
		WHERE target_id=$1
		ORDER BY created_at, id
	`, targetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.AuditLog
	for rows.Next() {
		var e models.AuditLog
		if err := rows.Scan(
			&e.ID, &e.ActorID, &e.ActorRole, &e.Action,
			&e.TargetID, &e.TargetType, &e.Details, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
