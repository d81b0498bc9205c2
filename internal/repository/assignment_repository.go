package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eduverse/eduverse-backend/internal/model"
)

// AssignmentRepository records role-assignment history and handles expiry of
// temporary assignments.
type AssignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository creates a new AssignmentRepository.
func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

// AssignRole applies a role change and its audit record in one transaction,
// so a failed history insert never leaves the role row changed without a
// trail.
func (r *AssignmentRepository) AssignRole(ctx context.Context, a *model.RoleAssignment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE users SET role = $1, updated_at = now() WHERE id = $2`,
		a.RoleID, a.TeacherID); err != nil {
		return err
	}

	if err := tx.QueryRow(ctx,
		`INSERT INTO role_assignments (teacher_id, role_id, assigned_by, expires_at)
		 VALUES ($1, $2, $3, $4) RETURNING id, assigned_at`,
		a.TeacherID, a.RoleID, a.AssignedBy, a.ExpiresAt).
		Scan(&a.ID, &a.AssignedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ListForTeacher returns a teacher's assignment history, newest first.
func (r *AssignmentRepository) ListForTeacher(ctx context.Context, teacherID int) ([]model.RoleAssignment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, teacher_id, role_id, assigned_by, assigned_at, expires_at
		 FROM role_assignments WHERE teacher_id = $1 ORDER BY assigned_at DESC`, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RoleAssignment
	for rows.Next() {
		var a model.RoleAssignment
		if err := rows.Scan(&a.ID, &a.TeacherID, &a.RoleID, &a.AssignedBy, &a.AssignedAt, &a.ExpiresAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ExpireDue reverts teachers whose temporary assignment has lapsed to the
// fallback role and marks the assignments reverted. Returns the affected
// teacher ids so their cached snapshots can be invalidated.
func (r *AssignmentRepository) ExpireDue(ctx context.Context, fallbackRole string) ([]int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx,
		`UPDATE role_assignments SET reverted = TRUE
		 WHERE expires_at IS NOT NULL AND expires_at <= now() AND NOT reverted
		 RETURNING teacher_id`)
	if err != nil {
		return nil, err
	}

	var teacherIDs []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		teacherIDs = append(teacherIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(teacherIDs) == 0 {
		return nil, tx.Commit(ctx)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE users SET role = $1, updated_at = now() WHERE id = ANY($2)`,
		fallbackRole, teacherIDs); err != nil {
		return nil, err
	}

	return teacherIDs, tx.Commit(ctx)
}
