package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eduverse/eduverse-backend/internal/authz"
	"github.com/eduverse/eduverse-backend/internal/model"
)

// UserRepository handles user data access.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, first_name, last_name, email, password_hash, role, department,
	is_active, joined_date, last_login, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
		&u.Role, &u.Department, &u.IsActive, &u.JoinedDate, &u.LastLogin,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1", email))
}

// GetByID retrieves a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*model.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id))
}

// FetchSnapshot projects the fields authorization decisions need. Implements
// authz.SnapshotSource.
func (r *UserRepository) FetchSnapshot(ctx context.Context, userID int) (*authz.UserSnapshot, error) {
	var snap authz.UserSnapshot
	err := r.pool.QueryRow(ctx,
		"SELECT id, role, department, is_active FROM users WHERE id = $1", userID).
		Scan(&snap.ID, &snap.Role, &snap.Department, &snap.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, authz.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// ListTeachers returns staff members matching the filter, paginated.
func (r *UserRepository) ListTeachers(ctx context.Context, filter model.TeacherFilter, page, perPage int) ([]model.User, int, error) {
	where := `role IN ($1, $2, $3, $4, $5)`
	args := []interface{}{
		authz.RoleNewTeacher, authz.RoleStandardTeacher, authz.RoleSeniorTeacher,
		authz.RoleDepartmentHead, authz.RoleSubstituteTeacher,
	}

	if filter.Department != "" {
		args = append(args, filter.Department)
		where += fmt.Sprintf(" AND department = $%d", len(args))
	}
	if filter.Role != "" {
		args = append(args, filter.Role)
		where += fmt.Sprintf(" AND role = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		where += fmt.Sprintf(" AND (first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)", n, n, n)
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM users WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, perPage, (page-1)*perPage)
	query := fmt.Sprintf("SELECT %s FROM users WHERE %s ORDER BY last_name, first_name LIMIT $%d OFFSET $%d",
		userColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	return users, total, rows.Err()
}

// UpdateActive toggles a user's active flag.
func (r *UserRepository) UpdateActive(ctx context.Context, userID int, active bool) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE users SET is_active = $1, updated_at = now() WHERE id = $2", active, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// TouchLastLogin records a successful login.
func (r *UserRepository) TouchLastLogin(ctx context.Context, userID int) error {
	_, err := r.pool.Exec(ctx, "UPDATE users SET last_login = now() WHERE id = $1", userID)
	return err
}

// Create inserts a user and returns its id.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO users (first_name, last_name, email, password_hash, role, department, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		u.FirstName, u.LastName, u.Email, u.PasswordHash, u.Role, u.Department, u.IsActive).
		Scan(&u.ID)
}
