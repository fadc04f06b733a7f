package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/edusuite/scolaris/internal/models"
)

func GetUserByID(ctx context.Context, database *sql.DB, id int64) (*models.User, error) {
	row := database.QueryRowContext(ctx, `
		SELECT id, email, name, role, class_name, chat_id, password_hash, is_active
		FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func GetUserByEmail(ctx context.Context, database *sql.DB, email string) (*models.User, error) {
	row := database.QueryRowContext(ctx, `
		SELECT id, email, name, role, class_name, chat_id, password_hash, is_active
		FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.ClassName, &u.ChatID, &u.PasswordHash, &u.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func CreateUser(ctx context.Context, database *sql.DB, u models.User) (int64, error) {
	var id int64
	err := database.QueryRowContext(ctx, `
		INSERT INTO users (email, name, role, class_name, chat_id, password_hash, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		u.Email, u.Name, u.Role, u.ClassName, u.ChatID, u.PasswordHash, u.IsActive,
	).Scan(&id)
	return id, err
}

// LinkChild attaches a student to a parent; duplicates are ignored.
func LinkChild(ctx context.Context, database *sql.DB, parentID, studentID int64) error {
	_, err := database.ExecContext(ctx, `
		INSERT INTO parent_children (parent_id, student_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, parentID, studentID)
	return err
}

func ListChildren(ctx context.Context, database *sql.DB, parentID int64) ([]models.User, error) {
	rows, err := database.QueryContext(ctx, `
		SELECT u.id, u.email, u.name, u.role, u.class_name, u.chat_id, u.password_hash, u.is_active
		FROM users u
		JOIN parent_children pc ON pc.student_id = u.id
		WHERE pc.parent_id = $1
		ORDER BY u.name`, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.ClassName, &u.ChatID, &u.PasswordHash, &u.IsActive); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// ParentChatIDs returns the Telegram chat ids of parents linked to the student
// that have a chat bound. Used by the at-risk alert job.
func ParentChatIDs(ctx context.Context, database *sql.DB, studentID int64) ([]int64, error) {
	rows, err := database.QueryContext(ctx, `
		SELECT u.chat_id
		FROM users u
		JOIN parent_children pc ON pc.parent_id = u.id
		WHERE pc.student_id = $1 AND u.chat_id IS NOT NULL AND u.is_active`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListStudents returns active students, optionally scoped to one class.
func ListStudents(ctx context.Context, database *sql.DB, className *string) ([]models.User, error) {
	q := `
		SELECT id, email, name, role, class_name, chat_id, password_hash, is_active
		FROM users WHERE role = 'student' AND is_active`
	args := []any{}
	if className != nil {
		q += ` AND class_name = $1`
		args = append(args, *className)
	}
	q += ` ORDER BY name`

	rows, err := database.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.ClassName, &u.ChatID, &u.PasswordHash, &u.IsActive); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
