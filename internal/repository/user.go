package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/citywatch/incident_reporting_system/internal/models"
	"github.com/citywatch/incident_reporting_system/internal/service"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) service.UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `
	id,
	username,
	email,
	password_hash,
	role,
	phone_number,
	profile_picture,
	biometric_token_hash,
	face_embedding,
	is_active,
	created_at,
	last_login`

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.PhoneNumber,
		&user.ProfilePicture,
		&user.BiometricTokenHash,
		&user.FaceEmbedding,
		&user.IsActive,
		&user.CreatedAt,
		&user.LastLogin,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create создает новую запись пользователя в бд
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, role, phone_number, profile_picture, biometric_token_hash, face_embedding, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id, created_at;
	`
	err := r.db.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.PhoneNumber,
		user.ProfilePicture,
		user.BiometricTokenHash,
		user.FaceEmbedding,
		user.IsActive,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID возвращает пользователя по его UUID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE id = $1;`
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user with id %s: %w", id, service.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// GetByUsername возвращает пользователя по имени без учета регистра
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE LOWER(username) = LOWER($1);`
	user, err := scanUser(r.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", username, service.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

// GetByEmail возвращает пользователя по email без учета регистра
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1);`
	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user with email %q: %w", email, service.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users SET
			email = $1,
			role = $2,
			phone_number = $3,
			profile_picture = $4,
			face_embedding = $5,
			is_active = $6
		WHERE id = $7;
	`
	cmdTag, err := r.db.Exec(ctx, query,
		user.Email,
		user.Role,
		user.PhoneNumber,
		user.ProfilePicture,
		user.FaceEmbedding,
		user.IsActive,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user with id %s not found for update: %w", user.ID, service.ErrNotFound)
	}
	return nil
}

// Delete удаляет пользователя, инциденты удаляются каскадно
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user with id %s not found for delete: %w", id, service.ErrNotFound)
	}
	return nil
}

// List возвращает список пользователей с пагинацией, новые первыми
func (r *UserRepository) List(ctx context.Context, page, pageSize int) ([]*models.User, error) {
	offset := (page - 1) * pageSize

	query := `SELECT` + userColumns + ` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2;`
	rows, err := r.db.Query(ctx, query, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return users, nil
}

// SetBiometricToken сохраняет хеш биометрического токена
func (r *UserRepository) SetBiometricToken(ctx context.Context, id uuid.UUID, hash string) error {
	cmdTag, err := r.db.Exec(ctx, `UPDATE users SET biometric_token_hash = $1 WHERE id = $2;`, hash, id)
	if err != nil {
		return fmt.Errorf("failed to set biometric token: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user with id %s not found: %w", id, service.ErrNotFound)
	}
	return nil
}

// SetActive устанавливает флаг активности пользователя
func (r *UserRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	cmdTag, err := r.db.Exec(ctx, `UPDATE users SET is_active = $1 WHERE id = $2;`, active, id)
	if err != nil {
		return fmt.Errorf("failed to set user active flag: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user with id %s not found: %w", id, service.ErrNotFound)
	}
	return nil
}

// UpdateLastLogin обновляет время последнего входа
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `UPDATE users SET last_login = NOW() WHERE id = $1;`, id); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// GetStats возвращает агрегаты по пользователям для админской панели
func (r *UserRepository) GetStats(ctx context.Context, windowDays int) (*models.UserStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE is_active),
			COUNT(*) FILTER (WHERE role = 'admin'),
			COUNT(*) FILTER (WHERE role = 'citizen'),
			COUNT(*) FILTER (WHERE created_at >= NOW() - ($1 * INTERVAL '1 day'))
		FROM users;
	`
	stats := &models.UserStats{}
	err := r.db.QueryRow(ctx, query, windowDays).Scan(
		&stats.TotalUsers,
		&stats.ActiveUsers,
		&stats.Admins,
		&stats.Citizens,
		&stats.RegisteredLast7d,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}
	return stats, nil
}
