package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ridelink/verify-api/internal/domain"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository defines user persistence operations
type UserRepository interface {
	EnsureUser(ctx context.Context, user *domain.User) error
	GetByPhoneNumber(ctx context.Context, phoneNumber string) (*domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

// EnsureUser inserts the user profile on first verification. Re-verifying an
// existing phone number leaves the stored profile untouched.
func (r *userRepository) EnsureUser(ctx context.Context, user *domain.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (phone_number, verified, display_name, profile_picture, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (phone_number) DO NOTHING`,
		user.PhoneNumber, user.Verified, user.DisplayName, user.ProfilePicture, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByPhoneNumber(ctx context.Context, phoneNumber string) (*domain.User, error) {
	var user domain.User
	err := r.pool.QueryRow(ctx, `
		SELECT phone_number, verified, display_name, profile_picture, created_at
		FROM users
		WHERE phone_number = $1`,
		phoneNumber,
	).Scan(&user.PhoneNumber, &user.Verified, &user.DisplayName, &user.ProfilePicture, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}
