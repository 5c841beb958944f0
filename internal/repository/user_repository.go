package repository

import (
	"context"
	"time"

	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository handles teacher account data access.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a new teacher account.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		u.Name, u.Email, u.PasswordHash,
	).Scan(&u.ID, &u.CreatedAt)
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.scanUser(ctx,
		`SELECT id, name, email, password_hash,
		        google_access_token, google_refresh_token, google_token_type, google_token_expiry,
		        created_at
		 FROM users WHERE email = $1`, email)
}

// GetByID retrieves a user by identifier.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.scanUser(ctx,
		`SELECT id, name, email, password_hash,
		        google_access_token, google_refresh_token, google_token_type, google_token_expiry,
		        created_at
		 FROM users WHERE id = $1`, id)
}

// SaveGoogleTokens stores the OAuth2 credentials for a user.
func (r *UserRepository) SaveGoogleTokens(ctx context.Context, userID uuid.UUID, t *model.GoogleTokens) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users
		 SET google_access_token = $1, google_refresh_token = $2,
		     google_token_type = $3, google_token_expiry = $4
		 WHERE id = $5`,
		t.AccessToken, t.RefreshToken, t.TokenType, t.Expiry, userID,
	)
	return err
}

func (r *UserRepository) scanUser(ctx context.Context, query string, arg interface{}) (*model.User, error) {
	u := &model.User{}
	var accessToken, refreshToken, tokenType *string
	var tokenExpiry *time.Time

	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash,
		&accessToken, &refreshToken, &tokenType, &tokenExpiry,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if accessToken != nil && refreshToken != nil {
		tokens := model.GoogleTokens{
			AccessToken:  *accessToken,
			RefreshToken: *refreshToken,
		}
		if tokenType != nil {
			tokens.TokenType = *tokenType
		}
		if tokenExpiry != nil {
			tokens.Expiry = *tokenExpiry
		}
		u.GoogleTokens = &tokens
	}
	return u, nil
}
