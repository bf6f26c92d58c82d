// api/store/tenant_store.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/lib/pq"

	"klyra/api/models"
)

// ErrEmailTaken is returned when signup hits an existing account.
var ErrEmailTaken = errors.New("email already registered")

// TenantResolver is the piece of TenantStore the event recorders need:
// turning an API key into the owning tenant.
type TenantResolver interface {
	GetTenantByAPIKey(ctx context.Context, apiKey string) (*models.Tenant, error)
}

type TenantStore struct {
	db *sql.DB
}

func NewTenantStore(db *sql.DB) *TenantStore {
	return &TenantStore{db: db}
}

// CreateTenant inserts a new tenant account with its generated API key.
func (s *TenantStore) CreateTenant(ctx context.Context, name, email string, hashedPassword []byte, apiKey string) (*models.Tenant, error) {
	tenant := &models.Tenant{}
	query := `
		INSERT INTO tenants (name, email, hashed_password, api_key)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, email, api_key, created_at, updated_at;
	`
	err := s.db.QueryRowContext(ctx, query, name, email, hashedPassword, apiKey).Scan(
		&tenant.ID,
		&tenant.Name,
		&tenant.Email,
		&tenant.APIKey,
		&tenant.CreatedAt,
		&tenant.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			// Only the email constraint means a duplicate signup; a collision
			// on the generated api_key is a store failure the caller retries.
			if pqErr.Constraint == "tenants_email_key" {
				return nil, fmt.Errorf("%w: %s", ErrEmailTaken, email)
			}
			return nil, fmt.Errorf("%w: create tenant: %v", ErrStore, err)
		}
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}

	log.Printf("Tenant created in DB: ID=%d, Email=%s", tenant.ID, tenant.Email)
	return tenant, nil
}

func (s *TenantStore) GetTenantByEmail(ctx context.Context, email string) (*models.Tenant, error) {
	return s.getTenant(ctx, `
		SELECT id, name, email, hashed_password, api_key, created_at, updated_at
		FROM tenants
		WHERE email = $1;
	`, email)
}

// GetTenantByAPIKey resolves the tenant owning an API key. A miss is an
// authorization failure, not a validation one.
func (s *TenantStore) GetTenantByAPIKey(ctx context.Context, apiKey string) (*models.Tenant, error) {
	tenant, err := s.getTenant(ctx, `
		SELECT id, name, email, hashed_password, api_key, created_at, updated_at
		FROM tenants
		WHERE api_key = $1;
	`, apiKey)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrUnauthorized
	}
	return tenant, err
}

func (s *TenantStore) getTenant(ctx context.Context, query, arg string) (*models.Tenant, error) {
	tenant := &models.Tenant{}
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&tenant.ID,
		&tenant.Name,
		&tenant.Email,
		&tenant.HashedPassword,
		&tenant.APIKey,
		&tenant.CreatedAt,
		&tenant.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return tenant, nil
}
