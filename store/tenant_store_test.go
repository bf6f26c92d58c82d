package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTenantStore(t *testing.T) (*TenantStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTenantStore(db), mock
}

func TestCreateTenantReturnsRow(t *testing.T) {
	s, mock := newTenantStore(t)
	now := time.Now()
	mock.ExpectQuery("INSERT INTO tenants").
		WithArgs("Acme", "acme@example.com", []byte("hash"), "abcDEF123456").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "name", "email", "api_key", "created_at", "updated_at"}).
			AddRow(1, "Acme", "acme@example.com", "abcDEF123456", now, now))

	tenant, err := s.CreateTenant(context.Background(), "Acme", "acme@example.com", []byte("hash"), "abcDEF123456")
	require.NoError(t, err)
	assert.Equal(t, 1, tenant.ID)
	assert.Equal(t, "abcDEF123456", tenant.APIKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTenantDuplicateEmail(t *testing.T) {
	s, mock := newTenantStore(t)
	mock.ExpectQuery("INSERT INTO tenants").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "tenants_email_key"})

	_, err := s.CreateTenant(context.Background(), "Acme", "acme@example.com", []byte("hash"), "abcDEF123456")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestCreateTenantAPIKeyCollisionIsNotEmailConflict(t *testing.T) {
	s, mock := newTenantStore(t)
	mock.ExpectQuery("INSERT INTO tenants").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "tenants_api_key_key"})

	_, err := s.CreateTenant(context.Background(), "Acme", "acme@example.com", []byte("hash"), "abcDEF123456")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrEmailTaken))
	assert.ErrorIs(t, err, ErrStore)
}
