package user

import (
	"context"
	"testing"
	"time"

	"activity-tracking-svc/src/internal/models"
	"activity-tracking-svc/src/internal/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	existing  *User
	created   *User
	findOne   *User
	updated   *User
	deleted   bool
	err       error
	lastQuery *query.Query
}

func (m *mockRepository) Create(ctx context.Context, item *User) (*User, error) {
	if m.err != nil {
		return nil, m.err
	}
	createdAt := time.Now().UTC()
	created := *item
	created.ID = "5c86d00c2239a48ea20a0134"
	created.CreatedAt = &createdAt
	m.created = &created
	return &created, nil
}

func (m *mockRepository) Find(ctx context.Context, q *query.Query) ([]User, error) {
	m.lastQuery = q
	return []User{}, m.err
}

func (m *mockRepository) FindOne(ctx context.Context, q *query.Query) (*User, error) {
	m.lastQuery = q
	return m.findOne, m.err
}

func (m *mockRepository) Update(ctx context.Context, item *User) (*User, error) {
	return m.updated, m.err
}

func (m *mockRepository) Delete(ctx context.Context, id string) (bool, error) {
	return m.deleted, m.err
}

func (m *mockRepository) Count(ctx context.Context, q *query.Query) (int64, error) {
	return 0, m.err
}

func (m *mockRepository) CheckExist(ctx context.Context, item *User) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.existing != nil && m.existing.Email == item.Email, nil
}

func (m *mockRepository) GetByEmail(ctx context.Context, email string, q *query.Query) (*User, error) {
	if m.existing != nil && m.existing.Email == email {
		return m.existing, nil
	}
	return nil, nil
}

func TestAddRejectsInvalidUser(t *testing.T) {
	repo := &mockRepository{}
	service := NewService(repo)

	_, err := service.Add(context.Background(), &User{})
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
	assert.Nil(t, repo.created, "repository must not be reached on validation failure")
}

func TestAddRejectsDuplicateEmail(t *testing.T) {
	repo := &mockRepository{existing: &User{Email: "lorem@mail.com"}}
	service := NewService(repo)

	_, err := service.Add(context.Background(), &User{Name: "Lorem", Email: "lorem@mail.com"})
	require.Error(t, err)
	assert.True(t, models.IsConflict(err))
	assert.Nil(t, repo.created)
}

func TestAddCreatesUserWithDistinctEmail(t *testing.T) {
	repo := &mockRepository{existing: &User{Email: "lorem@mail.com"}}
	service := NewService(repo)

	created, err := service.Add(context.Background(), &User{Name: "Lorem", Email: "other@mail.com"})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotEmpty(t, created.ID)
	assert.NotNil(t, created.CreatedAt)
}

func TestGetByIDRewritesFilter(t *testing.T) {
	repo := &mockRepository{}
	service := NewService(repo)

	result, err := service.GetByID(context.Background(), "5c86d00c2239a48ea20a0134", query.New())
	require.NoError(t, err)
	assert.Nil(t, result, "missing user is absent, not an error")
	require.NotNil(t, repo.lastQuery)
	assert.Equal(t, "5c86d00c2239a48ea20a0134", repo.lastQuery.Filters["_id"])
}

func TestRemoveReportsMiss(t *testing.T) {
	service := NewService(&mockRepository{deleted: false})

	removed, err := service.Remove(context.Background(), "5c86d00c2239a48ea20a0134")
	require.NoError(t, err)
	assert.False(t, removed)
}
