package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farringdon-press/boxoffice/internal/domain"
	"github.com/farringdon-press/boxoffice/internal/repository"
)

type mockReader struct {
	order *domain.Order
	err   error
	calls int
}

func (m *mockReader) GetByReference(_ context.Context, _ string) (*domain.Order, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	cp := *m.order
	return &cp, nil
}

func TestGetOrder(t *testing.T) {
	reader := &mockReader{order: &domain.Order{
		Reference: "FP-1",
		Status:    domain.StatusCompleted,
	}}
	svc := New(reader, nil, Config{})

	o, err := svc.GetOrder(context.Background(), "FP-1")
	require.NoError(t, err)
	assert.Equal(t, "FP-1", o.Reference)
	assert.Equal(t, domain.StatusCompleted, o.Status)
	assert.Equal(t, 1, reader.calls)
}

func TestGetOrder_NotFound(t *testing.T) {
	reader := &mockReader{err: repository.ErrNotFound}
	svc := New(reader, nil, Config{})

	_, err := svc.GetOrder(context.Background(), "FP-missing")
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestGetOrder_StoreFailure(t *testing.T) {
	cause := errors.New("connection reset")
	reader := &mockReader{err: cause}
	svc := New(reader, nil, Config{})

	_, err := svc.GetOrder(context.Background(), "FP-1")
	require.ErrorIs(t, err, cause)
}
