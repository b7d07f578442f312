package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetOrCreateReturnsSameCustomer(t *testing.T) {
	db := openTestDB(t)
	domain := seedDomain(t, db)
	repo := NewCustomerRepo(db)

	first, err := repo.GetOrCreate(context.Background(), domain.ID, "visitor@example.com")
	require.NoError(t, err)

	second, err := repo.GetOrCreate(context.Background(), domain.ID, "visitor@example.com")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
}

func TestGetOrCreateRecoversFromLostInsertRace(t *testing.T) {
	db := openTestDB(t)
	domain := seedDomain(t, db)
	repo := NewCustomerRepo(db).(*customerRepo)

	// the winner's row already exists when our insert collides
	winner, err := repo.GetOrCreate(context.Background(), domain.ID, "visitor@example.com")
	require.NoError(t, err)

	recovered, err := repo.recoverExisting(context.Background(), domain.ID, "visitor@example.com", ErrDuplicate)
	require.NoError(t, err)
	require.Equal(t, winner.ID, recovered.ID)

	// anything but a duplicate passes through untouched
	boom := errors.New("connection reset")
	_, err = repo.recoverExisting(context.Background(), domain.ID, "visitor@example.com", boom)
	require.ErrorIs(t, err, boom)
}
