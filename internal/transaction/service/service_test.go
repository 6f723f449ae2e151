package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"vouch/internal/transaction/models"
	"vouch/internal/transaction/store"
	"vouch/internal/transaction/store/mocks"
	dErrors "vouch/pkg/domain-errors"
)

func newTestService(t *testing.T) (*Service, *mocks.MockStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStore(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := New(st, logger, nil, nil).WithClock(
		func() time.Time { return time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC) },
		func() string { return "txn-fixed-id" },
	)
	return svc, st
}

func TestCreateRejectsMissingName(t *testing.T) {
	svc, _ := newTestService(t)

	for _, name := range []string{"", "   ", "\t\n"} {
		_, err := svc.Create(context.Background(), CreateRequest{Name: name, DateOfBirth: "1990-01-01"})
		require.Error(t, err)
		assert.Equal(t, "MISSING_NAME", dErrors.CodeOf(err))
		assert.True(t, dErrors.Is(err, dErrors.KindBadRequest))
	}
}

func TestCreateRejectsBadDOB(t *testing.T) {
	svc, _ := newTestService(t)

	cases := []string{
		"",
		"01-01-1990",
		"1990/01/01",
		"1990-1-1",
		"not-a-date",
		"1990-02-30",
		"2030-01-01", // future
		"2026-01-15", // same day as the clock, not strictly in the past
	}
	for _, dob := range cases {
		_, err := svc.Create(context.Background(), CreateRequest{Name: "Jane Roe", DateOfBirth: dob})
		require.Error(t, err, "dob %q", dob)
		assert.Equal(t, "INVALID_DOB", dErrors.CodeOf(err), "dob %q", dob)
	}
}

// The boundary is the calendar day, not the clock reading: with the clock
// fixed at noon, yesterday's date passes while today's is rejected above.
func TestCreateAcceptsDayBeforeClock(t *testing.T) {
	svc, st := newTestService(t)
	st.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil)

	tx, err := svc.Create(context.Background(), CreateRequest{Name: "Jane Roe", DateOfBirth: "2026-01-14"})
	require.NoError(t, err)
	assert.Equal(t, "2026-01-14", tx.PersonalInfo.DateOfBirth)
}

func TestCreateStartsAllPending(t *testing.T) {
	svc, st := newTestService(t)
	st.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil)

	tx, err := svc.Create(context.Background(), CreateRequest{
		Name:        "  Jane Roe  ",
		DateOfBirth: "1990-01-01",
		Country:     "USA",
	})
	require.NoError(t, err)

	assert.Equal(t, "txn-fixed-id", tx.ID)
	assert.Equal(t, "Jane Roe", tx.PersonalInfo.Name)
	assert.Equal(t, "1990-01-01", tx.PersonalInfo.DateOfBirth)
	assert.Equal(t, "USA", tx.PersonalInfo.Country)
	for _, dt := range models.TrackedTypes {
		assert.Equal(t, models.StatusPending, tx.StatusOf(dt))
	}
	assert.Empty(t, tx.Documents)
}

func TestCreateStoreFailure(t *testing.T) {
	svc, st := newTestService(t)
	st.EXPECT().Put(gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))

	_, err := svc.Create(context.Background(), CreateRequest{Name: "Jane Roe", DateOfBirth: "1990-01-01"})
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.KindInternal))
}

func TestGetRequiresID(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get(context.Background(), "  ")
	require.Error(t, err)
	assert.Equal(t, "MISSING_TXN_ID", dErrors.CodeOf(err))
}

func TestGetMapsNotFound(t *testing.T) {
	svc, st := newTestService(t)
	st.EXPECT().Get(gomock.Any(), "missing").Return(nil, store.ErrNotFound)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, "TXN_NOT_FOUND", dErrors.CodeOf(err))
	assert.True(t, dErrors.Is(err, dErrors.KindNotFound))
}

func TestGetReturnsTransaction(t *testing.T) {
	svc, st := newTestService(t)
	want := &models.Transaction{ID: "txn-1"}
	st.EXPECT().Get(gomock.Any(), "txn-1").Return(want, nil)

	tx, err := svc.Get(context.Background(), "txn-1")
	require.NoError(t, err)
	assert.Same(t, want, tx)
}
