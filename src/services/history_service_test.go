package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/finplan/backend/src/logger"
	"github.com/username/finplan/backend/src/models"
	"github.com/username/finplan/backend/src/storage"
)

func init() {
	logger.InitLogger("error")
}

// failingKV wraps a KVStore and fails selected operations.
type failingKV struct {
	storage.KVStore
	getErr    error
	setErr    error
	deleteErr error
}

func (f *failingKV) Get(ctx context.Context, key string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	return f.KVStore.Get(ctx, key)
}

func (f *failingKV) Set(ctx context.Context, key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.KVStore.Set(ctx, key, value)
}

func (f *failingKV) Delete(ctx context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.KVStore.Delete(ctx, key)
}

func sipRecordFixture(monthly float64) models.CalculationRecord {
	return models.NewSIPRecord(
		models.SIPInput{MonthlyInvestment: monthly, ReturnRate: 12, Duration: 10, InflationRate: 6},
		models.SIPSummary{TotalInvestment: int64(monthly * 120), TotalValue: int64(monthly * 200)},
	)
}

func swpRecordFixture() models.CalculationRecord {
	return models.NewSWPRecord(
		models.SWPInput{InitialInvestment: 1000000, MonthlyWithdrawal: 10000, ReturnRate: 12, Duration: 10},
		models.SWPSummary{TotalWithdrawals: 1200000, FinalBalance: 1000000},
	)
}

func TestHistoryService_AppendOrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc := NewHistoryService(storage.NewMemoryKV())

	a, err := svc.Append(ctx, 1, sipRecordFixture(1000))
	require.NoError(t, err)
	b, err := svc.Append(ctx, 1, swpRecordFixture())
	require.NoError(t, err)
	c, err := svc.Append(ctx, 1, sipRecordFixture(3000))
	require.NoError(t, err)

	records, err := svc.ReadAll(ctx, 1)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, c.ID, records[0].ID)
	assert.Equal(t, b.ID, records[1].ID)
	assert.Equal(t, a.ID, records[2].ID)

	assert.Equal(t, models.CalculationSIP, records[0].Type)
	assert.Equal(t, models.CalculationSWP, records[1].Type)
	require.NotNil(t, records[1].SWP)
	assert.Nil(t, records[1].SIP)
	assert.Equal(t, int64(1200000), records[1].SWP.Results.TotalWithdrawals)
}

func TestHistoryService_AppendStampsIDAndDate(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	svc := &historyService{kv: storage.NewMemoryKV(), now: func() time.Time { return fixed }}

	record, err := svc.Append(ctx, 7, sipRecordFixture(1000))
	require.NoError(t, err)

	assert.Equal(t, "1741964966000", record.ID)
	assert.Equal(t, fixed.Format(time.RFC3339), record.Date)
}

func TestHistoryService_ReadAllEmptyWhenAbsent(t *testing.T) {
	ctx := context.Background()
	svc := NewHistoryService(storage.NewMemoryKV())

	records, err := svc.ReadAll(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestHistoryService_CorruptBlobReadsAsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, "calculationHistory:1", "{not json"))

	svc := NewHistoryService(kv)

	records, err := svc.ReadAll(ctx, 1)
	require.NoError(t, err, "corrupt history must be silently recovered, not surfaced")
	assert.Empty(t, records)

	// Appending over a corrupt blob starts a fresh log.
	_, err = svc.Append(ctx, 1, sipRecordFixture(1000))
	require.NoError(t, err)
	records, err = svc.ReadAll(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestHistoryService_ClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := NewHistoryService(storage.NewMemoryKV())

	_, err := svc.Append(ctx, 1, sipRecordFixture(1000))
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, 1))
	require.NoError(t, svc.Clear(ctx, 1), "clearing twice must be a no-op the second time")

	records, err := svc.ReadAll(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestHistoryService_StorageFailuresPropagate(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk on fire")

	t.Run("read failure", func(t *testing.T) {
		svc := NewHistoryService(&failingKV{KVStore: storage.NewMemoryKV(), getErr: boom})
		_, err := svc.ReadAll(ctx, 1)
		require.ErrorIs(t, err, ErrHistoryUnavailable)
	})

	t.Run("write failure drops the record and keeps prior state", func(t *testing.T) {
		kv := storage.NewMemoryKV()
		svc := NewHistoryService(kv)
		_, err := svc.Append(ctx, 1, sipRecordFixture(1000))
		require.NoError(t, err)

		failing := NewHistoryService(&failingKV{KVStore: kv, setErr: boom})
		_, err = failing.Append(ctx, 1, sipRecordFixture(2000))
		require.ErrorIs(t, err, ErrHistoryUnavailable)

		records, err := svc.ReadAll(ctx, 1)
		require.NoError(t, err)
		require.Len(t, records, 1, "failed append must leave the persisted log untouched")
	})

	t.Run("delete failure", func(t *testing.T) {
		svc := NewHistoryService(&failingKV{KVStore: storage.NewMemoryKV(), deleteErr: boom})
		require.ErrorIs(t, svc.Clear(ctx, 1), ErrHistoryUnavailable)
	})
}

func TestHistoryService_RejectsMalformedRecords(t *testing.T) {
	ctx := context.Background()
	svc := NewHistoryService(storage.NewMemoryKV())

	// Type tag and payload must agree.
	bad := sipRecordFixture(1000)
	bad.Type = models.CalculationSWP
	_, err := svc.Append(ctx, 1, bad)
	require.Error(t, err)

	records, err := svc.ReadAll(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestHistoryService_UsersAreIsolated(t *testing.T) {
	ctx := context.Background()
	svc := NewHistoryService(storage.NewMemoryKV())

	_, err := svc.Append(ctx, 1, sipRecordFixture(1000))
	require.NoError(t, err)
	_, err = svc.Append(ctx, 2, swpRecordFixture())
	require.NoError(t, err)

	records1, err := svc.ReadAll(ctx, 1)
	require.NoError(t, err)
	records2, err := svc.ReadAll(ctx, 2)
	require.NoError(t, err)

	require.Len(t, records1, 1)
	require.Len(t, records2, 1)
	assert.Equal(t, models.CalculationSIP, records1[0].Type)
	assert.Equal(t, models.CalculationSWP, records2[0].Type)

	require.NoError(t, svc.Clear(ctx, 1))
	records2, err = svc.ReadAll(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, records2, 1, "clearing one user must not touch another")
}

func TestHistoryService_ConcurrentAppendsLoseNothing(t *testing.T) {
	ctx := context.Background()
	svc := NewHistoryService(storage.NewMemoryKV())

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Append(ctx, 1, sipRecordFixture(1000))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	records, err := svc.ReadAll(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, records, n, "the append lock must prevent lost updates")
}
