package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/username/finplan/backend/src/logger"
	"github.com/username/finplan/backend/src/models"
	"github.com/username/finplan/backend/src/storage"
)

// historyKeyPrefix namespaces the per-user history blobs in the KV store.
// Each user's full log lives under a single key as one JSON array,
// newest-first; every append rewrites the whole blob.
const historyKeyPrefix = "calculationHistory"

type historyService struct {
	kv  storage.KVStore
	now func() time.Time

	// Serializes the read-modify-write in Append. Without it, two
	// concurrent appends race and the second write silently drops the
	// first record (lost update).
	mu sync.Mutex
}

// NewHistoryService returns a HistoryService persisting through kv.
func NewHistoryService(kv storage.KVStore) HistoryService {
	return &historyService{kv: kv, now: time.Now}
}

func historyKey(userID int64) string {
	return fmt.Sprintf("%s:%d", historyKeyPrefix, userID)
}

// Append stamps the record with a timestamp-derived ID and creation date,
// prepends it to the user's log and writes the full log back. On storage
// failure the prior persisted log is untouched and the record is dropped;
// the caller surfaces the error, nothing is retried or queued.
func (s *historyService) Append(ctx context.Context, userID int64, record models.CalculationRecord) (models.CalculationRecord, error) {
	if err := record.Validate(); err != nil {
		return models.CalculationRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readLog(ctx, userID)
	if err != nil {
		return models.CalculationRecord{}, fmt.Errorf("%w: %v", ErrHistoryUnavailable, err)
	}

	now := s.now()
	record.ID = strconv.FormatInt(now.UnixMilli(), 10)
	record.Date = now.Format(time.RFC3339)

	records = append([]models.CalculationRecord{record}, records...)

	payload, err := json.Marshal(records)
	if err != nil {
		return models.CalculationRecord{}, fmt.Errorf("%w: marshal history: %v", ErrHistoryUnavailable, err)
	}
	if err := s.kv.Set(ctx, historyKey(userID), string(payload)); err != nil {
		return models.CalculationRecord{}, fmt.Errorf("%w: %v", ErrHistoryUnavailable, err)
	}

	return record, nil
}

// ReadAll returns the persisted log, newest-first. An absent key yields an
// empty log; so does a corrupt blob (logged at WARN, never surfaced).
func (s *historyService) ReadAll(ctx context.Context, userID int64) ([]models.CalculationRecord, error) {
	records, err := s.readLog(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHistoryUnavailable, err)
	}
	return records, nil
}

// Clear deletes the user's history key entirely. Clearing an already-empty
// history is a no-op.
func (s *historyService) Clear(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(ctx, historyKey(userID)); err != nil {
		return fmt.Errorf("%w: %v", ErrHistoryUnavailable, err)
	}
	return nil
}

// readLog loads and decodes the stored blob. Unparseable data is treated
// as an empty log: history is a convenience record, and refusing to load
// the calculators over a bad blob would be worse than losing it.
func (s *historyService) readLog(ctx context.Context, userID int64) ([]models.CalculationRecord, error) {
	raw, ok, err := s.kv.Get(ctx, historyKey(userID))
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return []models.CalculationRecord{}, nil
	}

	var records []models.CalculationRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		logger.FromContext(ctx).Warn("Corrupt calculation history blob, treating as empty",
			"userID", userID, "error", err)
		return []models.CalculationRecord{}, nil
	}
	return records, nil
}
