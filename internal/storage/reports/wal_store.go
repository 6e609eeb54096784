// Package reports journals produced market and stock reports in an
// append-only write-ahead log.
package reports

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"
	"github.com/vadiminshakov/marketpulse/internal/domain"
)

const (
	DefaultDir   = "./wal/reports"
	segmentLimit = 100
	maxSegments  = 10

	marketKeyPrefix = "market_report_"
	stockKeyPrefix  = "stock_report_"
)

// ErrNotInitialized is returned by every method of a nil or closed store.
var ErrNotInitialized = errors.New("report store is not initialized")

// Kind report type stored in a record.
type Kind string

const (
	KindMarket Kind = "market"
	KindStock  Kind = "stock"
)

// Record journaled report with its WAL position.
type Record struct {
	Index     uint64               `json:"-"`
	ID        uuid.UUID            `json:"id"`
	Kind      Kind                 `json:"kind"`
	Symbol    string               `json:"symbol,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	Market    *domain.MarketReport `json:"market,omitempty"`
	Stock     *domain.StockReport  `json:"stock,omitempty"`
}

// WALStore persists reports in a WAL.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
	now func() time.Time
}

// NewWALStore initializes a WAL-backed report store under the provided directory.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = DefaultDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "report_",
		SegmentThreshold: segmentLimit,
		MaxSegments:      maxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init report WAL")
	}

	return &WALStore{wal: wal, now: time.Now}, nil
}

// SaveMarket writes a market report and returns its record ID.
func (s *WALStore) SaveMarket(report domain.MarketReport) (uuid.UUID, error) {
	return s.save(marketKeyPrefix+"all", Record{
		Kind:   KindMarket,
		Market: &report,
	})
}

// SaveStock writes a stock report and returns its record ID.
func (s *WALStore) SaveStock(report domain.StockReport) (uuid.UUID, error) {
	if report.Symbol == "" {
		return uuid.Nil, errors.New("stock report symbol is required")
	}
	return s.save(stockKeyPrefix+report.Symbol, Record{
		Kind:   KindStock,
		Symbol: report.Symbol,
		Stock:  &report,
	})
}

func (s *WALStore) save(key string, rec Record) (uuid.UUID, error) {
	if s == nil || s.wal == nil {
		return uuid.Nil, ErrNotInitialized
	}

	rec.ID = uuid.New()
	rec.CreatedAt = s.now().UTC()

	payload, err := json.Marshal(rec)
	if err != nil {
		return uuid.Nil, errors.Wrapf(err, "marshal %s report", rec.Kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	if err := s.wal.Write(nextIndex, key, payload); err != nil {
		return uuid.Nil, errors.Wrapf(err, "write %s report", rec.Kind)
	}
	return rec.ID, nil
}

// RecordsAfter returns all reports written after the provided WAL index.
func (s *WALStore) RecordsAfter(index uint64) ([]Record, error) {
	if s == nil || s.wal == nil {
		return nil, ErrNotInitialized
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	records := make([]Record, 0, current-index)
	for idx := index + 1; idx <= current; idx++ {
		key, payload, err := s.wal.Get(idx)
		if err != nil {
			// compacted segment
			continue
		}
		if !strings.HasPrefix(key, marketKeyPrefix) && !strings.HasPrefix(key, stockKeyPrefix) {
			continue
		}

		var rec Record
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, errors.Wrapf(err, "decode report at index %d", idx)
		}
		rec.Index = idx
		records = append(records, rec)
	}

	return records, nil
}

// LatestStock returns the most recent report journaled for symbol.
func (s *WALStore) LatestStock(symbol string) (Record, bool, error) {
	records, err := s.RecordsAfter(0)
	if err != nil {
		return Record{}, false, err
	}
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].Kind == KindStock && records[i].Symbol == symbol {
			return records[i], true, nil
		}
	}
	return Record{}, false, nil
}

// CurrentIndex returns the latest WAL index stored.
func (s *WALStore) CurrentIndex() uint64 {
	if s == nil || s.wal == nil {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wal.CurrentIndex()
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return ErrNotInitialized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
