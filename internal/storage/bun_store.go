package storage

import (
	"context"
	"database/sql"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-scribe/internal/identity"
	"github.com/goliatone/go-scribe/internal/logging"
	"github.com/goliatone/go-scribe/pkg/interfaces"
)

// Record is the SQL row backing one store key.
type Record struct {
	bun.BaseModel `bun:"table:scribe_records,alias:sr"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Key       string    `bun:"storage_key,notnull,unique" json:"key"`
	Value     string    `bun:"value,type:text,notnull" json:"value"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// NewRecordRepository builds the go-repository-bun repository for records.
// Records are addressed by storage key.
func NewRecordRepository(db *bun.DB) repository.Repository[*Record] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Record]{
		NewRecord: func() *Record { return &Record{} },
		GetID: func(rec *Record) uuid.UUID {
			return rec.ID
		},
		SetID: func(rec *Record, id uuid.UUID) {
			rec.ID = id
		},
		GetIdentifier: func() string {
			return "storage_key"
		},
		GetIdentifierValue: func(rec *Record) string {
			return rec.Key
		},
	})
}

// BunStore implements Store over a SQL table through go-repository-bun, with
// optional go-repository-cache caching.
type BunStore struct {
	db          *bun.DB
	repo        repository.Repository[*Record]
	broadcaster *changeBroadcaster
	logger      interfaces.Logger
	now         func() time.Time
	// writes serialises read-modify-write cycles within this process.
	writes sync.Mutex
}

var _ Store = (*BunStore)(nil)

// BunOption configures a BunStore.
type BunOption func(*bunConfig)

type bunConfig struct {
	cacheService cache.CacheService
	serializer   cache.KeySerializer
	logger       interfaces.Logger
	now          func() time.Time
}

// WithCache wraps the record repository with go-repository-cache.
func WithCache(cacheService cache.CacheService, serializer cache.KeySerializer) BunOption {
	return func(cfg *bunConfig) {
		cfg.cacheService = cacheService
		cfg.serializer = serializer
	}
}

// WithStoreLogger sets the store logger.
func WithStoreLogger(logger interfaces.Logger) BunOption {
	return func(cfg *bunConfig) {
		cfg.logger = logger
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) BunOption {
	return func(cfg *bunConfig) {
		cfg.now = now
	}
}

// NewBunStore constructs a SQL-backed store. The records table must exist,
// see Migrate.
func NewBunStore(db *bun.DB, opts ...BunOption) *BunStore {
	cfg := bunConfig{now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	base := NewRecordRepository(db)
	if cfg.cacheService != nil && cfg.serializer != nil {
		base = repositorycache.New(base, cfg.cacheService, cfg.serializer)
	}
	if cfg.now == nil {
		cfg.now = time.Now
	}

	return &BunStore{
		db:          db,
		repo:        base,
		broadcaster: newChangeBroadcaster(),
		logger:      logging.Ensure(cfg.logger),
		now:         cfg.now,
	}
}

// Load returns the value stored under key.
func (s *BunStore) Load(ctx context.Context, key string) ([]byte, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return nil, err
	}
	rec, err := s.repo.GetByIdentifier(ctx, key)
	if err != nil {
		return nil, mapRepositoryError(err, key)
	}
	return []byte(rec.Value), nil
}

// Save creates or updates the record for key.
func (s *BunStore) Save(ctx context.Context, key string, value []byte) error {
	key, err := normalizeKey(key)
	if err != nil {
		return err
	}

	s.writes.Lock()
	defer s.writes.Unlock()

	existing, err := s.repo.GetByIdentifier(ctx, key)
	if err != nil && !isNotFound(err) {
		return mapRepositoryError(err, key)
	}

	now := s.now().UTC()
	if existing == nil || err != nil {
		rec := &Record{
			ID:        identity.RecordUUID(key),
			Key:       key,
			Value:     string(value),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := s.repo.Create(ctx, rec); err != nil {
			return mapRepositoryError(err, key)
		}
		s.logger.Debug("storage.record.created", "key", key, "bytes", len(value))
		s.broadcaster.Broadcast(ChangeEvent{Type: ChangeCreated, Key: key})
		return nil
	}

	if existing.Value == string(value) {
		return nil
	}
	existing.Value = string(value)
	existing.UpdatedAt = now
	if _, err := s.repo.Update(ctx, existing,
		repository.UpdateByID(existing.ID.String()),
		repository.UpdateColumns("value", "updated_at"),
	); err != nil {
		return mapRepositoryError(err, key)
	}
	s.logger.Debug("storage.record.updated", "key", key, "bytes", len(value))
	s.broadcaster.Broadcast(ChangeEvent{Type: ChangeUpdated, Key: key})
	return nil
}

// Delete removes the record for key or returns ErrNotFound.
func (s *BunStore) Delete(ctx context.Context, key string) error {
	key, err := normalizeKey(key)
	if err != nil {
		return err
	}

	s.writes.Lock()
	defer s.writes.Unlock()

	rec, err := s.repo.GetByIdentifier(ctx, key)
	if err != nil {
		return mapRepositoryError(err, key)
	}
	if err := s.repo.Delete(ctx, rec); err != nil {
		return mapRepositoryError(err, key)
	}
	s.logger.Debug("storage.record.deleted", "key", key)
	s.broadcaster.Broadcast(ChangeEvent{Type: ChangeDeleted, Key: key})
	return nil
}

// Keys lists keys with prefix in ascending order.
func (s *BunStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	records, err := s.list(ctx, prefix)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(records))
	for _, rec := range records {
		keys = append(keys, rec.Key)
	}
	slices.Sort(keys)
	return keys, nil
}

// Clear deletes every record through the repository so cached entries are
// invalidated as well.
func (s *BunStore) Clear(ctx context.Context) error {
	s.writes.Lock()
	defer s.writes.Unlock()

	records, err := s.list(ctx, "")
	if err != nil {
		return err
	}
	slices.SortFunc(records, func(a, b *Record) int {
		return strings.Compare(a.Key, b.Key)
	})
	for _, rec := range records {
		if err := s.repo.Delete(ctx, rec); err != nil {
			return mapRepositoryError(err, rec.Key)
		}
		s.broadcaster.Broadcast(ChangeEvent{Type: ChangeDeleted, Key: rec.Key})
	}
	s.logger.Info("storage.cleared", "records", len(records))
	return nil
}

// Subscribe delivers change events until the context is cancelled.
func (s *BunStore) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return s.broadcaster.Subscribe(ctx)
}

// list reads rows straight from the table, bypassing the cache. LIKE narrows
// the scan and the prefix is re-checked in Go, since "_" is a LIKE wildcard and
// SQLite compares ASCII case-insensitively.
func (s *BunStore) list(ctx context.Context, prefix string) ([]*Record, error) {
	var records []*Record
	query := s.db.NewSelect().Model(&records).OrderExpr("?TableAlias.storage_key ASC")
	if prefix != "" {
		query = query.Where("?TableAlias.storage_key LIKE ?", likePrefix(prefix))
	}
	if err := query.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	out := records[:0]
	for _, rec := range records {
		if strings.HasPrefix(rec.Key, prefix) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func likePrefix(prefix string) string {
	return strings.NewReplacer("%", "_").Replace(prefix) + "%"
}

func isNotFound(err error) bool {
	return goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) || errors.Is(err, sql.ErrNoRows)
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if isNotFound(err) {
		return ErrNotFound
	}
	return &RecordError{Key: key, Err: err}
}

// RecordError wraps a repository failure for key.
type RecordError struct {
	Key string
	Err error
}

func (e *RecordError) Error() string {
	return "storage: record " + e.Key + ": " + e.Err.Error()
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
