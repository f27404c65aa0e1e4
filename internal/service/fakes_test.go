package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"fsnb-matcher-be/internal/entity"
	"fsnb-matcher-be/internal/repository/contract"
	"fsnb-matcher-be/internal/repository/specification"
	"fsnb-matcher-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// In-memory stand-ins for the persistence layer. Each fake records just
// enough call state for the assertions that need it.

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type fakeEmbeddingProvider struct {
	vector []float32
	err    error
	calls  int
}

func (f *fakeEmbeddingProvider) Embed(_ context.Context, _ string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

func (f *fakeEmbeddingProvider) ModelVersion() string { return "fake/v1" }

type fakeCatalogItemRepo struct {
	items map[int64]*entity.CatalogItem

	lexicalResults []*entity.CatalogItem
	lexicalCalls   int
	existsCalls    int
}

func (f *fakeCatalogItemRepo) Create(_ context.Context, item *entity.CatalogItem) error {
	f.items[item.Id] = item
	return nil
}

func (f *fakeCatalogItemRepo) CreateBulk(_ context.Context, items []*entity.CatalogItem) error {
	for _, it := range items {
		f.items[it.Id] = it
	}
	return nil
}

func (f *fakeCatalogItemRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.items)), nil
}

func (f *fakeCatalogItemRepo) FindByIDs(_ context.Context, ids []int64) (map[int64]*entity.CatalogItem, error) {
	out := map[int64]*entity.CatalogItem{}
	for _, id := range ids {
		if item, ok := f.items[id]; ok {
			out[id] = item
		}
	}
	return out, nil
}

func (f *fakeCatalogItemRepo) FindExistingIDs(_ context.Context, ids []int64) (map[int64]bool, error) {
	f.existsCalls++
	out := map[int64]bool{}
	for _, id := range ids {
		if _, ok := f.items[id]; ok {
			out[id] = true
		}
	}
	return out, nil
}

func (f *fakeCatalogItemRepo) LexicalSearch(_ context.Context, _ string, _ int) ([]*entity.CatalogItem, error) {
	f.lexicalCalls++
	return f.lexicalResults, nil
}

type fakeCatalogEmbeddingRepo struct {
	scored []*contract.ScoredCatalogItem
	err    error
}

func (f *fakeCatalogEmbeddingRepo) Create(_ context.Context, _ *entity.CatalogEmbedding) error {
	return nil
}

func (f *fakeCatalogEmbeddingRepo) CreateBulk(_ context.Context, _ []*entity.CatalogEmbedding) error {
	return nil
}

func (f *fakeCatalogEmbeddingRepo) Count(_ context.Context) (int64, error) { return 0, nil }

func (f *fakeCatalogEmbeddingRepo) SearchSimilar(_ context.Context, _ []float32, _ int) ([]*contract.ScoredCatalogItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.scored, nil
}

type fakeSessionRepo struct {
	sessions  map[uuid.UUID]*entity.ReviewSession
	statuses  map[uuid.UUID]entity.SessionStatus
	listSpecs []specification.Specification
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{
		sessions: map[uuid.UUID]*entity.ReviewSession{},
		statuses: map[uuid.UUID]entity.SessionStatus{},
	}
}

func (f *fakeSessionRepo) Create(_ context.Context, session *entity.ReviewSession) error {
	f.sessions[session.Id] = session
	f.statuses[session.Id] = session.Status
	return nil
}

func (f *fakeSessionRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.ReviewSession, error) {
	stored, ok := f.sessions[id]
	if !ok {
		return nil, nil
	}
	clone := *stored
	clone.Status = f.statuses[id]
	return &clone, nil
}

func (f *fakeSessionRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.ReviewSession, error) {
	f.listSpecs = specs
	var out []*entity.ReviewSession
	for id, stored := range f.sessions {
		clone := *stored
		clone.Status = f.statuses[id]
		clone.Rows = nil
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeSessionRepo) MarkCommitted(_ context.Context, id uuid.UUID, _ time.Time) (bool, error) {
	if f.statuses[id] != entity.SessionOpen {
		return false, nil
	}
	f.statuses[id] = entity.SessionCommitted
	return true, nil
}

type fakeRowRepo struct {
	updates []*entity.ReviewRow
}

func (f *fakeRowRepo) CreateBulk(_ context.Context, _ []*entity.ReviewRow) error { return nil }

func (f *fakeRowRepo) Update(_ context.Context, row *entity.ReviewRow) error {
	f.updates = append(f.updates, row)
	return nil
}

type fakeRecordRepo struct {
	records   []*entity.TrainingRecord
	createErr error
}

func (f *fakeRecordRepo) CreateBulk(_ context.Context, records []*entity.TrainingRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.records = append(f.records, records...)
	return nil
}

func (f *fakeRecordRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.TrainingRecord, error) {
	return f.records, nil
}

func (f *fakeRecordRepo) CountBySession(_ context.Context, sessionId uuid.UUID) (int64, error) {
	var n int64
	for _, rec := range f.records {
		if rec.SessionId == sessionId {
			n++
		}
	}
	return n, nil
}

type fakeUow struct {
	items      *fakeCatalogItemRepo
	embeddings *fakeCatalogEmbeddingRepo
	sessions   *fakeSessionRepo
	rows       *fakeRowRepo
	records    *fakeRecordRepo

	begun      int
	committed  int
	rolledBack int
}

func newFakeUow() *fakeUow {
	return &fakeUow{
		items:      &fakeCatalogItemRepo{items: map[int64]*entity.CatalogItem{}},
		embeddings: &fakeCatalogEmbeddingRepo{},
		sessions:   newFakeSessionRepo(),
		rows:       &fakeRowRepo{},
		records:    &fakeRecordRepo{},
	}
}

func (f *fakeUow) Begin(_ context.Context) error {
	f.begun++
	return nil
}

func (f *fakeUow) Commit() error {
	f.committed++
	return nil
}

func (f *fakeUow) Rollback() error {
	f.rolledBack++
	// A rolled-back commit must not leave records behind.
	f.records.records = nil
	return nil
}

func (f *fakeUow) CatalogItemRepository() contract.CatalogItemRepository { return f.items }
func (f *fakeUow) CatalogEmbeddingRepository() contract.CatalogEmbeddingRepository {
	return f.embeddings
}
func (f *fakeUow) ReviewSessionRepository() contract.ReviewSessionRepository { return f.sessions }
func (f *fakeUow) ReviewRowRepository() contract.ReviewRowRepository         { return f.rows }
func (f *fakeUow) TrainingRecordRepository() contract.TrainingRecordRepository {
	return f.records
}

type fakeFactory struct {
	uow *fakeUow
}

func (f *fakeFactory) NewUnitOfWork(_ context.Context) unitofwork.UnitOfWork { return f.uow }

var errIndexDown = errors.New("connection refused")

func strPtr(v string) *string { return &v }
func idPtr(v int64) *int64    { return &v }

func catalogItem(id int64, code, name, unit string) *entity.CatalogItem {
	return &entity.CatalogItem{
		Id:   id,
		Code: code,
		Name: name,
		Unit: strPtr(unit),
		Type: "work",
	}
}
