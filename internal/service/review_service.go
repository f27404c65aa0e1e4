package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fsnb-matcher-be/internal/config"
	"fsnb-matcher-be/internal/dto"
	"fsnb-matcher-be/internal/entity"
	"fsnb-matcher-be/internal/pkg/apperror"
	"fsnb-matcher-be/internal/pkg/logger"
	"fsnb-matcher-be/internal/repository/memory"
	"fsnb-matcher-be/internal/repository/specification"
	"fsnb-matcher-be/internal/repository/unitofwork"
	"fsnb-matcher-be/pkg/events"

	"github.com/google/uuid"
)

// SessionNotifier pushes row/session updates to live review tabs. The hub
// satisfies it; services tolerate a nil notifier (tests, CLI usage).
type SessionNotifier interface {
	NotifySession(sessionID uuid.UUID, eventType string, payload interface{})
}

const (
	wsEventRowUpdated       = "ROW_UPDATED"
	wsEventSessionCommitted = "SESSION_COMMITTED"
)

type IReviewService interface {
	// CreateSession matches every uploaded row and opens a review session
	// over the results. Rows whose top candidate cleared the threshold
	// start pre-selected with label gold; the rest start as none_match.
	CreateSession(ctx context.Context, req dto.CreateReviewSessionRequest, createdBy string) (*entity.ReviewSession, error)

	GetSession(ctx context.Context, id uuid.UUID) (*entity.ReviewSession, error)

	// ListSessions returns session headers newest first, optionally filtered
	// by lifecycle status. Empty status means all sessions.
	ListSessions(ctx context.Context, status string) ([]*entity.ReviewSession, error)

	// SearchCandidates is the reviewer's ad-hoc catalog lookup. Queries
	// shorter than the configured minimum return an empty result without
	// touching the database.
	SearchCandidates(ctx context.Context, query string) ([]*entity.CatalogItem, error)

	// RematchRow re-runs retrieval for one row and replaces its candidate
	// list. Selection, label and negatives are untouched.
	RematchRow(ctx context.Context, sessionID uuid.UUID, rowIdx int) (*entity.ReviewRow, error)

	// SelectRow applies the reviewer's pick; nil itemId means "no match".
	SelectRow(ctx context.Context, sessionID uuid.UUID, rowIdx int, itemId *int64) (*entity.ReviewRow, error)

	SetLabel(ctx context.Context, sessionID uuid.UUID, rowIdx int, label string) (*entity.ReviewRow, error)
	SetNote(ctx context.Context, sessionID uuid.UUID, rowIdx int, note *string) (*entity.ReviewRow, error)

	// Commit atomically snapshots every row into training records and closes
	// the session. Either all records land and the session closes, or
	// nothing changes.
	Commit(ctx context.Context, sessionID uuid.UUID, committedBy string) (*entity.ReviewSession, error)

	// RenderReport renders the VOR workbook of a committed session. Returns
	// the xlsx bytes and the download filename.
	RenderReport(ctx context.Context, sessionID uuid.UUID) ([]byte, string, error)
}

type reviewService struct {
	uowFactory unitofwork.RepositoryFactory
	matcher    IMatcherService
	reports    IReportService
	publisher  IPublisherService
	locks      *memory.SessionLockRegistry
	notifier   SessionNotifier
	cfg        config.MatcherConfig
	log        logger.ILogger
}

func NewReviewService(
	uowFactory unitofwork.RepositoryFactory,
	matcher IMatcherService,
	reports IReportService,
	publisher IPublisherService,
	locks *memory.SessionLockRegistry,
	notifier SessionNotifier,
	cfg config.MatcherConfig,
	log logger.ILogger,
) IReviewService {
	return &reviewService{
		uowFactory: uowFactory,
		matcher:    matcher,
		reports:    reports,
		publisher:  publisher,
		locks:      locks,
		notifier:   notifier,
		cfg:        cfg,
		log:        log,
	}
}

func (s *reviewService) CreateSession(ctx context.Context, req dto.CreateReviewSessionRequest, createdBy string) (*entity.ReviewSession, error) {
	matched, err := s.matcher.MatchRows(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	session := &entity.ReviewSession{
		Id:         uuid.New(),
		SourceName: strings.TrimSpace(req.SourceName),
		CreatedBy:  createdBy,
		Status:     entity.SessionOpen,
		CreatedAt:  time.Now().UTC(),
	}

	for i, m := range matched {
		row := &entity.ReviewRow{
			Id:                 uuid.New(),
			SessionId:          session.Id,
			RowIdx:             i,
			Caption:            m.Caption,
			Units:              m.Units,
			Qty:                m.Qty,
			Candidates:         m.Candidates,
			AutoSelectedItemId: m.AutoSelectedItemId,
			Label:              entity.LabelNoneMatch,
			CreatedAt:          session.CreatedAt,
		}
		if m.AutoSelectedItemId != nil {
			id := *m.AutoSelectedItemId
			row.SelectedItemId = &id
			row.Label = entity.LabelGold
		}
		session.Rows = append(session.Rows, row)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ReviewSessionRepository().Create(ctx, session); err != nil {
		return nil, apperror.Wrap(apperror.CodeInternal, "failed to create review session", err)
	}

	s.log.Info("review", "session created", map[string]interface{}{
		"session_id": session.Id,
		"rows":       len(session.Rows),
		"created_by": createdBy,
	})
	return session, nil
}

func (s *reviewService) GetSession(ctx context.Context, id uuid.UUID) (*entity.ReviewSession, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.ReviewSessionRepository().FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeInternal, "failed to load review session", err)
	}
	if session == nil {
		return nil, apperror.Newf(apperror.CodeUnknownSession, "session %s does not exist", id)
	}
	return session, nil
}

func (s *reviewService) ListSessions(ctx context.Context, status string) ([]*entity.ReviewSession, error) {
	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if status != "" {
		switch entity.SessionStatus(status) {
		case entity.SessionOpen, entity.SessionCommitted:
			specs = append(specs, specification.ByStatus{Status: status})
		default:
			return nil, apperror.Newf(apperror.CodeInvalidInput, "unknown session status %q", status)
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.ReviewSessionRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeInternal, "failed to list review sessions", err)
	}
	return sessions, nil
}

func (s *reviewService) SearchCandidates(ctx context.Context, query string) ([]*entity.CatalogItem, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < s.cfg.LexicalMinQueryLen {
		return []*entity.CatalogItem{}, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	items, err := uow.CatalogItemRepository().LexicalSearch(ctx, query, s.cfg.LexicalSearchLimit)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeInternal, "catalog search failed", err)
	}
	return items, nil
}

// mutateRow serializes one row mutation under the session lock: load, check
// open, apply, persist, notify.
func (s *reviewService) mutateRow(ctx context.Context, sessionID uuid.UUID, rowIdx int, apply func(*entity.ReviewRow) error) (*entity.ReviewRow, error) {
	lock := s.locks.Get(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.EnsureOpen(); err != nil {
		return nil, err
	}

	row, err := session.Row(rowIdx)
	if err != nil {
		return nil, err
	}

	if err := apply(row); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	row.UpdatedAt = &now

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ReviewRowRepository().Update(ctx, row); err != nil {
		return nil, apperror.Wrap(apperror.CodeInternal, "failed to persist row", err)
	}

	if s.notifier != nil {
		s.notifier.NotifySession(sessionID, wsEventRowUpdated, map[string]interface{}{
			"row_idx":          row.RowIdx,
			"selected_item_id": row.SelectedItemId,
			"label":            row.Label,
			"negatives":        row.Negatives,
			"note":             row.Note,
		})
	}
	return row, nil
}

func (s *reviewService) RematchRow(ctx context.Context, sessionID uuid.UUID, rowIdx int) (*entity.ReviewRow, error) {
	return s.mutateRow(ctx, sessionID, rowIdx, func(row *entity.ReviewRow) error {
		candidates, _, err := s.matcher.Match(ctx, row.Caption)
		if err != nil {
			return err
		}
		row.ReplaceCandidates(candidates)
		return nil
	})
}

func (s *reviewService) SelectRow(ctx context.Context, sessionID uuid.UUID, rowIdx int, itemId *int64) (*entity.ReviewRow, error) {
	return s.mutateRow(ctx, sessionID, rowIdx, func(row *entity.ReviewRow) error {
		if itemId != nil {
			// Picks may come from lexical search, so the id is not
			// guaranteed to be in the candidate list. It must exist.
			uow := s.uowFactory.NewUnitOfWork(ctx)
			existing, err := uow.CatalogItemRepository().FindExistingIDs(ctx, []int64{*itemId})
			if err != nil {
				return apperror.Wrap(apperror.CodeInternal, "catalog lookup failed", err)
			}
			if !existing[*itemId] {
				return apperror.Newf(apperror.CodeInvalidInput, "catalog item %d does not exist", *itemId)
			}
		}
		row.Select(itemId)
		return nil
	})
}

func (s *reviewService) SetLabel(ctx context.Context, sessionID uuid.UUID, rowIdx int, label string) (*entity.ReviewRow, error) {
	return s.mutateRow(ctx, sessionID, rowIdx, func(row *entity.ReviewRow) error {
		return row.SetLabel(entity.Label(label))
	})
}

func (s *reviewService) SetNote(ctx context.Context, sessionID uuid.UUID, rowIdx int, note *string) (*entity.ReviewRow, error) {
	return s.mutateRow(ctx, sessionID, rowIdx, func(row *entity.ReviewRow) error {
		row.SetNote(note)
		return nil
	})
}

func (s *reviewService) Commit(ctx context.Context, sessionID uuid.UUID, committedBy string) (*entity.ReviewSession, error) {
	lock := s.locks.Get(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.EnsureOpen(); err != nil {
		return nil, err
	}

	if err := s.validateForCommit(ctx, session); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	records := make([]*entity.TrainingRecord, 0, len(session.Rows))
	for _, row := range session.Rows {
		records = append(records, entity.NewTrainingRecord(session, row, committedBy))
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Wrap(apperror.CodeInternal, "failed to start commit", err)
	}

	if err := uow.TrainingRecordRepository().CreateBulk(ctx, records); err != nil {
		_ = uow.Rollback()
		return nil, apperror.Wrap(apperror.CodeInternal, "failed to write training records", err)
	}

	committed, err := uow.ReviewSessionRepository().MarkCommitted(ctx, session.Id, now)
	if err != nil {
		_ = uow.Rollback()
		return nil, apperror.Wrap(apperror.CodeInternal, "failed to close session", err)
	}
	if !committed {
		// Lost the open -> committed race; the other commit's records stand.
		_ = uow.Rollback()
		return nil, apperror.Newf(apperror.CodeSessionClosed, "session %s is already committed", session.Id)
	}

	if err := uow.Commit(); err != nil {
		return nil, apperror.Wrap(apperror.CodeInternal, "commit transaction failed", err)
	}

	_ = session.MarkCommitted(now)

	s.log.Info("review", "session committed", map[string]interface{}{
		"session_id":   session.Id,
		"rows":         len(session.Rows),
		"committed_by": committedBy,
	})

	if s.publisher != nil {
		event := events.NewSessionCommitted(session.Id.String(), session.SourceName, len(session.Rows), committedBy)
		if err := s.publisher.PublishEvent(ctx, event); err != nil {
			s.log.Warn("review", "failed to publish commit event", map[string]interface{}{
				"session_id": session.Id,
				"error":      err.Error(),
			})
		}
	}

	if s.notifier != nil {
		s.notifier.NotifySession(session.Id, wsEventSessionCommitted, map[string]interface{}{
			"session_id":   session.Id,
			"committed_at": session.CommittedAt,
		})
	}
	return session, nil
}

// validateForCommit re-checks every row right before the snapshot: the
// selection/label invariant must hold and every selected item must still
// exist in the catalog. All offending rows are reported at once.
func (s *reviewService) validateForCommit(ctx context.Context, session *entity.ReviewSession) error {
	var inconsistent []int
	selected := make([]int64, 0, len(session.Rows))
	for _, row := range session.Rows {
		if !row.ConsistencyOK() {
			inconsistent = append(inconsistent, row.RowIdx)
		}
		if row.SelectedItemId != nil {
			selected = append(selected, *row.SelectedItemId)
		}
	}
	if len(inconsistent) > 0 {
		return apperror.New(apperror.CodeInconsistentLabel, "rows violate the selection/label invariant").
			WithDetails(map[string]interface{}{"row_idx": inconsistent})
	}

	if len(selected) == 0 {
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	existing, err := uow.CatalogItemRepository().FindExistingIDs(ctx, selected)
	if err != nil {
		return apperror.Wrap(apperror.CodeInternal, "catalog existence check failed", err)
	}

	var stale []int
	for _, row := range session.Rows {
		if row.SelectedItemId != nil && !existing[*row.SelectedItemId] {
			stale = append(stale, row.RowIdx)
		}
	}
	if len(stale) > 0 {
		return apperror.New(apperror.CodeStaleSelection, "selected catalog items no longer exist").
			WithDetails(map[string]interface{}{"row_idx": stale})
	}
	return nil
}

func (s *reviewService) RenderReport(ctx context.Context, sessionID uuid.UUID) ([]byte, string, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}
	if session.Status != entity.SessionCommitted {
		return nil, "", apperror.Newf(apperror.CodeInvalidInput, "session %s is not committed yet", sessionID)
	}

	ids := make([]int64, 0, len(session.Rows))
	for _, row := range session.Rows {
		if row.SelectedItemId != nil {
			ids = append(ids, *row.SelectedItemId)
		}
	}

	meta := map[int64]*entity.CatalogItem{}
	if len(ids) > 0 {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		meta, err = uow.CatalogItemRepository().FindByIDs(ctx, ids)
		if err != nil {
			return nil, "", apperror.Wrap(apperror.CodeInternal, "catalog lookup failed", err)
		}
	}

	data, err := s.reports.BuildSessionReport(session, meta)
	if err != nil {
		return nil, "", err
	}
	return data, fmt.Sprintf("VOR_%s.xlsx", session.Id), nil
}
