package service

import (
	"context"
	"strings"
	"testing"

	"fsnb-matcher-be/internal/dto"
	"fsnb-matcher-be/internal/entity"
	"fsnb-matcher-be/internal/pkg/apperror"
	"fsnb-matcher-be/internal/repository/memory"
	"fsnb-matcher-be/internal/repository/specification"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type matchResult struct {
	candidates []entity.Candidate
	auto       *int64
}

type fakeMatcher struct {
	byCaption map[string]matchResult
}

func (f *fakeMatcher) Match(_ context.Context, caption string) ([]entity.Candidate, *int64, error) {
	caption = strings.TrimSpace(caption)
	if caption == "" {
		return nil, nil, apperror.New(apperror.CodeInvalidInput, "caption must not be empty")
	}
	res := f.byCaption[caption]
	return res.candidates, res.auto, nil
}

func (f *fakeMatcher) MatchRows(ctx context.Context, rows []dto.SourceRowRequest) ([]*MatchedRow, error) {
	if len(rows) == 0 {
		return nil, apperror.New(apperror.CodeEmptyBatch, "batch contains no rows")
	}
	matched := make([]*MatchedRow, 0, len(rows))
	for _, row := range rows {
		candidates, auto, err := f.Match(ctx, row.Caption)
		if err != nil {
			return nil, err
		}
		matched = append(matched, &MatchedRow{
			Caption:            strings.TrimSpace(row.Caption),
			Units:              row.Units,
			Qty:                row.Qty,
			Candidates:         candidates,
			AutoSelectedItemId: auto,
		})
	}
	return matched, nil
}

type capturedNotification struct {
	sessionID uuid.UUID
	eventType string
}

type fakeNotifier struct {
	notifications []capturedNotification
}

func (f *fakeNotifier) NotifySession(sessionID uuid.UUID, eventType string, _ interface{}) {
	f.notifications = append(f.notifications, capturedNotification{sessionID, eventType})
}

type reviewFixture struct {
	uow      *fakeUow
	matcher  *fakeMatcher
	notifier *fakeNotifier
	svc      IReviewService
}

func newReviewFixture() *reviewFixture {
	uow := newFakeUow()
	uow.items.items[1] = catalogItem(1, "01-01-001", "Разработка грунта", "м3")
	uow.items.items[2] = catalogItem(2, "01-01-002", "Разработка грунта вручную", "м3")
	uow.items.items[3] = catalogItem(3, "02-01-001", "Устройство бетонной подготовки", "м3")

	matcher := &fakeMatcher{byCaption: map[string]matchResult{
		"Разработка грунта": {
			candidates: []entity.Candidate{
				{ItemId: 1, Code: "01-01-001", Name: "Разработка грунта", Score: 0.91, Rank: 1},
				{ItemId: 2, Code: "01-01-002", Name: "Разработка грунта вручную", Score: 0.74, Rank: 2},
			},
			auto: idPtr(1),
		},
		"Прочие работы": {
			candidates: []entity.Candidate{
				{ItemId: 3, Code: "02-01-001", Name: "Устройство бетонной подготовки", Score: 0.41, Rank: 1},
			},
		},
	}}

	notifier := &fakeNotifier{}
	publisher := NewPublisherService(
		gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{}),
		"review.commits",
	)

	svc := NewReviewService(
		&fakeFactory{uow: uow},
		matcher,
		NewReportService(),
		publisher,
		memory.NewSessionLockRegistry(),
		notifier,
		testMatcherConfig(),
		nopLogger{},
	)
	return &reviewFixture{uow: uow, matcher: matcher, notifier: notifier, svc: svc}
}

func (f *reviewFixture) createSession(t *testing.T) *entity.ReviewSession {
	t.Helper()
	session, err := f.svc.CreateSession(context.Background(), dto.CreateReviewSessionRequest{
		SourceName: "smeta_2024.xlsx",
		Items: []dto.SourceRowRequest{
			{Caption: "Разработка грунта", Units: strPtr("м3"), Qty: strPtr("100")},
			{Caption: "Прочие работы", Qty: strPtr("1")},
		},
	}, "reviewer@example.com")
	require.NoError(t, err)
	return session
}

func TestCreateSessionInitialState(t *testing.T) {
	f := newReviewFixture()
	session := f.createSession(t)

	assert.Equal(t, entity.SessionOpen, session.Status)
	assert.Equal(t, "smeta_2024.xlsx", session.SourceName)
	require.Len(t, session.Rows, 2)

	confident := session.Rows[0]
	require.NotNil(t, confident.SelectedItemId)
	assert.Equal(t, int64(1), *confident.SelectedItemId)
	assert.Equal(t, entity.LabelGold, confident.Label)
	require.NotNil(t, confident.AutoSelectedItemId)

	unmatched := session.Rows[1]
	assert.Nil(t, unmatched.SelectedItemId)
	assert.Equal(t, entity.LabelNoneMatch, unmatched.Label)
	assert.Len(t, unmatched.Candidates, 1, "low-score candidates stay visible for review")
}

func TestGetSessionUnknown(t *testing.T) {
	f := newReviewFixture()
	_, err := f.svc.GetSession(context.Background(), uuid.New())
	assert.True(t, apperror.IsCode(err, apperror.CodeUnknownSession))
}

func TestListSessions(t *testing.T) {
	t.Run("returns headers newest first without rows", func(t *testing.T) {
		f := newReviewFixture()
		session := f.createSession(t)

		sessions, err := f.svc.ListSessions(context.Background(), "")
		require.NoError(t, err)
		require.Len(t, sessions, 1)
		assert.Equal(t, session.Id, sessions[0].Id)
		assert.Empty(t, sessions[0].Rows)

		require.Len(t, f.uow.sessions.listSpecs, 1)
		order, ok := f.uow.sessions.listSpecs[0].(specification.OrderBy)
		require.True(t, ok)
		assert.Equal(t, "created_at", order.Field)
		assert.True(t, order.Desc)
	})

	t.Run("status filter is pushed into the query", func(t *testing.T) {
		f := newReviewFixture()
		f.createSession(t)

		_, err := f.svc.ListSessions(context.Background(), string(entity.SessionOpen))
		require.NoError(t, err)

		require.Len(t, f.uow.sessions.listSpecs, 2)
		assert.Equal(t, specification.ByStatus{Status: "open"}, f.uow.sessions.listSpecs[1])
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		f := newReviewFixture()

		_, err := f.svc.ListSessions(context.Background(), "archived")
		assert.True(t, apperror.IsCode(err, apperror.CodeInvalidInput))
		assert.Nil(t, f.uow.sessions.listSpecs)
	})
}

func TestSelectRow(t *testing.T) {
	t.Run("override records the auto pick as negative once", func(t *testing.T) {
		f := newReviewFixture()
		session := f.createSession(t)

		row, err := f.svc.SelectRow(context.Background(), session.Id, 0, idPtr(2))
		require.NoError(t, err)
		assert.Equal(t, []int64{1}, row.Negatives)
		assert.Equal(t, entity.LabelGold, row.Label)

		// Same override again: the negative set must not grow.
		row, err = f.svc.SelectRow(context.Background(), session.Id, 0, idPtr(2))
		require.NoError(t, err)
		assert.Equal(t, []int64{1}, row.Negatives)

		assert.Len(t, f.uow.rows.updates, 2, "each mutation persists the row")
	})

	t.Run("clearing a selection yields none_match", func(t *testing.T) {
		f := newReviewFixture()
		session := f.createSession(t)

		row, err := f.svc.SelectRow(context.Background(), session.Id, 0, nil)
		require.NoError(t, err)
		assert.Nil(t, row.SelectedItemId)
		assert.Equal(t, entity.LabelNoneMatch, row.Label)
	})

	t.Run("rejects a nonexistent catalog item", func(t *testing.T) {
		f := newReviewFixture()
		session := f.createSession(t)

		_, err := f.svc.SelectRow(context.Background(), session.Id, 0, idPtr(777))
		assert.True(t, apperror.IsCode(err, apperror.CodeInvalidInput))
		assert.Empty(t, f.uow.rows.updates, "nothing persisted on rejection")
	})

	t.Run("rejects an unknown row index", func(t *testing.T) {
		f := newReviewFixture()
		session := f.createSession(t)

		_, err := f.svc.SelectRow(context.Background(), session.Id, 9, idPtr(1))
		assert.True(t, apperror.IsCode(err, apperror.CodeUnknownRow))
	})

	t.Run("notifies live tabs", func(t *testing.T) {
		f := newReviewFixture()
		session := f.createSession(t)

		_, err := f.svc.SelectRow(context.Background(), session.Id, 0, idPtr(2))
		require.NoError(t, err)
		require.Len(t, f.notifier.notifications, 1)
		assert.Equal(t, wsEventRowUpdated, f.notifier.notifications[0].eventType)
		assert.Equal(t, session.Id, f.notifier.notifications[0].sessionID)
	})
}

func TestSetLabelThroughService(t *testing.T) {
	f := newReviewFixture()
	session := f.createSession(t)

	t.Run("negative keeps selection", func(t *testing.T) {
		row, err := f.svc.SetLabel(context.Background(), session.Id, 0, "negative")
		require.NoError(t, err)
		assert.Equal(t, entity.LabelNegative, row.Label)
		require.NotNil(t, row.SelectedItemId)
	})

	t.Run("gold without selection is inconsistent", func(t *testing.T) {
		_, err := f.svc.SetLabel(context.Background(), session.Id, 1, "gold")
		assert.True(t, apperror.IsCode(err, apperror.CodeInconsistentLabel))
	})

	t.Run("unknown label is invalid input", func(t *testing.T) {
		_, err := f.svc.SetLabel(context.Background(), session.Id, 0, "maybe")
		assert.True(t, apperror.IsCode(err, apperror.CodeInvalidInput))
	})
}

func TestSearchCandidatesShortCircuit(t *testing.T) {
	f := newReviewFixture()
	f.uow.items.lexicalResults = []*entity.CatalogItem{f.uow.items.items[1]}

	for _, q := range []string{"", "аб", "  аб  "} {
		items, err := f.svc.SearchCandidates(context.Background(), q)
		require.NoError(t, err)
		assert.Empty(t, items, "query %q", q)
	}
	assert.Zero(t, f.uow.items.lexicalCalls, "short queries never hit the database")

	items, err := f.svc.SearchCandidates(context.Background(), "грунт")
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, f.uow.items.lexicalCalls)
}

func TestRematchRowReplacesCandidatesOnly(t *testing.T) {
	f := newReviewFixture()
	session := f.createSession(t)

	// The index changed since session creation.
	f.matcher.byCaption["Разработка грунта"] = matchResult{
		candidates: []entity.Candidate{
			{ItemId: 3, Code: "02-01-001", Name: "Устройство бетонной подготовки", Score: 0.5, Rank: 1},
		},
		auto: idPtr(3),
	}

	row, err := f.svc.RematchRow(context.Background(), session.Id, 0)
	require.NoError(t, err)

	require.Len(t, row.Candidates, 1)
	assert.Equal(t, int64(3), row.Candidates[0].ItemId)
	require.NotNil(t, row.SelectedItemId, "selection survives a re-match")
	assert.Equal(t, int64(1), *row.SelectedItemId)
	assert.Equal(t, entity.LabelGold, row.Label)
}

func TestCommit(t *testing.T) {
	t.Run("snapshots all rows and closes the session", func(t *testing.T) {
		f := newReviewFixture()
		session := f.createSession(t)

		_, err := f.svc.SelectRow(context.Background(), session.Id, 0, idPtr(2))
		require.NoError(t, err)

		committed, err := f.svc.Commit(context.Background(), session.Id, "lead@example.com")
		require.NoError(t, err)
		assert.Equal(t, entity.SessionCommitted, committed.Status)
		require.NotNil(t, committed.CommittedAt)

		require.Len(t, f.uow.records.records, 2)
		first := f.uow.records.records[0]
		assert.Equal(t, session.Id, first.SessionId)
		assert.Equal(t, "smeta_2024.xlsx", first.SessionSourceName)
		assert.Equal(t, entity.LabelGold, first.Label)
		assert.Equal(t, []int64{1}, first.Negatives)
		assert.Equal(t, "lead@example.com", first.CreatedBy)

		second := f.uow.records.records[1]
		assert.Equal(t, entity.LabelNoneMatch, second.Label)
		assert.Nil(t, second.SelectedItemId)

		assert.Equal(t, 1, f.uow.begun)
		assert.Equal(t, 1, f.uow.committed)
		assert.Zero(t, f.uow.rolledBack)
	})

	t.Run("double commit is rejected and writes nothing new", func(t *testing.T) {
		f := newReviewFixture()
		session := f.createSession(t)

		_, err := f.svc.Commit(context.Background(), session.Id, "lead@example.com")
		require.NoError(t, err)
		recordCount := len(f.uow.records.records)

		_, err = f.svc.Commit(context.Background(), session.Id, "lead@example.com")
		assert.True(t, apperror.IsCode(err, apperror.CodeSessionClosed))
		assert.Len(t, f.uow.records.records, recordCount)
	})

	t.Run("mutations after commit are rejected", func(t *testing.T) {
		f := newReviewFixture()
		session := f.createSession(t)

		_, err := f.svc.Commit(context.Background(), session.Id, "lead@example.com")
		require.NoError(t, err)

		_, err = f.svc.SelectRow(context.Background(), session.Id, 0, idPtr(2))
		assert.True(t, apperror.IsCode(err, apperror.CodeSessionClosed))

		_, err = f.svc.SetNote(context.Background(), session.Id, 0, strPtr("too late"))
		assert.True(t, apperror.IsCode(err, apperror.CodeSessionClosed))
	})

	t.Run("stale selections report every offending row", func(t *testing.T) {
		f := newReviewFixture()
		session := f.createSession(t)

		_, err := f.svc.SelectRow(context.Background(), session.Id, 1, idPtr(3))
		require.NoError(t, err)

		// Both selected items vanish from the catalog before commit.
		delete(f.uow.items.items, 1)
		delete(f.uow.items.items, 3)

		_, err = f.svc.Commit(context.Background(), session.Id, "lead@example.com")
		require.True(t, apperror.IsCode(err, apperror.CodeStaleSelection))

		appErr, _ := apperror.As(err)
		assert.Equal(t, []int{0, 1}, appErr.Details["row_idx"])
		assert.Empty(t, f.uow.records.records, "nothing persisted on validation failure")

		// The session stays open for correction.
		reloaded, err := f.svc.GetSession(context.Background(), session.Id)
		require.NoError(t, err)
		assert.Equal(t, entity.SessionOpen, reloaded.Status)
	})

	t.Run("notifies live tabs about the commit", func(t *testing.T) {
		f := newReviewFixture()
		session := f.createSession(t)

		_, err := f.svc.Commit(context.Background(), session.Id, "lead@example.com")
		require.NoError(t, err)

		last := f.notifier.notifications[len(f.notifier.notifications)-1]
		assert.Equal(t, wsEventSessionCommitted, last.eventType)
	})
}

func TestRenderReport(t *testing.T) {
	f := newReviewFixture()
	session := f.createSession(t)

	t.Run("open session has no report", func(t *testing.T) {
		_, _, err := f.svc.RenderReport(context.Background(), session.Id)
		assert.True(t, apperror.IsCode(err, apperror.CodeInvalidInput))
	})

	t.Run("committed session renders with its id in the filename", func(t *testing.T) {
		_, err := f.svc.Commit(context.Background(), session.Id, "lead@example.com")
		require.NoError(t, err)

		data, filename, err := f.svc.RenderReport(context.Background(), session.Id)
		require.NoError(t, err)
		assert.NotEmpty(t, data)
		assert.Equal(t, "VOR_"+session.Id.String()+".xlsx", filename)
	})
}
