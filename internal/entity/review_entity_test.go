package entity

import (
	"math/rand"
	"testing"
	"time"

	"fsnb-matcher-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func newRow(auto *int64) *ReviewRow {
	row := &ReviewRow{
		Id:        uuid.New(),
		SessionId: uuid.New(),
		RowIdx:    0,
		Caption:   "Устройство бетонной подготовки",
		Label:     LabelNoneMatch,
	}
	if auto != nil {
		row.AutoSelectedItemId = auto
		row.SelectedItemId = int64Ptr(*auto)
		row.Label = LabelGold
	}
	return row
}

func TestReviewRowSelect(t *testing.T) {
	t.Run("select on unmatched row promotes to gold", func(t *testing.T) {
		row := newRow(nil)
		row.Select(int64Ptr(42))

		require.NotNil(t, row.SelectedItemId)
		assert.Equal(t, int64(42), *row.SelectedItemId)
		assert.Equal(t, LabelGold, row.Label)
		assert.Empty(t, row.Negatives)
		assert.True(t, row.ConsistencyOK())
	})

	t.Run("clearing selection resets to none_match", func(t *testing.T) {
		row := newRow(int64Ptr(7))
		row.Select(nil)

		assert.Nil(t, row.SelectedItemId)
		assert.Equal(t, LabelNoneMatch, row.Label)
		assert.True(t, row.ConsistencyOK())
	})

	t.Run("overriding the auto pick records it as negative once", func(t *testing.T) {
		row := newRow(int64Ptr(7))

		row.Select(int64Ptr(42))
		assert.Equal(t, []int64{7}, row.Negatives)
		assert.Equal(t, LabelGold, row.Label)

		// Flip back and forth; the negative set must not grow.
		row.Select(int64Ptr(99))
		row.Select(int64Ptr(42))
		row.Select(nil)
		row.Select(int64Ptr(13))
		assert.Equal(t, []int64{7}, row.Negatives)
	})

	t.Run("re-selecting the auto pick adds no negative", func(t *testing.T) {
		row := newRow(int64Ptr(7))
		row.Select(int64Ptr(7))

		assert.Empty(t, row.Negatives)
		assert.Equal(t, LabelGold, row.Label)
		require.NotNil(t, row.SelectedItemId)
		assert.Equal(t, int64(7), *row.SelectedItemId)
	})

	t.Run("clearing then reselecting keeps auto override semantics", func(t *testing.T) {
		row := newRow(int64Ptr(7))
		row.Select(nil)
		row.Select(int64Ptr(42))

		assert.Equal(t, []int64{7}, row.Negatives)
		assert.Equal(t, LabelGold, row.Label)
	})
}

func TestReviewRowSetLabel(t *testing.T) {
	t.Run("rejects unknown label", func(t *testing.T) {
		row := newRow(int64Ptr(7))
		err := row.SetLabel(Label("ambiguous_maybe"))
		assert.True(t, apperror.IsCode(err, apperror.CodeInvalidInput))
	})

	t.Run("gold and negative require a selection", func(t *testing.T) {
		row := newRow(nil)

		err := row.SetLabel(LabelGold)
		assert.True(t, apperror.IsCode(err, apperror.CodeInconsistentLabel))

		err = row.SetLabel(LabelNegative)
		assert.True(t, apperror.IsCode(err, apperror.CodeInconsistentLabel))
		assert.Equal(t, LabelNoneMatch, row.Label)
	})

	t.Run("negative keeps the selection", func(t *testing.T) {
		row := newRow(int64Ptr(7))
		require.NoError(t, row.SetLabel(LabelNegative))

		assert.Equal(t, LabelNegative, row.Label)
		require.NotNil(t, row.SelectedItemId)
		assert.True(t, row.ConsistencyOK())
	})

	t.Run("none_match clears the selection", func(t *testing.T) {
		row := newRow(int64Ptr(7))
		require.NoError(t, row.SetLabel(LabelNoneMatch))

		assert.Nil(t, row.SelectedItemId)
		assert.Equal(t, LabelNoneMatch, row.Label)
		assert.True(t, row.ConsistencyOK())
	})
}

// The invariant must hold after any sequence of mutations, not just the
// scripted ones above.
func TestReviewRowInvariantUnderRandomMutation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	labels := []Label{LabelGold, LabelNegative, LabelNoneMatch}

	for trial := 0; trial < 200; trial++ {
		var auto *int64
		if rng.Intn(2) == 0 {
			auto = int64Ptr(int64(rng.Intn(5) + 1))
		}
		row := newRow(auto)

		for step := 0; step < 50; step++ {
			switch rng.Intn(3) {
			case 0:
				if rng.Intn(4) == 0 {
					row.Select(nil)
				} else {
					row.Select(int64Ptr(int64(rng.Intn(10) + 1)))
				}
			case 1:
				_ = row.SetLabel(labels[rng.Intn(len(labels))])
			case 2:
				note := "checked"
				row.SetNote(&note)
			}

			if !row.ConsistencyOK() {
				t.Fatalf("trial %d step %d: invariant broken: selected=%v label=%s",
					trial, step, row.SelectedItemId, row.Label)
			}

			seen := map[int64]bool{}
			for _, n := range row.Negatives {
				if seen[n] {
					t.Fatalf("trial %d step %d: duplicate negative %d", trial, step, n)
				}
				seen[n] = true
			}
		}
	}
}

func TestReviewSessionLifecycle(t *testing.T) {
	session := &ReviewSession{
		Id:     uuid.New(),
		Status: SessionOpen,
		Rows: []*ReviewRow{
			{RowIdx: 0, Label: LabelNoneMatch},
			{RowIdx: 1, Label: LabelNoneMatch},
		},
	}

	t.Run("row lookup by index", func(t *testing.T) {
		row, err := session.Row(1)
		require.NoError(t, err)
		assert.Equal(t, 1, row.RowIdx)

		_, err = session.Row(5)
		assert.True(t, apperror.IsCode(err, apperror.CodeUnknownRow))
	})

	t.Run("commit is one-way", func(t *testing.T) {
		require.NoError(t, session.EnsureOpen())

		now := time.Now().UTC()
		require.NoError(t, session.MarkCommitted(now))
		assert.Equal(t, SessionCommitted, session.Status)
		require.NotNil(t, session.CommittedAt)

		err := session.EnsureOpen()
		assert.True(t, apperror.IsCode(err, apperror.CodeSessionClosed))

		err = session.MarkCommitted(time.Now())
		assert.True(t, apperror.IsCode(err, apperror.CodeSessionClosed))
	})
}
