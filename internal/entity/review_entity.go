package entity

import (
	"time"

	"fsnb-matcher-be/internal/pkg/apperror"

	"github.com/google/uuid"
)

type Label string

const (
	LabelGold      Label = "gold"
	LabelNegative  Label = "negative"
	LabelNoneMatch Label = "none_match"
)

func (l Label) Valid() bool {
	switch l {
	case LabelGold, LabelNegative, LabelNoneMatch:
		return true
	}
	return false
}

type SessionStatus string

const (
	SessionOpen      SessionStatus = "open"
	SessionCommitted SessionStatus = "committed"
)

// ReviewRow is the mutable per-row review state. All mutation goes through
// the methods below so the selection/label invariant holds at every step:
// SelectedItemId absent <=> Label == none_match.
type ReviewRow struct {
	Id        uuid.UUID
	SessionId uuid.UUID
	RowIdx    int

	Caption string
	Units   *string
	Qty     *string

	Candidates         []Candidate
	AutoSelectedItemId *int64
	SelectedItemId     *int64
	Label              Label
	Negatives          []int64
	Note               *string

	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Select sets the reviewer's current choice. A nil itemId means "no match".
// Overriding a present auto-selection records the auto pick as a negative
// example exactly once, no matter how often the override is repeated.
func (r *ReviewRow) Select(itemId *int64) {
	if itemId == nil {
		r.SelectedItemId = nil
		r.Label = LabelNoneMatch
		return
	}

	id := *itemId
	if r.AutoSelectedItemId != nil && *r.AutoSelectedItemId != id {
		r.addNegative(*r.AutoSelectedItemId)
		r.Label = LabelGold
	} else if r.Label == LabelNoneMatch {
		r.Label = LabelGold
	}
	r.SelectedItemId = &id
}

// SetLabel applies a direct label override. Setting gold/negative requires a
// present selection; setting none_match clears any selection.
func (r *ReviewRow) SetLabel(label Label) error {
	if !label.Valid() {
		return apperror.Newf(apperror.CodeInvalidInput, "unknown label %q", label)
	}

	if label == LabelNoneMatch {
		r.SelectedItemId = nil
		r.Label = LabelNoneMatch
		return nil
	}

	if r.SelectedItemId == nil {
		return apperror.Newf(apperror.CodeInconsistentLabel,
			"label %q requires a selected item on row %d", label, r.RowIdx)
	}
	r.Label = label
	return nil
}

// ReplaceCandidates installs the result of a fresh retrieval. The previous
// list is discarded; selection and label are untouched.
func (r *ReviewRow) ReplaceCandidates(candidates []Candidate) {
	r.Candidates = candidates
}

func (r *ReviewRow) SetNote(note *string) {
	r.Note = note
}

// addNegative appends id to the rejected set, ignoring duplicates.
// The set is append-only: nothing ever removes an id once recorded.
func (r *ReviewRow) addNegative(id int64) {
	for _, n := range r.Negatives {
		if n == id {
			return
		}
	}
	r.Negatives = append(r.Negatives, id)
}

// ConsistencyOK reports whether the row satisfies the selection/label
// invariant. It exists for commit-time validation and tests; mutation
// methods keep it true by construction.
func (r *ReviewRow) ConsistencyOK() bool {
	if r.SelectedItemId == nil {
		return r.Label == LabelNoneMatch
	}
	return r.Label == LabelGold || r.Label == LabelNegative
}

// ReviewSession owns its rows for the whole open lifetime. Row order is
// fixed at creation; RowIdx is unique within the session.
type ReviewSession struct {
	Id          uuid.UUID
	SourceName  string
	CreatedBy   string
	Status      SessionStatus
	Rows        []*ReviewRow
	CreatedAt   time.Time
	CommittedAt *time.Time
}

func (s *ReviewSession) EnsureOpen() error {
	if s.Status != SessionOpen {
		return apperror.Newf(apperror.CodeSessionClosed, "session %s is %s", s.Id, s.Status)
	}
	return nil
}

func (s *ReviewSession) Row(rowIdx int) (*ReviewRow, error) {
	for _, row := range s.Rows {
		if row.RowIdx == rowIdx {
			return row, nil
		}
	}
	return nil, apperror.Newf(apperror.CodeUnknownRow, "row %d does not exist in session %s", rowIdx, s.Id)
}

// MarkCommitted performs the one-way open -> committed transition.
func (s *ReviewSession) MarkCommitted(at time.Time) error {
	if err := s.EnsureOpen(); err != nil {
		return err
	}
	s.Status = SessionCommitted
	s.CommittedAt = &at
	return nil
}
