package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/taskplan/internal/domain"
	"github.com/felixgeelhaar/taskplan/internal/errors"
)

func TestValidateRejectsBadInput(t *testing.T) {
	tests := []struct {
		name     string
		raw      []RawTask
		wantCode errors.ErrorCode
	}{
		{
			name:     "empty input",
			raw:      nil,
			wantCode: errors.ErrCodeEmptyPlan,
		},
		{
			name: "zero duration",
			raw: []RawTask{
				{ID: "a", Title: "A", Duration: 0},
			},
			wantCode: errors.ErrCodeInvalidDuration,
		},
		{
			name: "negative duration",
			raw: []RawTask{
				{ID: "a", Title: "A", Duration: -2},
			},
			wantCode: errors.ErrCodeInvalidDuration,
		},
		{
			name: "duplicate id",
			raw: []RawTask{
				{ID: "a", Title: "A", Duration: 1},
				{ID: "a", Title: "A again", Duration: 2},
			},
			wantCode: errors.ErrCodeDuplicateTaskID,
		},
		{
			name: "dangling dependency",
			raw: []RawTask{
				{ID: "a", Title: "A", Duration: 1, DependencyIDs: []string{"ghost"}},
			},
			wantCode: errors.ErrCodeDanglingDependency,
		},
		{
			name: "self dependency",
			raw: []RawTask{
				{ID: "a", Title: "A", Duration: 1, DependencyIDs: []string{"a"}},
			},
			wantCode: errors.ErrCodeSelfDependency,
		},
		{
			name: "blank id",
			raw: []RawTask{
				{ID: "", Title: "A", Duration: 1},
			},
			wantCode: errors.ErrCodeInvalidTaskID,
		},
		{
			name: "id with whitespace",
			raw: []RawTask{
				{ID: "task one", Title: "A", Duration: 1},
			},
			wantCode: errors.ErrCodeInvalidTaskID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.raw)
			require.Error(t, err)

			var perr *errors.PlanError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.wantCode, perr.Code)
		})
	}
}

func TestValidateReportsFirstErrorInIDOrder(t *testing.T) {
	// "b" also has a bad duration but "a" sorts first, so the error must
	// name "a" regardless of input order.
	raw := []RawTask{
		{ID: "b", Title: "B", Duration: -1},
		{ID: "a", Title: "A", Duration: 0},
	}

	_, err := Validate(raw)
	var perr *errors.PlanError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, errors.ErrCodeInvalidDuration, perr.Code)
	assert.Equal(t, []string{"a"}, perr.TaskIDs)
}

func TestValidateSortsAndNormalizes(t *testing.T) {
	raw := []RawTask{
		{ID: "c", Title: " Tail ", Duration: 1, DependencyIDs: []string{"b", "a", "b"}},
		{ID: "a", Title: "Head", Description: "  ", Duration: 2},
		{ID: "b", Title: "Mid", Description: "middle work", Duration: 3, DependencyIDs: []string{"a"}},
	}

	tasks, err := Validate(raw)
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	assert.Equal(t, domain.TaskID("a"), tasks[0].ID)
	assert.Equal(t, domain.TaskID("b"), tasks[1].ID)
	assert.Equal(t, domain.TaskID("c"), tasks[2].ID)

	// Deps are deduplicated and sorted.
	assert.Equal(t, []domain.TaskID{"a", "b"}, tasks[2].DependencyIDs)

	// Blank description falls back to the trimmed title.
	assert.Equal(t, "Head", tasks[0].Description)
	assert.Equal(t, "Tail", tasks[2].Title)
}

func TestValidateFallsBackToIDForDescription(t *testing.T) {
	raw := []RawTask{
		{ID: "setup-db", Duration: 1},
		{ID: "migrate", Title: "  ", Description: " ", Duration: 2, DependencyIDs: []string{"setup-db"}},
	}

	tasks, err := Validate(raw)
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	// Title and description both blank: the id is the only text left.
	assert.Equal(t, "migrate", tasks[0].Description)
	assert.Equal(t, "setup-db", tasks[1].Description)
}

func TestValidateHints(t *testing.T) {
	raw := []RawTask{
		{ID: "a", Title: "A", Duration: 1, PhaseHint: " Review ", PriorityHint: "HIGH"},
		{ID: "b", Title: "B", Duration: 1, PhaseHint: "sprint-3", PriorityHint: "urgent"},
	}

	tasks, err := Validate(raw)
	require.NoError(t, err)

	assert.Equal(t, domain.PhaseReview, tasks[0].Phase)
	assert.True(t, tasks[0].hintedPhase)
	assert.Equal(t, domain.PriorityHigh, tasks[0].Priority)
	assert.True(t, tasks[0].hintedPriority)

	// Unrecognized hints are dropped, not an error.
	assert.False(t, tasks[1].hintedPhase)
	assert.False(t, tasks[1].hintedPriority)
}
