package stats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/mathdrill/internal/model"
	"github.com/verte-zerg/mathdrill/internal/store"
)

func fixedNow() time.Time {
	return time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)
}

func TestRecordOutcomeCorrectAddsSample(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemory()
	rec := NewRecorder(repo, fixedNow)

	problem := model.Problem{OperandA: 7, OperandB: 8, Answer: 56, Kind: model.Multiplication, Text: "7 × 8"}
	require.NoError(t, rec.RecordOutcome(ctx, Outcome{
		Problem:   problem,
		Mode:      model.Multiplication,
		Correct:   true,
		Answered:  true,
		Submitted: 56,
		Latency:   1.75,
	}))

	samples, err := repo.LoadSolveSamples(ctx)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, model.SolveSample{Latency: 1.75, Mode: model.Multiplication, Timestamp: fixedNow()}, samples[0])

	wrong, err := repo.LoadWrongAnswers(ctx)
	require.NoError(t, err)
	assert.Empty(t, wrong)
}

func TestRecordOutcomeWrongNumericAnswer(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemory()
	rec := NewRecorder(repo, fixedNow)

	problem := model.Problem{OperandA: 9, OperandB: 4, Answer: 5, Kind: model.Subtraction, Text: "9 - 4"}
	require.NoError(t, rec.RecordOutcome(ctx, Outcome{
		Problem:   problem,
		Mode:      model.Mixed,
		Answered:  true,
		Submitted: 6,
		Latency:   3,
	}))

	samples, err := repo.LoadSolveSamples(ctx)
	require.NoError(t, err)
	assert.Empty(t, samples)

	wrong, err := repo.LoadWrongAnswers(ctx)
	require.NoError(t, err)
	require.Len(t, wrong, 1)
	assert.Equal(t, model.WrongAnswer{
		ProblemText: "9 - 4",
		Submitted:   6,
		Correct:     5,
		Kind:        model.Subtraction,
		Timestamp:   fixedNow(),
	}, wrong[0])
}

func TestRecordOutcomeSkipStoresNothing(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemory()
	rec := NewRecorder(repo, fixedNow)

	require.NoError(t, rec.RecordOutcome(ctx, Outcome{
		Problem: model.Problem{Answer: 14, Kind: model.Chain, Text: model.ChainText},
		Mode:    model.Chain,
		Latency: 4,
	}))

	samples, _ := repo.LoadSolveSamples(ctx)
	wrong, _ := repo.LoadWrongAnswers(ctx)
	assert.Empty(t, samples)
	assert.Empty(t, wrong)
}
