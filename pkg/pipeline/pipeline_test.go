package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepsOrderAndCheckpoints(t *testing.T) {
	steps := Steps()
	require.Len(t, steps, 4)

	expected := []struct {
		id         StepID
		title      string
		path       string
		checkpoint int
	}{
		{StepQuotes, "Quotes", "/quotes", 20},
		{StepAuthorInfo, "Author Info", "/authors", 40},
		{StepRelatedQuotes, "Related Quotes", "/related", 60},
		{StepRandomQuote, "Random Quote", "/random", 80},
	}

	for i, want := range expected {
		assert.Equal(t, want.id, steps[i].ID)
		assert.Equal(t, want.title, steps[i].Title)
		assert.Equal(t, want.path, steps[i].Path)
		assert.Equal(t, want.checkpoint, steps[i].Checkpoint)
	}
}

func TestStepsCheckpointsIncrease(t *testing.T) {
	steps := Steps()
	for i := 1; i < len(steps); i++ {
		assert.Greater(t, steps[i].Checkpoint, steps[i-1].Checkpoint)
	}
}

func TestStepByID(t *testing.T) {
	step, err := StepByID(StepRelatedQuotes)
	require.NoError(t, err)
	assert.Equal(t, "Related Quotes", step.Title)

	_, err = StepByID(StepID("nonsense"))
	assert.Error(t, err)
}

func TestInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   Input
		wantErr bool
	}{
		{
			name:  "valid input",
			input: Input{Topic: "science", Count: 3},
		},
		{
			name:    "empty topic",
			input:   Input{Topic: "", Count: 3},
			wantErr: true,
		},
		{
			name:    "zero count",
			input:   Input{Topic: "science", Count: 0},
			wantErr: true,
		},
		{
			name:    "negative count",
			input:   Input{Topic: "science", Count: -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
