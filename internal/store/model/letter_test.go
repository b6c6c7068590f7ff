package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatestPerQuestion(t *testing.T) {
	letters := CoverLetterList{
		{QuestionSlot: 1, Version: 1, Content: "q1 v1"},
		{QuestionSlot: 1, Version: 2, Content: "q1 v2"},
		{QuestionSlot: 2, Version: 1, Content: "q2 v1"},
		{QuestionSlot: 1, Version: 3, Content: "q1 v3"},
	}

	latest := letters.LatestPerQuestion()
	require.Len(t, latest, 2)
	assert.Equal(t, "q1 v3", latest[0].Content)
	assert.Equal(t, "q2 v1", latest[1].Content)
}

func TestLatestPerQuestionPreservesSlotOrder(t *testing.T) {
	letters := CoverLetterList{
		{QuestionSlot: 3, Version: 1},
		{QuestionSlot: 1, Version: 1},
		{QuestionSlot: 1, Version: 2},
	}

	latest := letters.LatestPerQuestion()
	require.Len(t, latest, 2)
	assert.Equal(t, 3, latest[0].QuestionSlot)
	assert.Equal(t, 1, latest[1].QuestionSlot)
	assert.Equal(t, 2, latest[1].Version)
}

func TestLatestPerQuestionEmpty(t *testing.T) {
	assert.Empty(t, CoverLetterList{}.LatestPerQuestion())
}

func TestLatestPerQuestionSingleSyntheticSlot(t *testing.T) {
	letters := CoverLetterList{
		{QuestionSlot: NoQuestionSlot, Version: 1},
		{QuestionSlot: NoQuestionSlot, Version: 2},
	}

	latest := letters.LatestPerQuestion()
	require.Len(t, latest, 1)
	assert.Equal(t, 2, latest[0].Version)
}
