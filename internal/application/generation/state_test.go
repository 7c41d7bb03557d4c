package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wfmodel "storyloom-api/internal/workflow/model"
	apperrors "storyloom-api/pkg/errors"
)

func TestValidateEnvelope(t *testing.T) {
	tests := []struct {
		name     string
		in       *Input
		wantCode apperrors.ErrorCode
	}{
		{
			name:     "nil input",
			in:       nil,
			wantCode: apperrors.CodeStateValidation,
		},
		{
			name:     "missing story_id",
			in:       &Input{Step: StepInterview, StateVersion: StateVersion},
			wantCode: apperrors.CodeStateValidation,
		},
		{
			name:     "unsupported state_version",
			in:       &Input{Step: StepInterview, StateVersion: 99, StoryID: "s1"},
			wantCode: apperrors.CodeStateValidation,
		},
		{
			name: "valid with version",
			in:   &Input{Step: StepInterview, StateVersion: StateVersion, StoryID: "s1"},
		},
		{
			name: "zero version tolerated",
			in:   &Input{Step: StepInterview, StoryID: "s1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateEnvelope(tt.in)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, tt.wantCode), "got %v", err)
		})
	}
}

func TestSplitAnswers(t *testing.T) {
	t.Run("exact count", func(t *testing.T) {
		parts, err := SplitAnswers("a1\na2\na3", 3)
		require.NoError(t, err)
		assert.Equal(t, []string{"a1", "a2", "a3"}, parts)
	})

	t.Run("trailing newline ignored", func(t *testing.T) {
		parts, err := SplitAnswers("a1\na2\na3\n", 3)
		require.NoError(t, err)
		assert.Len(t, parts, 3)
	})

	t.Run("too few answers", func(t *testing.T) {
		_, err := SplitAnswers("a1\na2", 3)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeStateValidation))
		assert.Contains(t, err.Error(), "answer count mismatch")
	})

	t.Run("too many answers", func(t *testing.T) {
		_, err := SplitAnswers("a1\na2\na3\na4", 3)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeStateValidation))
	})

	t.Run("empty answers", func(t *testing.T) {
		_, err := SplitAnswers("", 3)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeStateValidation))
	})
}

func TestMergeQA(t *testing.T) {
	merged := MergeQA(
		[]string{"What is the theme?", "Who is the hero?"},
		[]string{"Betrayal", "A blind swordsman"},
	)
	require.Len(t, merged, 2)
	assert.Equal(t, "Q: What is the theme?\nA: Betrayal", merged[0])
	assert.Equal(t, "Q: Who is the hero?\nA: A blind swordsman", merged[1])
}

func TestCheckOutline(t *testing.T) {
	valid := &wfmodel.Outline{Chapters: []wfmodel.OutlineChapter{
		{ChapterNumber: 1, ChapterTitle: "Start"},
		{ChapterNumber: 2, ChapterTitle: "Middle"},
		{ChapterNumber: 3, ChapterTitle: "End"},
	}}
	assert.NoError(t, checkOutline(valid, 3))

	t.Run("nil outline", func(t *testing.T) {
		assert.Error(t, checkOutline(nil, 3))
	})

	t.Run("wrong chapter count", func(t *testing.T) {
		short := &wfmodel.Outline{Chapters: valid.Chapters[:2]}
		assert.Error(t, checkOutline(short, 3))
	})

	t.Run("duplicate chapter number rejected", func(t *testing.T) {
		dup := &wfmodel.Outline{Chapters: []wfmodel.OutlineChapter{
			{ChapterNumber: 1, ChapterTitle: "Start"},
			{ChapterNumber: 2, ChapterTitle: "Middle"},
			{ChapterNumber: 2, ChapterTitle: "Again"},
		}}
		err := checkOutline(dup, 3)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "contiguous")
	})

	t.Run("not starting at one", func(t *testing.T) {
		offset := &wfmodel.Outline{Chapters: []wfmodel.OutlineChapter{
			{ChapterNumber: 2, ChapterTitle: "A"},
			{ChapterNumber: 3, ChapterTitle: "B"},
			{ChapterNumber: 4, ChapterTitle: "C"},
		}}
		assert.Error(t, checkOutline(offset, 3))
	})

	t.Run("empty title", func(t *testing.T) {
		blank := &wfmodel.Outline{Chapters: []wfmodel.OutlineChapter{
			{ChapterNumber: 1, ChapterTitle: "A"},
			{ChapterNumber: 2, ChapterTitle: "  "},
			{ChapterNumber: 3, ChapterTitle: "C"},
		}}
		assert.Error(t, checkOutline(blank, 3))
	})
}

func TestOutlineDigest(t *testing.T) {
	o := &wfmodel.Outline{Chapters: []wfmodel.OutlineChapter{
		{ChapterNumber: 1, ChapterTitle: "Dawn"},
		{ChapterNumber: 2, ChapterTitle: "Dusk"},
	}}
	digest := outlineDigest(o)
	assert.Contains(t, digest, "Chapter 1: Dawn")
	assert.Contains(t, digest, "Chapter 2: Dusk")
}

func TestRosterDigest(t *testing.T) {
	set := &wfmodel.CharacterSet{Characters: []wfmodel.CharacterDraft{
		{Name: "Mira", Appearance: "tall", Biography: "an exile"},
	}}
	digest := rosterDigest(set)
	assert.Contains(t, digest, "Mira")
	assert.Contains(t, digest, "tall")
	assert.Contains(t, digest, "an exile")
}
