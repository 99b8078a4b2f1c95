package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GovAI/internal/logging"
)

func TestGenerate_Success(t *testing.T) {
	t.Parallel()

	c := &fakeCompleter{text: "পাসপোর্টের জন্য অনলাইনে আবেদন করুন"}
	g := NewAnswerGenerator(c, GenerationOptions{MaxTokens: 1200, Temperature: 0.2}, logging.Discard())

	answer, failed := g.Generate(context.Background(), "পাসপোর্ট করতে কি লাগে?", nil, "CONTEXT-BLOCK")

	assert.False(t, failed)
	assert.Equal(t, c.text, answer)
	assert.Equal(t, 1200, c.lastTokens)
	assert.Contains(t, c.lastSystem, "সর্বদা বাংলায় উত্তর দাও")
	assert.Contains(t, c.lastSystem, "চাকরি")
	assert.Contains(t, c.lastUser, "প্রশ্ন: পাসপোর্ট করতে কি লাগে?")
	assert.Contains(t, c.lastUser, "CONTEXT-BLOCK")
}

func TestGenerate_FallbackAnswers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		completer *fakeCompleter
		query     string
		refusal   bool
	}{
		{"provider error", &fakeCompleter{err: errors.New("503")}, "how to renew passport", false},
		{"empty answer", &fakeCompleter{text: ""}, "ট্রেড লাইসেন্স কিভাবে পাব", false},
		{"off-topic query", &fakeCompleter{err: errors.New("503")}, "best python tutorial for a job", true},
		{"off-topic bangla", &fakeCompleter{err: errors.New("503")}, "ভালো ডাক্তার কোথায় পাব", true},
		{"mobile court is a government service", &fakeCompleter{err: errors.New("503")}, "মোবাইল কোর্ট কিভাবে কাজ করে", false},
		{"computerized nid", &fakeCompleter{err: errors.New("503")}, "how to get a computerized NID card", false},
		{"about a service", &fakeCompleter{err: errors.New("503")}, "জন্ম নিবন্ধন সম্পর্কে জানতে চাই", false},
		{"marriage registration", &fakeCompleter{err: errors.New("503")}, "marriage registration certificate", false},
		{"disease control office", &fakeCompleter{err: errors.New("503")}, "রোগ নিয়ন্ত্রণ অফিসের ঠিকানা", false},
		{"off-topic love letter", &fakeCompleter{err: errors.New("503")}, "write a love letter for me", true},
		{"off-topic bangla cricket", &fakeCompleter{err: errors.New("503")}, "আজকের ক্রিকেট ম্যাচের স্কোর", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := NewAnswerGenerator(tt.completer, GenerationOptions{}, logging.Discard())

			answer, failed := g.Generate(context.Background(), tt.query, nil, "")

			assert.True(t, failed)
			if tt.refusal {
				assert.Equal(t, refusalAnswer, answer)
				return
			}
			assert.Contains(t, answer, "আপনার প্রশ্ন: "+tt.query)
			assert.Contains(t, answer, "bangladesh.gov.bd")
			assert.Contains(t, answer, "৩৩৩")
		})
	}
}

func TestGenerate_NilCompleter(t *testing.T) {
	t.Parallel()

	g := NewAnswerGenerator(nil, GenerationOptions{}, logging.Discard())
	answer, failed := g.Generate(context.Background(), "nid", nil, "")

	require.True(t, failed)
	assert.Equal(t, FallbackAnswer("nid"), answer)
}

func TestBuildUserPrompt(t *testing.T) {
	t.Parallel()

	withContext := buildUserPrompt("q", "ctx")
	assert.Contains(t, withContext, "প্রাসঙ্গিক তথ্য:\nctx")

	without := buildUserPrompt("q", "")
	assert.NotContains(t, without, "প্রাসঙ্গিক তথ্য:")
	assert.Contains(t, without, "ধাপে ধাপে")
}
