package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"GovAI/internal/domain"
)

func TestDetectLanguage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		text string
		want domain.Language
	}{
		{name: "bengali only", text: "পাসপোর্ট", want: domain.LanguageBangla},
		{name: "ascii only", text: "How do I renew my passport?", want: domain.LanguageEnglish},
		{name: "empty", text: "", want: domain.LanguageEnglish},
		{name: "digits and punctuation", text: "123 ?!", want: domain.LanguageEnglish},
		{name: "mixed above threshold", text: "NID জাতীয়", want: domain.LanguageBangla},
		{name: "mostly latin", text: "passport application form ক", want: domain.LanguageEnglish},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DetectLanguage(tc.text))
		})
	}
}

func TestSanitize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a b", Sanitize(" a   b "))
	assert.Equal(t, "scriptalert/script", Sanitize("<script>alert</script>"))
	assert.Equal(t, "ab", Sanitize(`a{}[]\b`))
	assert.Equal(t, "", Sanitize("  [ ]  "))
	assert.Equal(t, "a b", Sanitize("a [ ] b"))
}

func TestSanitizeIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"  passport   renewal  ",
		"a [ ] b",
		"<<>>{x}\\y",
		"পাসপোর্ট   করতে কি লাগে?",
		"tab\tand\nnewline",
		"জাতীয় পরিচয়পত্র",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		assert.Equal(t, once, Sanitize(once), "input %q", in)
	}
}

func TestIsDomainRelevant(t *testing.T) {
	t.Parallel()

	ok, reason := IsDomainRelevant("How to get a PASSPORT")
	assert.True(t, ok)
	assert.Equal(t, reasonRelevant, reason)

	ok, _ = IsDomainRelevant("পাসপোর্ট করতে কি লাগে?")
	assert.True(t, ok)

	ok, reason = IsDomainRelevant("best pizza in town")
	assert.False(t, ok)
	assert.Equal(t, reasonGeneral, reason)
}

func TestClassify(t *testing.T) {
	t.Parallel()

	q := Classify("  পাসপোর্ট   করতে কি লাগে? ")
	assert.Equal(t, "পাসপোর্ট করতে কি লাগে?", q.Text)
	assert.Equal(t, domain.LanguageBangla, q.Language)
	assert.True(t, q.Relevant)
}
