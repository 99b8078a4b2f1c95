// Package classifier inspects raw queries: script detection, input cleanup
// and a keyword check for government-service relevance.
package classifier

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"GovAI/internal/domain"
)

const banglaThreshold = 0.3

var bengali = &unicode.RangeTable{
	R16: []unicode.Range16{{Lo: 0x0980, Hi: 0x09FF, Stride: 1}},
}

// DetectLanguage returns bn when more than 30% of the letters are Bengali.
func DetectLanguage(text string) domain.Language {
	var bangla, total int
	for _, r := range text {
		switch {
		case unicode.Is(bengali, r):
			bangla++
			total++
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			total++
		}
	}
	if total == 0 {
		return domain.LanguageEnglish
	}
	if float64(bangla)/float64(total) > banglaThreshold {
		return domain.LanguageBangla
	}
	return domain.LanguageEnglish
}

var stripped = strings.NewReplacer(
	"<", "", ">", "",
	"{", "", "}", "",
	"[", "", "]", "",
	`\`, "",
)

// Sanitize removes bracket characters and backslashes, collapses whitespace
// and trims. The result is NFC-normalized.
func Sanitize(text string) string {
	text = stripped.Replace(text)
	text = strings.Join(strings.Fields(text), " ")
	return norm.NFC.String(text)
}

var governmentKeywords = []string{
	"passport", "visa", "nid", "birth certificate", "government", "ministry",
	"license", "tax", "citizen", "application", "registration", "certificate",
	"birth",
	"পাসপোর্ট", "ভিসা", "জাতীয় পরিচয়পত্র", "জন্ম নিবন্ধন", "সরকার", "মন্ত্রণালয়",
	"লাইসেন্স", "কর", "নাগরিক", "আবেদন", "নিবন্ধন", "সনদ",
}

const (
	reasonRelevant = "সরকারি সেবা সংক্রান্ত প্রশ্ন সনাক্ত করা হয়েছে"
	reasonGeneral  = "সাধারণ প্রশ্ন - সরকারি প্রেক্ষাপট যোগ করা হচ্ছে"
)

// IsDomainRelevant matches the query against government-service keywords.
// The flag is advisory; callers log it and carry on.
func IsDomainRelevant(text string) (bool, string) {
	if ContainsAny(text, governmentKeywords) {
		return true, reasonRelevant
	}
	return false, reasonGeneral
}

// ContainsAny reports whether any keyword occurs in text, ignoring case.
func ContainsAny(text string, keywords []string) bool {
	lower := strings.ToLower(norm.NFC.String(text))
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(norm.NFC.String(kw))) {
			return true
		}
	}
	return false
}

// Classify sanitizes the raw text and fills in the derived fields.
func Classify(raw string) domain.Query {
	text := Sanitize(raw)
	relevant, reason := IsDomainRelevant(text)
	return domain.Query{
		Raw:      raw,
		Text:     text,
		Language: DetectLanguage(text),
		Relevant: relevant,
		Reason:   reason,
	}
}
