package usecase

import (
	"fmt"
	"strings"
)

const systemPrompt = `তুমি GovAI Bangladesh - বাংলাদেশ সরকারের একটি AI সহায়ক। তোমার কাজ হলো নাগরিকদের সরকারি সেবা, প্রক্রিয়া এবং তথ্য সম্পর্কে সঠিক ও বিস্তারিত সহায়তা প্রদান করা।

ভাষা:
- সর্বদা বাংলায় উত্তর দাও, এমনকি প্রশ্ন ইংরেজি বা বাংলিশে থাকলেও।

যে বিষয়ে উত্তর দেবে:
- সরকারি কাগজপত্র (পাসপোর্ট, জাতীয় পরিচয়পত্র, জন্ম নিবন্ধন, ড্রাইভিং লাইসেন্স, TIN)
- সরকারি আবেদন ও নিবন্ধন প্রক্রিয়া
- সরকারি অফিস, তাদের ঠিকানা ও যোগাযোগ
- সরকারি সেবার ফি ও খরচ
- সরকারি ওয়েবসাইট ও অনলাইন পোর্টাল

যে বিষয়ে উত্তর দেবে না:
- ব্যক্তিগত পরামর্শ
- শিক্ষা প্রতিষ্ঠানে ভর্তি
- চাকরি ও কর্মসংস্থান
- প্রযুক্তি ও সফটওয়্যার ডেভেলপমেন্ট
- বিনোদন
- স্বাস্থ্য ও চিকিৎসা
- সম্পর্ক ও পারিবারিক বিষয়

প্রশ্ন উপরের অনুমোদিত বিষয়ের বাইরে হলে বিনয়ের সাথে জানাও যে তুমি শুধু সরকারি সেবা সংক্রান্ত প্রশ্নের উত্তর দাও, এবং অনুমোদিত বিষয়গুলো উল্লেখ করো।

নির্দেশনা:
1. ধাপে ধাপে স্পষ্ট নির্দেশনা প্রদান করো।
2. প্রাসঙ্গিক ওয়েবসাইট লিংক এবং যোগাযোগের তথ্য অন্তর্ভুক্ত করো।
3. প্রয়োজনীয় নথিপত্রের তালিকা দাও।
4. সম্ভাব্য ফি বা খরচের তথ্য উল্লেখ করো।
5. যদি কোনো তথ্য নিশ্চিত না হও, তা স্পষ্টভাবে উল্লেখ করো।
6. সরকারি সূত্র থেকে প্রাপ্ত তথ্যকে অগ্রাধিকার দাও।`

// offTopicKeywords mirrors the disallowed categories of the system prompt.
// Matching is by substring, so entries are phrases rather than bare words
// like "মোবাইল" or "সম্পর্ক" that also occur in service queries.
var offTopicKeywords = []string{
	"suggest me", "university admission", "admission test", "job interview",
	"job preparation", "career advice", "salary negotiation", "programming",
	"coding", "python", "javascript", "app development", "website development",
	"computer repair", "laptop price", "mobile phone price", "movie", "song lyrics",
	"music", "cricket", "video game", "health tips", "medical advice",
	"best doctor", "which medicine", "love letter", "relationship advice",
	"girlfriend", "boyfriend",
	"ভর্তি পরীক্ষা", "বিশ্ববিদ্যালয়ে ভর্তি", "চাকরির প্রস্তুতি", "চাকরির ইন্টারভিউ",
	"ক্যারিয়ার পরামর্শ", "প্রোগ্রামিং", "কোডিং", "সফটওয়্যার তৈরি",
	"কম্পিউটার মেরামত", "মোবাইল ফোনের দাম", "সিনেমা", "গানের লিরিক্স",
	"ক্রিকেট", "স্বাস্থ্য টিপস", "ভালো ডাক্তার", "কোন ওষুধ", "কোন ঔষধ",
	"রোগের লক্ষণ", "প্রেমের", "প্রেমিক", "সম্পর্কের পরামর্শ",
}

const refusalAnswer = `দুঃখিত, আমি শুধুমাত্র বাংলাদেশের সরকারি সেবা সংক্রান্ত প্রশ্নের উত্তর দিতে পারি।

আমি যে বিষয়ে সাহায্য করতে পারি:
1. সরকারি কাগজপত্র (পাসপোর্ট, জাতীয় পরিচয়পত্র, জন্ম নিবন্ধন, ড্রাইভিং লাইসেন্স)
2. সরকারি আবেদন ও নিবন্ধন প্রক্রিয়া
3. সরকারি অফিস ও যোগাযোগের তথ্য
4. সরকারি সেবার ফি
5. সরকারি ওয়েবসাইট ও পোর্টাল

অনুগ্রহ করে সরকারি সেবা সংক্রান্ত একটি প্রশ্ন করুন।`

const apologyTemplate = `দুঃখিত, আপনার প্রশ্নের উত্তর দিতে গিয়ে একটি সমস্যা হয়েছে।

আপনার প্রশ্ন: %s

অনুগ্রহ করে:
1. আবার চেষ্টা করুন
2. অথবা সরাসরি সরকারি ওয়েবসাইট bangladesh.gov.bd দেখুন
3. অথবা জাতীয় কল সেন্টার ৩৩৩ এ যোগাযোগ করুন

আমরা শীঘ্রই এই সমস্যার সমাধান করব। অসুবিধার জন্য আমরা দুঃখিত।`

func buildUserPrompt(query, searchContext string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "প্রশ্ন: %s\n\n", query)
	if searchContext != "" {
		fmt.Fprintf(&b, "প্রাসঙ্গিক তথ্য:\n%s\n\n", searchContext)
	}
	b.WriteString("উপরের প্রশ্নের জন্য একটি সম্পূর্ণ, বিস্তারিত, ধাপে ধাপে বাংলায় উত্তর প্রদান করো। উত্তর মাঝপথে থামাবে না; প্রয়োজনীয় সকল তথ্য সুন্দরভাবে সাজিয়ে দাও।")
	return b.String()
}
