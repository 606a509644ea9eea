package ats

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/anujkumar2005/smart-ats-ultimate/internal/types"
)

const keywordListCap = 30

var wordPattern = regexp.MustCompile(`\w+`)

// stopWords are excluded from job description keywords.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "this": {},
	"that": {}, "from": {}, "have": {}, "will": {}, "your": {}, "our": {},
}

// jobKeywords tokenizes a job description into the deduplicated set of
// lowercased word tokens longer than 3 characters, minus stop words.
func jobKeywords(jobDescription string) map[string]struct{} {
	keywords := make(map[string]struct{})
	for _, token := range wordPattern.FindAllString(strings.ToLower(jobDescription), -1) {
		if len(token) <= 3 {
			continue
		}
		if _, stop := stopWords[token]; stop {
			continue
		}
		keywords[token] = struct{}{}
	}
	return keywords
}

// resumeKeywords tokenizes resume text with no length or stop-word filter.
func resumeKeywords(resumeText string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, token := range wordPattern.FindAllString(strings.ToLower(resumeText), -1) {
		tokens[token] = struct{}{}
	}
	return tokens
}

func sortAndCap(set map[string]struct{}) []string {
	list := make([]string, 0, len(set))
	for token := range set {
		list = append(list, token)
	}
	sort.Strings(list)
	if len(list) > keywordListCap {
		list = list[:keywordListCap]
	}
	return list
}

// Score computes the ATS compatibility score for a resume against a job
// description. Deterministic, no I/O.
//
// The blend is 65% keyword match rate and 35% structure score, where the
// structure score awards 10 points each for an email, a phone number, and
// every detected standard section. An empty keyword set degrades the score to
// the structure component alone rather than erroring.
func Score(resumeText, jobDescription string) types.ScoreResult {
	wanted := jobKeywords(jobDescription)
	present := resumeKeywords(resumeText)

	matched := make(map[string]struct{})
	missing := make(map[string]struct{})
	for token := range wanted {
		if _, ok := present[token]; ok {
			matched[token] = struct{}{}
		} else {
			missing[token] = struct{}{}
		}
	}

	matchRate := 0.0
	if len(wanted) > 0 {
		matchRate = 100 * float64(len(matched)) / float64(len(wanted))
	}

	facts := Parse(resumeText)

	hasEmail := len(facts.Contact.Emails) > 0
	hasPhone := len(facts.Contact.Phones) > 0
	sectionsFound := 0
	for _, found := range facts.Sections {
		if found {
			sectionsFound++
		}
	}

	structureScore := 0
	if hasEmail {
		structureScore += 10
	}
	if hasPhone {
		structureScore += 10
	}
	structureScore += 10 * sectionsFound

	finalScore := int(math.Floor(matchRate*0.65 + float64(structureScore)*0.35))
	if finalScore > 100 {
		finalScore = 100
	}

	return types.ScoreResult{
		Score:            finalScore,
		MatchedKeywords:  sortAndCap(matched),
		MissingKeywords:  sortAndCap(missing),
		HasContact:       hasEmail,
		HasPhone:         hasPhone,
		SectionsFound:    sectionsFound,
		KeywordMatchRate: math.Round(matchRate*100) / 100,
		ResumeData:       facts,
	}
}
