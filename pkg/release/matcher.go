package release

import (
	"regexp"

	"github.com/hbollon/go-edlib"
)

// numberRegex extracts sequence numbers from titles ("Dune 2", "Book 3").
var numberRegex = regexp.MustCompile(`\b(\d+)\b`)

// MatchConfidence represents the confidence level of a title match.
type MatchConfidence int

const (
	ConfidenceNone   MatchConfidence = iota // score < 0.70
	ConfidenceLow                           // score >= 0.70
	ConfidenceMedium                        // score >= 0.85
	ConfidenceHigh                          // score >= 0.95
)

func (c MatchConfidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceLow:
		return "low"
	default:
		return "none"
	}
}

// MatchResult is the outcome of a fuzzy title match.
type MatchResult struct {
	Index      int             // index of the matched candidate, -1 when none
	Title      string          // the matched candidate title
	Score      float64         // Jaro-Winkler similarity (0.0-1.0)
	Confidence MatchConfidence // confidence level derived from the score
}

// MatchTitle finds the best match for a parsed title against candidate
// titles. Jaro-Winkler favors prefix matches, which suits book titles where
// subtitles get dropped by rippers. A bonus/penalty is applied when sequence
// numbers agree/disagree, which keeps series volumes apart.
func MatchTitle(parsed string, candidates []string) MatchResult {
	best := MatchResult{Index: -1, Confidence: ConfidenceNone}
	if len(candidates) == 0 {
		return best
	}

	normalizedParsed := CleanTitle(parsed)
	parsedNumbers := numberRegex.FindAllString(normalizedParsed, -1)

	for i, candidate := range candidates {
		normalizedCandidate := CleanTitle(candidate)

		score := float64(edlib.JaroWinklerSimilarity(normalizedParsed, normalizedCandidate))

		candidateNumbers := numberRegex.FindAllString(normalizedCandidate, -1)
		score = adjustScoreForNumbers(score, parsedNumbers, candidateNumbers)

		if score > best.Score {
			best.Index = i
			best.Title = candidate
			best.Score = score
		}
	}

	switch {
	case best.Score >= 0.95:
		best.Confidence = ConfidenceHigh
	case best.Score >= 0.85:
		best.Confidence = ConfidenceMedium
	case best.Score >= 0.70:
		best.Confidence = ConfidenceLow
	default:
		best = MatchResult{Index: -1, Confidence: ConfidenceNone}
	}

	return best
}

// MatchAuthor scores a parsed author name against candidate names using the
// same similarity metric but author-name normalization.
func MatchAuthor(parsed string, candidates []string) MatchResult {
	best := MatchResult{Index: -1, Confidence: ConfidenceNone}
	normalizedParsed := CleanAuthorName(parsed)

	for i, candidate := range candidates {
		score := float64(edlib.JaroWinklerSimilarity(normalizedParsed, CleanAuthorName(candidate)))
		if score > best.Score {
			best.Index = i
			best.Title = candidate
			best.Score = score
		}
	}

	switch {
	case best.Score >= 0.95:
		best.Confidence = ConfidenceHigh
	case best.Score >= 0.85:
		best.Confidence = ConfidenceMedium
	case best.Score >= 0.70:
		best.Confidence = ConfidenceLow
	default:
		best = MatchResult{Index: -1, Confidence: ConfidenceNone}
	}

	return best
}

// adjustScoreForNumbers modifies the similarity score based on sequence
// number agreement. Volume numbers are the strongest signal that two nearly
// identical titles are different books.
func adjustScoreForNumbers(score float64, parsedNums, candidateNums []string) float64 {
	if len(parsedNums) == 0 {
		return score
	}

	if len(candidateNums) == 0 {
		// Parsed has numbers, candidate doesn't.
		return score * 0.85
	}

	candidateSet := make(map[string]bool, len(candidateNums))
	for _, n := range candidateNums {
		candidateSet[n] = true
	}

	for _, n := range parsedNums {
		if candidateSet[n] {
			return min(score*1.05, 1.0)
		}
	}

	// Mismatched volume numbers.
	return score * 0.90
}
