package service

import (
	"sort"
	"strings"

	"brokerage-service/internal/brokerage/model"
)

// hintThreshold is the minimum similarity for a header suggestion.
const hintThreshold = 0.6

// aliasIndex finds the known alias closest to an unrecognized header.
type aliasIndex struct {
	inv map[string]map[string]struct{} // trigram -> set(alias)
}

var headerIndex = buildAliasIndex()

func buildAliasIndex() *aliasIndex {
	idx := &aliasIndex{inv: make(map[string]map[string]struct{})}
	for a := range aliasField {
		for g := range trigramSet(a) {
			bucket, ok := idx.inv[g]
			if !ok {
				bucket = make(map[string]struct{})
				idx.inv[g] = bucket
			}
			bucket[a] = struct{}{}
		}
	}
	return idx
}

func (idx *aliasIndex) candidates(header string) []string {
	seen := make(map[string]struct{})
	for g := range trigramSet(header) {
		for a := range idx.inv[g] {
			seen[a] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for a := range seen {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

func (idx *aliasIndex) hint(header string) model.HeaderHint {
	h := model.HeaderHint{Header: header}
	best := ""
	for _, a := range idx.candidates(header) {
		s := bestSimilarity(header, a)
		if s > h.Score {
			h.Score, best = s, a
		}
	}
	if best == "" || h.Score < hintThreshold {
		h.Score = 0
		return h
	}
	h.Suggestion = aliasField[best]
	return h
}

func trigramSet(s string) map[string]struct{} {
	m := make(map[string]struct{})
	if s == "" {
		return m
	}
	r := []rune(" " + s + " ")
	if len(r) < 3 {
		m[string(r)] = struct{}{}
		return m
	}
	for i := 0; i <= len(r)-3; i++ {
		m[string(r[i:i+3])] = struct{}{}
	}
	return m
}

// similarity is the normalized Damerau-Levenshtein similarity in [0..1].
func similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	d := damerauLevenshtein(a, b)
	m := max(len([]rune(a)), len([]rune(b)))
	return 1 - float64(d)/float64(m)
}

func tokenSort(s string) string {
	t := strings.Fields(s)
	sort.Strings(t)
	return strings.Join(t, " ")
}

// bestSimilarity also tries word order independence: "NAME BUYER" ~ "BUYER NAME".
func bestSimilarity(a, b string) float64 {
	return max(similarity(a, b), similarity(tokenSort(a), tokenSort(b)))
}

func damerauLevenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	al, bl := len(ra), len(rb)

	dp := make([][]int, al+1)
	for i := range dp {
		dp[i] = make([]int, bl+1)
		dp[i][0] = i
	}
	for j := 0; j <= bl; j++ {
		dp[0][j] = j
	}

	for i := 1; i <= al; i++ {
		for j := 1; j <= bl; j++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			dp[i][j] = min(dp[i-1][j]+1, dp[i][j-1]+1, dp[i-1][j-1]+cost)

			// adjacent transposition
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				dp[i][j] = min(dp[i][j], dp[i-2][j-2]+1)
			}
		}
	}
	return dp[al][bl]
}
