package caption

// Stats summarizes a step sequence for the charting frontend: per-step
// token counts plus aggregate token retention frequencies.
type Stats struct {
	Steps       int            `json:"steps"`
	TokenCounts []int          `json:"token_counts"`
	MinTokens   int            `json:"min_tokens"`
	MaxTokens   int            `json:"max_tokens"`
	MeanTokens  float64        `json:"mean_tokens"`
	Frequency   map[string]int `json:"frequency"`
}

// Summarize computes Stats over the given step results, tokenizing each
// result with the same separator set the transform joined with.
func Summarize(results []string, separators []string) Stats {
	s := Stats{
		Steps:       len(results),
		TokenCounts: make([]int, len(results)),
		Frequency:   make(map[string]int),
	}
	if len(results) == 0 {
		return s
	}

	total := 0
	for i, result := range results {
		tokens := Tokenize(result, separators)
		s.TokenCounts[i] = len(tokens)
		total += len(tokens)
		for _, tok := range tokens {
			s.Frequency[tok]++
		}
		if i == 0 {
			s.MinTokens, s.MaxTokens = len(tokens), len(tokens)
			continue
		}
		s.MinTokens = min(s.MinTokens, len(tokens))
		s.MaxTokens = max(s.MaxTokens, len(tokens))
	}
	s.MeanTokens = float64(total) / float64(len(results))
	return s
}
