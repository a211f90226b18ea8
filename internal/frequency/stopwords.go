package frequency

// defaultStopWords is the built-in list of common function words excluded
// from frequency analysis. A configured list replaces it entirely.
var defaultStopWords = []string{
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with",
	"by", "from", "up", "about", "into", "through", "during", "before", "after",
	"above", "below", "between", "among", "under", "over", "is", "are", "was", "were",
	"be", "been", "being", "have", "has", "had", "do", "does", "did", "will", "would",
	"should", "could", "can", "may", "might", "must", "shall", "i", "you", "he", "she",
	"it", "we", "they", "me", "him", "her", "us", "them", "my", "your", "his",
	"its", "our", "their", "this", "that", "these", "those", "am", "not", "no", "yes",
}

func stopWordSet(words []string) map[string]struct{} {
	if len(words) == 0 {
		words = defaultStopWords
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
