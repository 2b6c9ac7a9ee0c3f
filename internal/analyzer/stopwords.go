package analyzer

// defaultStopWords is the language-neutral English default list. It is
// fixed at construction of an Analyzer and never mutated afterward.
var defaultStopWords = []string{
	"a", "an", "and", "are", "as", "at", "be", "by", "for", "from",
	"has", "he", "in", "is", "it", "its", "of", "on", "or", "that",
	"the", "to", "was", "were", "will", "with", "this", "but", "they",
	"have", "had", "what", "when", "where", "who", "which", "why",
	"how", "all", "each", "so", "than", "too", "very", "can", "just",
	"not", "no", "do", "does", "did", "if", "about", "into", "over",
	"after", "before", "between", "up", "down", "out", "off", "again",
	"further", "then", "once", "here", "there", "both", "any", "more",
	"most", "other", "some", "such", "only", "own", "same", "i", "you",
	"your", "we", "our", "them", "their", "his", "her", "she", "him",
	"been", "being", "am", "these", "those",
}

// StopWordSet returns a fresh set built from the default stop-word list.
func StopWordSet() map[string]struct{} {
	set := make(map[string]struct{}, len(defaultStopWords))
	for _, w := range defaultStopWords {
		set[w] = struct{}{}
	}
	return set
}
