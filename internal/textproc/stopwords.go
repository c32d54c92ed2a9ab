package textproc

import "strings"

// englishStopwords is the English stopword list shared by the normalizer and
// the vectorizer so both stages drop the same tokens.
var englishStopwords = buildStopwordSet(`
i me my myself we our ours ourselves you your yours yourself yourselves
he him his himself she her hers herself it its itself they them their
theirs themselves what which who whom this that these those am is are
was were be been being have has had having do does did doing a an the
and but if or because as until while of at by for with about against
between into through during before after above below to from up down
in out on off over under again further then once here there when where
why how all any both each few more most other some such no nor not only
own same so than too very can will just don should now
`)

func buildStopwordSet(words string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(words) {
		set[w] = struct{}{}
	}
	return set
}

// IsStopword reports whether token is an English stopword
func IsStopword(token string) bool {
	_, ok := englishStopwords[token]
	return ok
}
