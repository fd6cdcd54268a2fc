package kb

import "strings"

var (
	confirmationWords = []string{"yes", "y", "yep", "ok", "okay", "show", "show me", "got it", "correct"}
	exitWords         = []string{"no", "n", "nope", "stop", "exit", "cancel"}
	nameQueryPhrases  = []string{"setting name", "name of", "what is the name"}
	codeQueryPhrases  = []string{"access code for", "code for", "what is the code"}
	greetingWords     = []string{"hi", "hello", "hey", "thanks", "help"}
)

// DetectIntent classifies an utterance into one of the fixed intent
// categories. Rules run in priority order against the lowercased, trimmed
// text; the first match wins. Confirmation and exit words must match the
// whole utterance so that a bare "ok" never falls through to a database
// search.
func DetectIntent(text string) Intent {
	clean := strings.ToLower(strings.TrimSpace(text))
	for _, w := range confirmationWords {
		if clean == w {
			return IntentConfirmation
		}
	}
	for _, w := range exitWords {
		if clean == w {
			return IntentExit
		}
	}
	for _, p := range nameQueryPhrases {
		if strings.Contains(clean, p) {
			return IntentNameQuery
		}
	}
	for _, p := range codeQueryPhrases {
		if strings.Contains(clean, p) {
			return IntentCodeQuery
		}
	}
	for _, w := range greetingWords {
		if strings.Contains(clean, w) {
			return IntentConversational
		}
	}
	return IntentTechnical
}
