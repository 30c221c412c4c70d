package voice

import (
	"regexp"
	"strings"
)

// envAnnotation matches whisper environmental annotations like
// "(keyboard clicking)", "[laughter]", "(speaking French)", etc.
var envAnnotation = regexp.MustCompile(`[\(\[][a-zA-Z][a-zA-Z_\s]*[\)\]]`)

// timestampPrefix matches "[00:00:00.000 --> 00:00:05.000]".
var timestampPrefix = regexp.MustCompile(`^\[[0-9:.]+\s*-->\s*[0-9:.]+\]`)

var multiSpace = regexp.MustCompile(`\s{2,}`)

// hallucinations are phrases whisper produces from silence or kettle noise.
var hallucinations = []string{
	"...",
	"you",
	"thank you.",
	"thank you",
	"thanks for watching!",
	"thank you for watching.",
	"bye.",
	"bye!",
	"the end.",
	"sous-titres réalisés para la communauté d'amara.org",
}

// cleanTranscription strips whitespace, timestamps, annotations like
// "[BLANK_AUDIO]" or "(water running)", and discards text that is only a
// known hallucination.
func cleanTranscription(s string) string {
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
	s = strings.TrimSpace(s)

	s = timestampPrefix.ReplaceAllString(s, "")
	s = envAnnotation.ReplaceAllString(s, "")
	s = strings.TrimSpace(multiSpace.ReplaceAllString(s, " "))

	lower := strings.ToLower(s)
	for _, h := range hallucinations {
		if h == lower {
			return ""
		}
	}
	return s
}

// stripWakeWord checks if the text contains a wake word. It returns the
// text after the wake word and whether one was found.
func stripWakeWord(text string, wakeWords []string) (string, bool) {
	lower := strings.ToLower(text)
	for _, w := range wakeWords {
		wl := strings.ToLower(w)
		idx := strings.Index(lower, wl)
		if idx < 0 {
			continue
		}
		rest := text[idx+len(wl):]
		return strings.TrimLeft(rest, " ,.!?\n\r\t"), true
	}
	return "", false
}

// removeWakeWords drops every wake word from text. Used while listening in
// case the user repeats it mid-sentence.
func removeWakeWords(text string, wakeWords []string) string {
	lower := strings.ToLower(text)
	for _, w := range wakeWords {
		lower = strings.ReplaceAll(lower, strings.ToLower(w), "")
	}
	return strings.TrimSpace(multiSpace.ReplaceAllString(lower, " "))
}

// isPunctuation reports whether s holds nothing but spaces and punctuation.
func isPunctuation(s string) bool {
	for _, r := range s {
		if r != ' ' && r != ',' && r != '.' && r != '!' && r != '?' {
			return false
		}
	}
	return true
}
