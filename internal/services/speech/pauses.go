package speech

import "regexp"

var (
	politeParticle = regexp.MustCompile(`(ค่ะ|ครับ|คะ|นะคะ|นะครับ)(\s|$)`)
	sentenceMark   = regexp.MustCompile(`([?!？！])`)
	wideSpace      = regexp.MustCompile(`\s{2,}`)
)

// AddPauses inserts " ... " breaks so synthesized Thai is easier to follow:
// after polite particles that end a phrase, after question and exclamation
// marks, and in place of runs of whitespace.
func AddPauses(text string) string {
	text = politeParticle.ReplaceAllString(text, "$1 ... $2")
	text = sentenceMark.ReplaceAllString(text, "$1 ... ")
	return wideSpace.ReplaceAllString(text, " ... ")
}
