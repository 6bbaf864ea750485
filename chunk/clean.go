package chunk

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// clean applies the configured cleanup to final block text: configured
// substrings are removed, the text is NFKC normalised and whitespace runs
// collapse to one space. With RemoveColons trailing colons are dropped.
func (p *Processor) clean(text string) string {
	text = p.replacer.Replace(text)
	text = norm.NFKC.String(text)
	text = strings.Join(strings.Fields(text), " ")
	if p.removeColons {
		text = strings.TrimSpace(strings.TrimRight(text, ":"))
	}
	return text
}
