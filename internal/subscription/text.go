package subscription

import (
	"strings"

	nethtml "golang.org/x/net/html"
)

// PlainText strips markup and entities from remote descriptions and collapses
// runs of whitespace to single spaces.
func PlainText(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	z := nethtml.NewTokenizer(strings.NewReader(raw))
	var b strings.Builder
	for {
		switch z.Next() {
		case nethtml.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case nethtml.TextToken:
			b.Write(z.Text())
		case nethtml.StartTagToken, nethtml.SelfClosingTagToken, nethtml.EndTagToken:
			b.WriteByte(' ')
		}
	}
}
