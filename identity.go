package loadprobe

import (
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/foomo/loadprobe/vo"
)

const maxBodyBytes = 1 << 20

// identifier resolves which replica served a response. The header wins, html
// bodies are only parsed when a selector is configured.
type identifier struct {
	header   string
	selector string
	pattern  *regexp.Regexp
}

func newIdentifier(header, selector, pattern string) (*identifier, error) {
	id := &identifier{
		header:   header,
		selector: selector,
	}
	if pattern != "" {
		re, errCompile := regexp.Compile(pattern)
		if errCompile != nil {
			return nil, errCompile
		}
		id.pattern = re
	}
	return id, nil
}

func (id *identifier) identify(resp *http.Response) string {
	if server := strings.TrimSpace(resp.Header.Get(id.header)); server != "" {
		drain(resp.Body)
		return server
	}
	if id.selector != "" && strings.Contains(resp.Header.Get("Content-Type"), "html") {
		doc, errDoc := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
		if errDoc == nil {
			if server := id.fromDocument(doc); server != "" {
				return server
			}
		}
	}
	drain(resp.Body)
	return vo.ServerUnknown
}

func (id *identifier) fromDocument(doc *goquery.Document) string {
	text := strings.TrimSpace(doc.Find(id.selector).First().Text())
	if id.pattern == nil {
		return text
	}
	match := id.pattern.FindStringSubmatch(text)
	if len(match) != 2 {
		return ""
	}
	return strings.TrimSpace(match[1])
}

// drain lets the transport reuse the connection
func drain(body io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxBodyBytes))
}
