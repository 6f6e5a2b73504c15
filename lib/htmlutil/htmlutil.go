package htmlutil

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// GetText returns the concatenated text content of a node, like
// goquery's Selection.Text but usable on a bare *html.Node.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CleanText trims a scraped text node down to a single printable line.
func CleanText(s string) string {
	s = removeNonPrintable(s)
	s = strings.Trim(s, " \t\n")
	return innerWhitespace.ReplaceAllString(s, " ")
}

// FirstLine returns the first whitespace-trimmed line of a multi-line
// text node. Map tab labels carry the map name on the first line and
// the pick marker on the next.
func FirstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.Trim(line, " \t\r")
		if line != "" {
			return line
		}
	}
	return ""
}

// HasClass reports whether the first node in the selection carries the
// given class token. Safe to call on empty selections.
func HasClass(sel *goquery.Selection, class string) bool {
	if sel == nil || sel.Length() == 0 {
		return false
	}
	for _, token := range strings.Fields(sel.AttrOr("class", "")) {
		if token == class {
			return true
		}
	}
	return false
}

// AbsoluteURL resolves a possibly relative href against a base URL.
func AbsoluteURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
