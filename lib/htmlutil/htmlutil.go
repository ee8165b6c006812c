package htmlutil

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

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

// StripTags parses an html fragment and returns only its text content,
// entities are decoded and line breaks inside the markup are kept.
func StripTags(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", err
	}
	var buffer bytes.Buffer
	for _, n := range doc.Nodes {
		getTextRecursive(n, &buffer)
	}
	return buffer.String(), nil
}

// TrimmedText is the text of every node in the selection, trimmed of
// surrounding whitespace.
func TrimmedText(sel *goquery.Selection) string {
	var buffer bytes.Buffer
	for _, n := range sel.Nodes {
		getTextRecursive(n, &buffer)
	}
	return strings.TrimSpace(buffer.String())
}
