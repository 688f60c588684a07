package analyzer

import (
	"github.com/PuerkitoBio/goquery"
)

// ExtractLinks returns the raw href of every anchor in document order.
func ExtractLinks(body []byte, contentType string) ([]string, error) {
	doc, err := parseDocument(body, contentType)
	if err != nil {
		return nil, err
	}
	var hrefs []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		hrefs = append(hrefs, href)
	})
	return hrefs, nil
}
