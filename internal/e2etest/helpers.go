package e2etest

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// findForm returns the form of doc that posts to action.
func findForm(doc *goquery.Document, action string) (*goquery.Selection, error) {
	form := doc.Find(fmt.Sprintf("form[action=%q]", action))
	if form.Length() == 0 {
		return nil, fmt.Errorf("form not found: %s", action)
	}
	return form.First(), nil
}

// fieldForLabel returns the input, textarea or select a label of form points to, either through its for attribute
// or by nesting. A label whose trimmed text equals text wins over one that merely contains it, so "Plank" does not
// resolve to "Side plank".
func fieldForLabel(form *goquery.Selection, text string) (*goquery.Selection, error) {
	labels := form.Find("label")
	label := labels.FilterFunction(func(_ int, l *goquery.Selection) bool {
		return strings.TrimSpace(l.Text()) == text
	}).First()
	if label.Length() == 0 {
		label = labels.FilterFunction(func(_ int, l *goquery.Selection) bool {
			return strings.Contains(l.Text(), text)
		}).First()
	}
	if label.Length() == 0 {
		return nil, fmt.Errorf("label not found: %s", text)
	}

	field := label.Find("input,textarea,select")
	if id, ok := label.Attr("for"); ok {
		field = form.Find(fmt.Sprintf("[id=%q]", id)).Filter("input,textarea,select")
	}
	if field.Length() == 0 {
		return nil, fmt.Errorf("no field for label: %s", text)
	}
	return field.First(), nil
}

func isMultipleSelect(s *goquery.Selection) bool {
	_, ok := s.Attr("multiple")
	return ok
}
