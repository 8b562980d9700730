// Package pdfua checks and enforces the accessibility requirements of
// PDF/UA on a document about to be rendered: tagging enabled, title and
// language present, alternative text on figures, heading levels in order,
// regular table geometry.
package pdfua

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-text/typesetting/language"

	"github.com/tagpdf/tagpdf/compliance"
	"github.com/tagpdf/tagpdf/dom"
	"github.com/tagpdf/tagpdf/render"
)

type Level int

const (
	PDFUA1 Level = iota
)

func (l Level) String() string {
	switch l {
	case PDFUA1:
		return "PDF/UA-1"
	default:
		return "Unknown"
	}
}

// Enforcer fills in the metadata PDF/UA requires and validates what it
// cannot fix itself.
type Enforcer interface {
	compliance.Validator
	Enforce(ctx compliance.Context, doc *render.Document, level Level) error
}

type enforcerImpl struct{}

func NewEnforcer() Enforcer { return &enforcerImpl{} }

func (e *enforcerImpl) Enforce(ctx compliance.Context, doc *render.Document, level Level) error {
	doc.Marked = true
	if doc.Title == "" {
		doc.Title = "Untitled"
	}
	if doc.Lang == "" {
		doc.Lang = defaultLang(doc.Tree)
	} else {
		doc.Lang = string(language.NewLanguage(doc.Lang))
	}
	return nil
}

func (e *enforcerImpl) Validate(ctx compliance.Context, doc *render.Document) (*compliance.Report, error) {
	report := &compliance.Report{
		Standard:   "PDF/UA-1",
		Violations: []compliance.Violation{},
	}

	if !doc.Marked {
		report.Violations = append(report.Violations, compliance.Violation{
			Code:        "UA001",
			Description: "Document must be marked (MarkInfo dictionary with Marked=true)",
			Location:    "Catalog",
		})
	}
	if doc.Title == "" {
		report.Violations = append(report.Violations, compliance.Violation{
			Code:        "UA002",
			Description: "Document title is required",
			Location:    "Info Dictionary",
		})
	}
	if doc.Lang == "" {
		report.Violations = append(report.Violations, compliance.Violation{
			Code:        "UA003",
			Description: "Document language is required (content suggests " + defaultLang(doc.Tree) + ")",
			Location:    "Catalog",
		})
	}

	if doc.Tree != nil {
		lastHeading := 0
		doc.Tree.Walk(func(n *dom.Node) {
			switch {
			case n.Tag == "img" || n.Tag == "figure":
				if !n.IsDecorative() && n.Attr("alt") == "" {
					report.Violations = append(report.Violations, compliance.Violation{
						Code:        "UA004",
						Description: "Figure missing alternative text",
						Location:    fmt.Sprintf("node %d", n.ID),
					})
				}
			case len(n.Tag) == 2 && n.Tag[0] == 'h' && n.Tag[1] >= '1' && n.Tag[1] <= '6':
				level := int(n.Tag[1] - '0')
				if lastHeading != 0 && level > lastHeading+1 {
					report.Violations = append(report.Violations, compliance.Violation{
						Code:        "UA005",
						Description: fmt.Sprintf("Heading level skips from H%d to H%d", lastHeading, level),
						Location:    fmt.Sprintf("node %d", n.ID),
					})
				}
				lastHeading = level
			case n.Tag == "table":
				if msg := irregularTable(n); msg != "" {
					report.Violations = append(report.Violations, compliance.Violation{
						Code:        "UA006",
						Description: msg,
						Location:    fmt.Sprintf("node %d", n.ID),
					})
				}
			}
		})
	}

	report.Compliant = len(report.Violations) == 0
	return report, nil
}

// irregularTable reports rows whose effective column count (including
// colspans) differs from the first row's.
func irregularTable(table *dom.Node) string {
	want := -1
	var rows []*dom.Node
	var gather func(n *dom.Node)
	gather = func(n *dom.Node) {
		for _, c := range n.Children {
			if c.Tag == "tr" {
				rows = append(rows, c)
			} else if c.IsNonSemanticWrapper() {
				gather(c)
			}
		}
	}
	gather(table)
	for i, row := range rows {
		cols := 0
		for _, cell := range row.Children {
			if cell.Tag != "td" && cell.Tag != "th" {
				continue
			}
			span := 1
			if v, err := strconv.Atoi(cell.Attr("colspan")); err == nil && v > 1 {
				span = v
			}
			cols += span
		}
		if want == -1 {
			want = cols
		} else if cols != want {
			return fmt.Sprintf("Table row %d has %d columns, expected %d", i+1, cols, want)
		}
	}
	return ""
}

// defaultLang guesses a document language tag from the dominant script of
// the tree's text content.
func defaultLang(tree *dom.Tree) string {
	if tree == nil {
		return "en"
	}
	var sb strings.Builder
	tree.Walk(func(n *dom.Node) {
		if n.IsText() {
			sb.WriteString(n.Text)
		}
	})
	switch dominantScript([]rune(sb.String())) {
	case language.Arabic:
		return "ar"
	case language.Hebrew:
		return "he"
	case language.Cyrillic:
		return "ru"
	case language.Han:
		return "zh"
	case language.Hiragana, language.Katakana:
		return "ja"
	case language.Hangul:
		return "ko"
	case language.Greek:
		return "el"
	default:
		return "en"
	}
}

func dominantScript(runes []rune) language.Script {
	counts := make(map[language.Script]int)
	best := language.Latin
	bestCount := 0
	for _, r := range runes {
		script := language.LookupScript(r)
		if script == language.Unknown {
			continue
		}
		counts[script]++
		if counts[script] > bestCount {
			best = script
			bestCount = counts[script]
		}
	}
	return best
}
