// Package sanitize forces raw model output into clean, standard Markdown.
//
// The model is instructed to emit pure Markdown but routinely mixes in HTML
// (tables especially, since the prompts mandate HTML table syntax). Every
// document entering the history store passes through Markdown first, so the
// rest of the system only ever sees one canonical format.
package sanitize

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	tableRe = regexp.MustCompile(`(?is)<table[^>]*>.*?</table>`)
	rowRe   = regexp.MustCompile(`(?is)<tr[^>]*>(.*?)</tr>`)
	thRe    = regexp.MustCompile(`(?is)<th[^>]*>(.*?)</th>`)
	tdRe    = regexp.MustCompile(`(?is)<td[^>]*>(.*?)</td>`)
	brRe    = regexp.MustCompile(`(?i)<br\s*/?>`)
	tagRe   = regexp.MustCompile(`<[^>]+>`)

	h1Re = regexp.MustCompile(`(?i)<h1[^>]*>(.*?)</h1>`)
	h2Re = regexp.MustCompile(`(?i)<h2[^>]*>(.*?)</h2>`)
	h3Re = regexp.MustCompile(`(?i)<h3[^>]*>(.*?)</h3>`)
	pRe  = regexp.MustCompile(`(?i)<p[^>]*>(.*?)</p>`)
	liRe = regexp.MustCompile(`(?i)<li[^>]*>(.*?)</li>`)

	strongRe = regexp.MustCompile(`(?is)<(?:strong|b)>(.*?)</(?:strong|b)>`)
	emRe     = regexp.MustCompile(`(?is)<(?:em|i)>(.*?)</(?:em|i)>`)

	excessNewlinesRe = regexp.MustCompile(`\n{3,}`)
)

// DecodeEntities decodes the HTML entities the model is known to emit, so
// that subsequent tag matching sees real tags. &amp; is decoded last to avoid
// double-decoding sequences like &amp;lt;.
func DecodeEntities(text string) string {
	r := strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
	)
	return strings.ReplaceAll(r.Replace(text), "&amp;", "&")
}

// cleanCell cleans the content of a table cell: <br> collapses to a single
// space, inner tags are stripped, surrounding whitespace trimmed.
func cleanCell(cell string) string {
	cell = brRe.ReplaceAllString(cell, " ")
	cell = tagRe.ReplaceAllString(cell, "")
	return strings.TrimSpace(cell)
}

// convertTable rewrites one <table> block as a Markdown pipe table.
// <th> cells win the header row; a first row with only <td> cells is promoted
// to the header instead and not re-emitted as data. An empty table yields "".
func convertTable(tableHTML string) string {
	rows := rowRe.FindAllStringSubmatch(tableHTML, -1)
	if len(rows) == 0 {
		return ""
	}

	var b strings.Builder
	headerDone := false

	for _, row := range rows {
		headerCells := thRe.FindAllStringSubmatch(row[1], -1)
		dataCells := tdRe.FindAllStringSubmatch(row[1], -1)

		if !headerDone {
			cells := headerCells
			promotedData := false
			if len(cells) == 0 && len(dataCells) > 0 {
				cells = dataCells
				promotedData = true
			}
			if len(cells) > 0 {
				headers := make([]string, len(cells))
				seps := make([]string, len(cells))
				for i, c := range cells {
					headers[i] = cleanCell(c[1])
					seps[i] = "---"
				}
				fmt.Fprintf(&b, "| %s |\n", strings.Join(headers, " | "))
				fmt.Fprintf(&b, "| %s |\n", strings.Join(seps, " | "))
				headerDone = true
				if promotedData {
					continue
				}
			}
		}

		if len(dataCells) > 0 {
			cells := make([]string, len(dataCells))
			for i, c := range dataCells {
				cells[i] = cleanCell(c[1])
			}
			fmt.Fprintf(&b, "| %s |\n", strings.Join(cells, " | "))
		}
	}

	if b.Len() == 0 {
		return ""
	}
	// Surrounding newlines keep the table a distinct block element.
	return "\n\n" + b.String() + "\n"
}

// Markdown takes a raw model response and forces it into clean, standard
// Markdown. It is pure and idempotent: applying it to already-clean Markdown
// returns the input unchanged (modulo surrounding whitespace).
func Markdown(rawText string) string {
	// Step 1: decode entities so tag matching sees real tags.
	text := DecodeEntities(rawText)

	// Step 2: tables first; they need multi-pass parsing.
	text = tableRe.ReplaceAllStringFunc(text, convertTable)

	// Step 3: remaining block-level tags.
	text = h1Re.ReplaceAllString(text, "\n# $1\n")
	text = h2Re.ReplaceAllString(text, "\n## $1\n")
	text = h3Re.ReplaceAllString(text, "\n### $1\n")
	text = pRe.ReplaceAllString(text, "\n$1\n")
	text = liRe.ReplaceAllString(text, "\n* $1")
	text = brRe.ReplaceAllString(text, "\n")

	// Step 4: inline tags.
	text = strongRe.ReplaceAllString(text, "**$1**")
	text = emRe.ReplaceAllString(text, "*$1*")

	// Step 5: strip whatever tags remain (<div>, <ul>, <span>, ...).
	text = tagRe.ReplaceAllString(text, "")

	// Step 6: collapse runs of 3+ newlines to a single blank line.
	text = excessNewlinesRe.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}
