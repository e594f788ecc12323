package output

import (
	"bytes"
	_ "embed"
	"html/template"
	"strings"
)

// HTMLFormatter produces the printable summary page.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/summary.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("summary").Funcs(template.FuncMap{
	"curr":   FormatCurrency,
	"pct":    FormatPercentage,
	"method": func(s string) string { return strings.ReplaceAll(s, "_", " ") },
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		*Report
		Lines       []Line
		OutcomeText string
		Refund      bool
	}{r, SummaryLines(r.Outcome), OutcomeText(r.Outcome), !r.Outcome.FinalOutcome.IsNegative()}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
