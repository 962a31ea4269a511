package report

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"strconv"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/richard-senior/gamecomp/internal/logger"
	"github.com/richard-senior/gamecomp/pkg/table"
)

// Page is the data behind the rendered report
type Page struct {
	Title         string
	TrackedTeam   string
	CurrentSeason int
	Marker        string
	Options       Options
	AxisOptions   []string
	Chart         *Chart
	Boxes         []GameBox
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
<p>{{.TrackedTeam}} games, {{.Options.XVar}} against {{.Options.YVar}}. Games marked {{.Marker}} are from the prior season.</p>
<h2>Games</h2>
<ul class="points">
{{- range .Chart.Points}}
<li class="{{.Category}}">{{if .Label}}<strong>{{.Label}}</strong> {{end}}{{.Tooltip}}: {{$.Options.XVar}} {{fmtnum .X}}, {{$.Options.YVar}} {{fmtnum .Y}} ({{.Category}})</li>
{{- end}}
</ul>
{{- with .Chart.Means}}
<h2>Means</h2>
<p>Over {{if eq .Mode "all"}}all games{{else}}{{$.CurrentSeason}} games only{{end}}.</p>
<ul>
<li>{{meanlabel $.Options.XVar .X}}</li>
<li>{{meanlabel $.Options.YVar .Y}}</li>
</ul>
{{- end}}
<h2>Game boxes</h2>
<div id="gbs" class="gbsection">
{{- range .Boxes}}
<div class="box {{.Class}}">
<h4 class="oppteamname">{{.Opponent}}</h4>
<h4 class="gamedate">{{.Date}}</h4>
<p>{{.X}}</p>
<p>{{.Y}}</p>
</div>
{{- end}}
</div>
<h2>Axis options</h2>
<p>{{range $i, $name := .AxisOptions}}{{if $i}}, {{end}}{{$name}}{{end}}</p>
</body>
</html>
`

var pageTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"fmtnum":    func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) },
	"meanlabel": MeanLabel,
}).Parse(pageTemplate))

// NewPage builds the chart data and game boxes for t
func NewPage(t *table.Table, team string, opts Options) (*Page, error) {
	chart, err := BuildChart(t, opts)
	if err != nil {
		return nil, err
	}
	boxes, err := GameBoxes(t, opts)
	if err != nil {
		return nil, err
	}
	return &Page{
		Title:         "Game Comparison Tool",
		TrackedTeam:   team,
		CurrentSeason: opts.CurrentSeason,
		Marker:        opts.marker(),
		Options:       opts,
		AxisOptions:   AxisOptions(t),
		Chart:         chart,
		Boxes:         boxes,
	}, nil
}

// HTML renders the page as a standalone html document
func (p *Page) HTML() (string, error) {
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, p); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return buf.String(), nil
}

// Markdown renders the page as markdown
func (p *Page) Markdown() (string, error) {
	page, err := p.HTML()
	if err != nil {
		return "", err
	}
	markdown, err := htmltomarkdown.ConvertString(page, converter.WithDomain("localhost"))
	if err != nil {
		logger.Error("Failed to convert HTML to Markdown:", err)
		return "", err
	}
	return markdown, nil
}

// WriteFile writes the page to path, as markdown when asMarkdown is set
func (p *Page) WriteFile(path string, asMarkdown bool) error {
	render := p.HTML
	if asMarkdown {
		render = p.Markdown
	}
	out, err := render()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(out), 0644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	logger.Info("Report written to", path)
	return nil
}
