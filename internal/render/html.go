// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"html/template"
	"io"

	"github.com/pdiddy/post-engine/pkg/types"
)

var page = template.Must(template.New("post").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<article class="post">
{{.Post}}</article>
{{- if .ImagePrompt}}
<section class="image-prompt">
<h2>Image prompt</h2>
<p>{{.ImagePrompt}}</p>
</section>
{{- end}}
{{- if .Links}}
<section class="sources">
<h2>Sources</h2>
<ul>
{{- range .Links}}
<li><a href="{{.URL}}">{{.Title}}</a></li>
{{- end}}
</ul>
</section>
{{- end}}
{{- if .Error}}
<p class="error">{{.Error}}</p>
{{- end}}
</body>
</html>
`))

type pageData struct {
	Title       string
	Post        template.HTML
	ImagePrompt string
	Links       []types.SourceLink
	Error       string
}

func writeResultHTML(w io.Writer, res types.Result) error {
	post, err := PostHTML(res.FinalDraft)
	if err != nil {
		return err
	}
	data := pageData{
		Title:       "post " + res.RunID,
		Post:        template.HTML(post),
		ImagePrompt: res.ImagePrompt,
		Links:       res.SourceLinks,
	}
	if res.Failed() {
		data.Error = res.Error
	}
	if err := page.Execute(w, data); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	return nil
}
