package notify

import (
	"bytes"
	"html/template"

	"jobalert/internal/domain"
)

// One card per posting, styled inline so mail clients keep it readable.
const bodyTemplate = `<html>
<body style="font-family:Segoe UI,Arial,sans-serif;background-color:#f5f5f5;margin:0;padding:20px;">
  <div style="max-width:600px;margin:0 auto;background-color:#ffffff;border-radius:8px;overflow:hidden;">
    <div style="background-color:#0078d4;color:white;padding:24px;text-align:center;">
      <h1 style="margin:0;font-size:24px;">New Job Postings</h1>
      <p style="margin:8px 0 0 0;">{{len .}} new position{{if gt (len .) 1}}s{{end}} found</p>
    </div>
    <div style="padding:24px;">
{{- range .}}
      <div style="border:1px solid #e1e1e1;padding:16px;margin-bottom:16px;border-radius:8px;background-color:#fafafa;">
        <h3 style="color:#0078d4;font-size:18px;margin:0 0 8px 0;">{{.Title}}</h3>
        <p style="color:#666;font-size:14px;margin:4px 0 12px 0;">{{.Location}}</p>
        <a href="{{.URL}}" style="display:inline-block;background-color:#0078d4;color:white;padding:10px 20px;text-decoration:none;border-radius:4px;font-size:14px;">View Job</a>
      </div>
{{- end}}
    </div>
    <div style="background-color:#f5f5f5;padding:16px 24px;text-align:center;font-size:12px;color:#888;">
      <p>Sent by your job alert bot.</p>
    </div>
  </div>
</body>
</html>
`

var bodyTmpl = template.Must(template.New("body").Parse(bodyTemplate))

// RenderBody builds the HTML digest. Absent fields get the listing's
// historical placeholders so the layout never collapses.
func RenderBody(fresh []domain.JobPosting) (string, error) {
	rows := make([]domain.JobPosting, 0, len(fresh))
	for _, p := range fresh {
		if p.Title == "" {
			p.Title = "Unknown Role"
		}
		if p.Location == "" {
			p.Location = "Unknown Location"
		}
		if p.URL == "" {
			p.URL = "#"
		}
		rows = append(rows, p)
	}

	var buf bytes.Buffer
	if err := bodyTmpl.Execute(&buf, rows); err != nil {
		return "", err
	}
	return buf.String(), nil
}
