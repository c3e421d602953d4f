// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"html/template"
	"sort"
	"strings"
)

// SubmissionEmailData contains the data for a new-submission notification.
type SubmissionEmailData struct {
	AppName   string
	Reference string
	FormLabel string // "Contact", "Quote request", ...
	Name      string
	Email     string
	Phone     string
	Company   string
	Message   string
	Details   map[string]string
	AdminURL  string
}

// detailRow is one line of the type-specific fields, sorted by key.
type detailRow struct {
	Label string
	Value string
}

func (d SubmissionEmailData) rows() []detailRow {
	keys := make([]string, 0, len(d.Details))
	for k := range d.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]detailRow, 0, len(keys))
	for _, k := range keys {
		out = append(out, detailRow{Label: humanize(k), Value: d.Details[k]})
	}
	return out
}

// SubmissionEmail generates both plain text and HTML versions of the admin
// notification for a new form submission.
func SubmissionEmail(data SubmissionEmailData) (subject, textBody, htmlBody string) {
	subject = headerValue("[" + data.AppName + "] New " + strings.ToLower(data.FormLabel) + " from " + data.Name +
		" (" + data.Reference + ")")

	var tb strings.Builder
	tb.WriteString("A new " + strings.ToLower(data.FormLabel) + " was submitted.\n\n")
	tb.WriteString("Reference: " + data.Reference + "\n")
	tb.WriteString("Name: " + data.Name + "\n")
	tb.WriteString("Email: " + data.Email + "\n")
	if data.Phone != "" {
		tb.WriteString("Phone: " + data.Phone + "\n")
	}
	if data.Company != "" {
		tb.WriteString("Company: " + data.Company + "\n")
	}
	for _, r := range data.rows() {
		tb.WriteString(r.Label + ": " + r.Value + "\n")
	}
	if data.Message != "" {
		tb.WriteString("\n" + data.Message + "\n")
	}
	if data.AdminURL != "" {
		tb.WriteString("\nReview it at:\n" + data.AdminURL + "\n")
	}
	textBody = tb.String()

	// HTML version; html/template escapes every visitor-supplied value
	var buf bytes.Buffer
	_ = submissionHTMLTmpl.Execute(&buf, struct {
		SubmissionEmailData
		Rows []detailRow
	}{data, data.rows()})
	htmlBody = buf.String()

	return subject, textBody, htmlBody
}

// humanize turns "product_name" into "Product name".
func humanize(key string) string {
	s := strings.ReplaceAll(key, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var submissionHTMLTmpl = template.Must(template.New("submission").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>New submission</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f4f4f5;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f4f4f5;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 560px; background-color: #ffffff; border-radius: 8px; box-shadow: 0 1px 3px rgba(0,0,0,0.1);">
          <!-- Header -->
          <tr>
            <td style="padding: 32px 32px 24px 32px; text-align: center; border-bottom: 1px solid #e4e4e7;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #18181b;">{{.AppName}}</h1>
            </td>
          </tr>
          <!-- Content -->
          <tr>
            <td style="padding: 32px;">
              <h2 style="margin: 0 0 16px 0; font-size: 20px; font-weight: 600; color: #18181b;">New {{.FormLabel}}</h2>
              <table role="presentation" width="100%" cellspacing="0" cellpadding="4" style="font-size: 15px; color: #52525b;">
                <tr><td><strong>Reference</strong></td><td>{{.Reference}}</td></tr>
                <tr><td><strong>Name</strong></td><td>{{.Name}}</td></tr>
                <tr><td><strong>Email</strong></td><td>{{.Email}}</td></tr>
                {{if .Phone}}<tr><td><strong>Phone</strong></td><td>{{.Phone}}</td></tr>{{end}}
                {{if .Company}}<tr><td><strong>Company</strong></td><td>{{.Company}}</td></tr>{{end}}
                {{range .Rows}}<tr><td><strong>{{.Label}}</strong></td><td>{{.Value}}</td></tr>{{end}}
              </table>
              {{if .Message}}<p style="margin: 24px 0 0 0; font-size: 15px; line-height: 1.6; color: #52525b; white-space: pre-line;">{{.Message}}</p>{{end}}
              {{if .AdminURL}}
              <!-- Button -->
              <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="margin-top: 24px;">
                <tr>
                  <td align="center">
                    <a href="{{.AdminURL}}" style="display: inline-block; padding: 12px 32px; background-color: #2563eb; color: #ffffff; text-decoration: none; font-size: 15px; font-weight: 500; border-radius: 6px;">Review submission</a>
                  </td>
                </tr>
              </table>
              {{end}}
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`))
