package email

import (
	"bytes"
	"fmt"
	"html/template"
)

const subjectFollowUpDueFmt = "Follow-up due: %s"

const baseTemplate = `{{define "email"}}<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
<h2>{{.Heading}}</h2>
{{template "body" .}}
{{if .CTAURL}}<p><a href="{{.CTAURL}}" style="background:#2563eb;color:#fff;padding:10px 16px;border-radius:6px;text-decoration:none;">{{.CTALabel}}</a></p>{{end}}
</body>
</html>{{end}}`

var templates = map[string]string{
	"follow_up_due": `{{define "body"}}<p>Hi {{.MemberName}},</p>
<p>Your follow-up with <strong>{{.LeadName}}</strong> was scheduled for {{.DueFormatted}}.</p>{{end}}`,
}

type baseEmailData struct {
	Title    string
	Heading  string
	CTALabel string
	CTAURL   string
}

type followUpDueEmailData struct {
	baseEmailData
	MemberName   string
	LeadName     string
	DueFormatted string
}

func renderEmailTemplate(name string, data any) (string, error) {
	body, ok := templates[name]
	if !ok {
		return "", fmt.Errorf("unknown email template %s", name)
	}

	tmpl, err := template.New("email").Parse(baseTemplate)
	if err == nil {
		_, err = tmpl.Parse(body)
	}
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func renderFollowUpDue(data FollowUpDue) (subject, html string, err error) {
	name := data.MemberName
	if name == "" {
		name = "there"
	}
	html, err = renderEmailTemplate("follow_up_due", followUpDueEmailData{
		baseEmailData: baseEmailData{
			Title:    "Follow-up due",
			Heading:  "Follow-up due",
			CTALabel: "Open lead",
			CTAURL:   data.LeadURL,
		},
		MemberName:   name,
		LeadName:     data.LeadName,
		DueFormatted: data.FollowUpAt.UTC().Format("Mon 2 Jan 2006 15:04 MST"),
	})
	return fmt.Sprintf(subjectFollowUpDueFmt, data.LeadName), html, err
}
