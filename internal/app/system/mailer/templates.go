// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// ProjectAddedEmailData holds data for the project-added email sent to an
// investor when a project is distributed to them.
type ProjectAddedEmailData struct {
	SiteName     string
	ProjectName  string
	Technology   string
	Location     string
	CapacityMW   float64
	AccessTier   int
	DashboardURL string
}

// TierLabel returns the display label for the granted access tier.
func (d ProjectAddedEmailData) TierLabel() string {
	switch d.AccessTier {
	case 2:
		return "Tier 2 - Detailed Teaser"
	case 3:
		return "Tier 3 - Full Data Room"
	default:
		return "Tier 1 - Executive Summary"
	}
}

// TierColor returns the accent color used for the tier badge.
func (d ProjectAddedEmailData) TierColor() string {
	switch d.AccessTier {
	case 2:
		return "#d97706"
	case 3:
		return "#059669"
	default:
		return "#2563eb"
	}
}

// BuildProjectAddedEmail creates the notification email with both HTML and
// text bodies. The caller sets To.
func BuildProjectAddedEmail(data ProjectAddedEmailData) Email {
	return Email{
		To:       "", // Set by caller
		Subject:  fmt.Sprintf("New project available on %s: %s", data.SiteName, data.ProjectName),
		TextBody: buildProjectAddedText(data),
		HTMLBody: buildProjectAddedHTML(data),
	}
}

func buildProjectAddedText(data ProjectAddedEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("A new project has been shared with you on %s.\n\n", data.SiteName))
	buf.WriteString(fmt.Sprintf("Project:    %s\n", data.ProjectName))
	buf.WriteString(fmt.Sprintf("Technology: %s\n", data.Technology))
	if data.Location != "" {
		buf.WriteString(fmt.Sprintf("Location:   %s\n", data.Location))
	}
	if data.CapacityMW > 0 {
		buf.WriteString(fmt.Sprintf("Capacity:   %.1f MW\n", data.CapacityMW))
	}
	buf.WriteString(fmt.Sprintf("Your access: %s\n\n", data.TierLabel()))
	buf.WriteString("Sign in to your investor dashboard to review it:\n")
	buf.WriteString(data.DashboardURL + "\n")
	return buf.String()
}

func buildProjectAddedHTML(data ProjectAddedEmailData) string {
	tmpl := template.Must(template.New("project_added").Parse(projectAddedHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

const projectAddedHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>New Project Available</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 520px; background-color: #ffffff; border-radius: 8px; box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);">
          <!-- Header -->
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #166534;">{{.SiteName}}</h1>
            </td>
          </tr>

          <!-- Content -->
          <tr>
            <td style="padding: 32px;">
              <p style="margin: 0 0 24px; font-size: 16px; color: #374151; line-height: 1.5;">
                A new project has been shared with you:
              </p>

              <h2 style="margin: 0 0 16px; font-size: 20px; font-weight: 600; color: #1f2937;">{{.ProjectName}}</h2>

              <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="margin-bottom: 24px;">
                <tr>
                  <td style="padding: 4px 0; font-size: 14px; color: #6b7280;">Technology</td>
                  <td style="padding: 4px 0; font-size: 14px; color: #1f2937; text-align: right;">{{.Technology}}</td>
                </tr>
                {{if .Location}}
                <tr>
                  <td style="padding: 4px 0; font-size: 14px; color: #6b7280;">Location</td>
                  <td style="padding: 4px 0; font-size: 14px; color: #1f2937; text-align: right;">{{.Location}}</td>
                </tr>
                {{end}}
                {{if .CapacityMW}}
                <tr>
                  <td style="padding: 4px 0; font-size: 14px; color: #6b7280;">Capacity</td>
                  <td style="padding: 4px 0; font-size: 14px; color: #1f2937; text-align: right;">{{printf "%.1f" .CapacityMW}} MW</td>
                </tr>
                {{end}}
              </table>

              <!-- Tier Badge -->
              <div style="background-color: #f3f4f6; border-left: 4px solid {{.TierColor}}; border-radius: 4px; padding: 12px 16px; margin-bottom: 24px;">
                <span style="font-size: 14px; font-weight: 600; color: {{.TierColor}};">{{.TierLabel}}</span>
              </div>

              <!-- Button -->
              <table role="presentation" width="100%" cellspacing="0" cellpadding="0">
                <tr>
                  <td align="center">
                    <a href="{{.DashboardURL}}" style="display: inline-block; padding: 14px 32px; background-color: #166534; color: #ffffff; text-decoration: none; font-size: 16px; font-weight: 500; border-radius: 6px;">
                      View Project
                    </a>
                  </td>
                </tr>
              </table>
            </td>
          </tr>

          <!-- Footer -->
          <tr>
            <td style="padding: 24px 32px; background-color: #f9fafb; border-top: 1px solid #e5e7eb; border-radius: 0 0 8px 8px;">
              <p style="margin: 0; font-size: 12px; color: #9ca3af; text-align: center;">
                You received this email because a project was shared with your investor account.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
