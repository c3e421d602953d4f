package mailer

import (
	"context"
	"strings"

	"github.com/dalemusser/stratasite/internal/domain/models"
)

// Sender delivers one email.
type Sender interface {
	Send(ctx context.Context, email Email) error
}

// SubmissionNotifier emails the site admins when a visitor submits a form.
type SubmissionNotifier struct {
	sender  Sender
	to      string
	appName string
	baseURL string
}

// NewSubmissionNotifier returns a notifier that writes to the address to.
// baseURL, when set, is used to link to the submission in the admin API.
func NewSubmissionNotifier(sender Sender, to, appName, baseURL string) *SubmissionNotifier {
	return &SubmissionNotifier{
		sender:  sender,
		to:      to,
		appName: appName,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// SubmissionReceived sends the notification for sub.
func (n *SubmissionNotifier) SubmissionReceived(ctx context.Context, sub *models.FormSubmission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data := SubmissionEmailData{
		AppName:   n.appName,
		Reference: sub.Reference,
		FormLabel: sub.Type.Label(),
		Name:      sub.Name,
		Email:     sub.Email,
		Phone:     strings.TrimSpace(sub.PhoneCountryCode + " " + sub.Phone),
		Company:   sub.Company,
		Message:   sub.Message,
		Details:   sub.Details,
	}
	if n.baseURL != "" {
		data.AdminURL = n.baseURL + "/api/admin/submissions/" + sub.ID.Hex()
	}
	subject, text, html := SubmissionEmail(data)
	return n.sender.Send(ctx, Email{
		To:       n.to,
		Subject:  subject,
		TextBody: text,
		HTMLBody: html,
	})
}
