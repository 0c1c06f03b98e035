// Package email delivers transactional mail to sales team members.
package email

import (
	"context"
	"time"
)

// FollowUpDue is the content of a follow-up reminder email.
type FollowUpDue struct {
	MemberName string
	LeadName   string
	FollowUpAt time.Time
	LeadURL    string
}

type Sender interface {
	SendFollowUpDueEmail(ctx context.Context, toEmail string, data FollowUpDue) error
}

// NoopSender drops every message. Used when SMTP is not configured.
type NoopSender struct{}

func (NoopSender) SendFollowUpDueEmail(context.Context, string, FollowUpDue) error {
	return nil
}

var (
	_ Sender = NoopSender{}
	_ Sender = (*SMTPSender)(nil)
)
