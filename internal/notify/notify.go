package notify

import (
	"context"
	"fmt"
	"log"

	"funds/internal/models"
	"funds/internal/money"
)

const (
	subscriptionSubject = "Fund Subscription Confirmation"
	cancellationSubject = "Fund Cancellation Confirmation"
)

type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) error
}

// Dispatcher routes a notification by the user's preference. A user who
// prefers SMS but has no phone number falls back to email.
type Dispatcher struct {
	email EmailSender
	sms   SMSSender
}

func NewDispatcher(email EmailSender, sms SMSSender) *Dispatcher {
	return &Dispatcher{email: email, sms: sms}
}

func (d *Dispatcher) NotifySubscription(ctx context.Context, user models.User, fund models.Fund, tx models.Transaction) error {
	amount := money.Format(tx.Amount)
	if user.NotificationPreference == models.NotifySMS && user.PhoneNumber != "" {
		message := fmt.Sprintf("Subscription to fund %s for %s confirmed.", fund.Name, amount)
		return d.sms.SendSMS(ctx, user.PhoneNumber, message)
	}
	if user.NotificationPreference == models.NotifySMS {
		log.Printf("user %s prefers sms but has no phone number, sending email", user.ID)
	}
	body := fmt.Sprintf("Your subscription to fund %s has been processed. Amount: %s.", fund.Name, amount)
	return d.email.SendEmail(ctx, user.Email, subscriptionSubject, body)
}

func (d *Dispatcher) NotifyCancellation(ctx context.Context, user models.User, fund models.Fund, tx models.Transaction) error {
	amount := money.Format(tx.Amount)
	if user.NotificationPreference == models.NotifySMS && user.PhoneNumber != "" {
		message := fmt.Sprintf("Cancellation of fund %s confirmed. Amount returned: %s.", fund.Name, amount)
		return d.sms.SendSMS(ctx, user.PhoneNumber, message)
	}
	if user.NotificationPreference == models.NotifySMS {
		log.Printf("user %s prefers sms but has no phone number, sending email", user.ID)
	}
	body := fmt.Sprintf("Your cancellation of fund %s has been processed. Amount returned: %s.", fund.Name, amount)
	return d.email.SendEmail(ctx, user.Email, cancellationSubject, body)
}

// LogEmailSender and LogSMSSender stand in for a real delivery provider in
// development and tests.
type LogEmailSender struct{}

func (LogEmailSender) SendEmail(_ context.Context, to, subject, _ string) error {
	log.Printf("email sent to=%s subject=%q", to, subject)
	return nil
}

type LogSMSSender struct{}

func (LogSMSSender) SendSMS(_ context.Context, phone, _ string) error {
	log.Printf("sms sent to=%s", phone)
	return nil
}
