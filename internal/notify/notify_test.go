package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"funds/internal/models"

	"github.com/shopspring/decimal"
)

type recordingEmail struct {
	to      string
	subject string
	body    string
	err     error
}

func (r *recordingEmail) SendEmail(_ context.Context, to, subject, body string) error {
	r.to = to
	r.subject = subject
	r.body = body
	return r.err
}

type recordingSMS struct {
	phone   string
	message string
}

func (r *recordingSMS) SendSMS(_ context.Context, phone, message string) error {
	r.phone = phone
	r.message = message
	return nil
}

func TestNotifySubscriptionByEmail(t *testing.T) {
	email := &recordingEmail{}
	sms := &recordingSMS{}
	dispatcher := NewDispatcher(email, sms)
	user := models.User{ID: "user-1", Email: "amaria@example.com", NotificationPreference: models.NotifyEmail}
	fund := models.Fund{Name: "DEUDAPRIVADA"}
	tx := models.Transaction{Amount: decimal.NewFromInt(150000)}
	if err := dispatcher.NotifySubscription(context.Background(), user, fund, tx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if email.to != "amaria@example.com" {
		t.Fatalf("unexpected recipient: %s", email.to)
	}
	if !strings.Contains(email.body, "DEUDAPRIVADA") || !strings.Contains(email.body, "150000.00") {
		t.Fatalf("unexpected body: %s", email.body)
	}
	if sms.phone != "" {
		t.Fatalf("sms should not be sent")
	}
}

func TestNotifyCancellationBySMS(t *testing.T) {
	email := &recordingEmail{}
	sms := &recordingSMS{}
	dispatcher := NewDispatcher(email, sms)
	user := models.User{ID: "user-1", PhoneNumber: "+573001112233", NotificationPreference: models.NotifySMS}
	fund := models.Fund{Name: "FDO-ACCIONES"}
	tx := models.Transaction{Amount: decimal.NewFromInt(250000)}
	if err := dispatcher.NotifyCancellation(context.Background(), user, fund, tx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sms.phone != "+573001112233" || !strings.Contains(sms.message, "FDO-ACCIONES") {
		t.Fatalf("unexpected sms: %#v", sms)
	}
	if email.to != "" {
		t.Fatalf("email should not be sent")
	}
}

func TestNotifySMSWithoutPhoneFallsBackToEmail(t *testing.T) {
	email := &recordingEmail{}
	sms := &recordingSMS{}
	dispatcher := NewDispatcher(email, sms)
	user := models.User{ID: "user-1", Email: "amaria@example.com", NotificationPreference: models.NotifySMS}
	tx := models.Transaction{Amount: decimal.NewFromInt(100000)}
	if err := dispatcher.NotifySubscription(context.Background(), user, models.Fund{Name: "X"}, tx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if email.to != "amaria@example.com" {
		t.Fatalf("expected email fallback, got %#v", email)
	}
}

func TestNotifyPropagatesSenderError(t *testing.T) {
	email := &recordingEmail{err: errors.New("smtp down")}
	dispatcher := NewDispatcher(email, &recordingSMS{})
	user := models.User{Email: "amaria@example.com", NotificationPreference: models.NotifyEmail}
	err := dispatcher.NotifySubscription(context.Background(), user, models.Fund{}, models.Transaction{})
	if err == nil || err.Error() != "smtp down" {
		t.Fatalf("expected sender error, got %v", err)
	}
}
