package services

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/arnold/selfcare-api/internal/models"
	"github.com/arnold/selfcare-api/internal/selfcare"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Sender is the subset of the FCM client we use.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// PushService handles sending push notifications via Firebase Cloud Messaging
type PushService struct {
	client Sender
	log    *zap.Logger
}

// NewPush wraps an existing sender. A nil sender disables push.
func NewPush(client Sender, log *zap.Logger) *PushService {
	return &PushService{client: client, log: log}
}

// InitPush initializes the Firebase push notification service.
// Returns a disabled service if no service account is configured (dev mode)
// or Firebase cannot be reached.
func InitPush(ctx context.Context, serviceAccountPath string, log *zap.Logger) *PushService {
	if serviceAccountPath == "" {
		log.Info("FCM: no service account configured, push notifications disabled")
		return NewPush(nil, log)
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(serviceAccountPath))
	if err != nil {
		log.Warn("FCM: failed to initialize Firebase app", zap.Error(err))
		return NewPush(nil, log)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		log.Warn("FCM: failed to get messaging client", zap.Error(err))
		return NewPush(nil, log)
	}

	log.Info("FCM: push notifications enabled")
	return NewPush(client, log)
}

func (p *PushService) Enabled() bool {
	return p != nil && p.client != nil
}

// SendToUser sends a push notification to the user's registered device.
// No-op if push is not configured or user has no FCM token.
func (p *PushService) SendToUser(ctx context.Context, user *models.User, title, body string, data map[string]string) {
	if !p.Enabled() || user == nil || user.FCMToken == "" {
		return
	}

	msg := &messaging.Message{
		Token: user.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	if _, err := p.client.Send(ctx, msg); err != nil {
		p.log.Warn("FCM: failed to send", zap.Stringer("userId", user.ID), zap.Error(err))
	}
}

// ActivityCompleted tells the user their weekly total after a completion.
func (p *PushService) ActivityCompleted(ctx context.Context, user *models.User, a models.Activity, weeklyHours float64) {
	p.SendToUser(ctx, user,
		"Activity completed",
		fmt.Sprintf("%s done. %s hrs of self-care this week.", a.Title, selfcare.FormatHours(weeklyHours)),
		map[string]string{
			"type":        "activity_completed",
			"activityId":  a.ID.String(),
			"weeklyHours": selfcare.FormatHours(weeklyHours),
		},
	)
}
