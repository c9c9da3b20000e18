package services

import (
	"context"
	"fmt"

	"lifeline/internal/models"
	"lifeline/internal/repositories/interfaces"
	"lifeline/pkg/logger"
	"lifeline/pkg/push"
	"lifeline/pkg/sms"
)

// NotificationService fans emergency updates out to people and devices: SMS
// to the user's emergency contacts on trigger, push to the user's own device
// on every status change. Delivery failures are logged and swallowed; the
// SOS flow never fails because a message did not send.
type NotificationService interface {
	NotifyEmergencyContacts(ctx context.Context, profile *models.EmergencyProfile, event *models.SOSEvent)
	NotifyStatusChange(ctx context.Context, event *models.SOSEvent)
}

type notificationService struct {
	smsProvider  sms.SMSProvider
	pushProvider push.PushProvider
	profileRepo  interfaces.ProfileRepository
	logger       *logger.Logger
}

func NewNotificationService(
	smsProvider sms.SMSProvider,
	pushProvider push.PushProvider,
	profileRepo interfaces.ProfileRepository,
	log *logger.Logger,
) NotificationService {
	return &notificationService{
		smsProvider:  smsProvider,
		pushProvider: pushProvider,
		profileRepo:  profileRepo,
		logger:       log,
	}
}

func (s *notificationService) NotifyEmergencyContacts(ctx context.Context, profile *models.EmergencyProfile, event *models.SOSEvent) {
	if s.smsProvider == nil || len(profile.EmergencyContacts) == 0 {
		return
	}

	name := profile.Name
	if name == "" {
		name = "Your contact"
	}
	body := fmt.Sprintf(
		"%s has triggered an emergency SOS (%s). Live location: https://maps.google.com/?q=%f,%f",
		name, event.EmergencyType, event.Location.Latitude(), event.Location.Longitude(),
	)

	requests := make([]*sms.SMSRequest, 0, len(profile.EmergencyContacts))
	for _, contact := range profile.EmergencyContacts {
		if contact.Phone == "" {
			continue
		}
		requests = append(requests, &sms.SMSRequest{
			To:      contact.Phone,
			Message: body,
			Type:    "transactional",
		})
	}
	if len(requests) == 0 {
		return
	}

	if _, err := s.smsProvider.SendBulkSMS(ctx, requests); err != nil {
		s.logger.WithEventID(event.ID).WithError(err).Error("failed to notify emergency contacts")
		return
	}

	s.logger.WithEventID(event.ID).Infof("notified %d emergency contacts", len(requests))
}

func (s *notificationService) NotifyStatusChange(ctx context.Context, event *models.SOSEvent) {
	if s.pushProvider == nil {
		return
	}

	token := s.deviceToken(ctx, event)
	if token == "" {
		return
	}

	var title, body string
	switch event.Status {
	case models.SOSStatusAcknowledged:
		title = "Help is coming"
		body = "Your SOS has been received by emergency services."
	case models.SOSStatusOnTheWay:
		title = "Ambulance dispatched"
		body = fmt.Sprintf("Ambulance %s is on the way to you.", event.AssignedAmbulanceID)
	case models.SOSStatusResolved:
		title = "Emergency resolved"
		body = "Your SOS event has been closed."
	default:
		return
	}

	_, err := s.pushProvider.SendNotification(ctx, &push.NotificationRequest{
		Token: token,
		Title: title,
		Body:  body,
		Data: map[string]string{
			"event_id": event.ID.Hex(),
			"status":   string(event.Status),
		},
	})
	if err != nil {
		s.logger.WithEventID(event.ID).WithError(err).Error("failed to push status notification")
	}
}

// deviceToken is resolved per send; the profile carries whatever token the
// mobile app last registered.
func (s *notificationService) deviceToken(ctx context.Context, event *models.SOSEvent) string {
	if s.profileRepo == nil {
		return ""
	}
	profile, err := s.profileRepo.GetByUserID(ctx, event.UserID)
	if err != nil || profile == nil {
		return ""
	}
	return profile.DeviceToken
}
