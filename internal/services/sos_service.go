package services

import (
	"context"
	"sync"
	"time"

	"lifeline/internal/models"
	"lifeline/internal/repositories/interfaces"
	"lifeline/internal/utils"
	"lifeline/pkg/logger"
	"lifeline/pkg/maps"
	"lifeline/pkg/websocket"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SOSService owns the lifecycle of emergency events: triggered ->
// acknowledged -> on_the_way -> resolved. All transition checks happen under
// a per-event mutex so concurrent writers cannot race the check-then-set.
type SOSService interface {
	TriggerSOS(ctx context.Context, request *models.SOSCreateRequest) (*models.SOSEvent, error)
	AcknowledgeSOS(ctx context.Context, eventID primitive.ObjectID) (*models.SOSEvent, error)
	DispatchAmbulance(ctx context.Context, eventID primitive.ObjectID, request *models.SOSDispatchRequest) (*models.SOSEvent, error)
	UpdateAmbulancePosition(ctx context.Context, eventID primitive.ObjectID, position models.LatLng, progressIndex int) (*models.SOSEvent, error)
	ResolveSOS(ctx context.Context, eventID primitive.ObjectID) (*models.SOSEvent, error)

	GetEvent(ctx context.Context, eventID primitive.ObjectID) (*models.SOSEvent, error)
	GetActiveEvents(ctx context.Context) ([]*models.SOSEvent, error)
	GetUserHistory(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.SOSEvent, int64, error)
	EraseUserData(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

type sosService struct {
	sosRepo       interfaces.SOSRepository
	grantRepo     interfaces.GrantRepository
	profileRepo   interfaces.ProfileRepository
	audit         AuditService
	notifier      NotificationService
	routeProvider maps.RouteProvider
	wsHandler     *websocket.Handler
	logger        *logger.Logger
	locks         eventLocks
}

func NewSOSService(
	sosRepo interfaces.SOSRepository,
	grantRepo interfaces.GrantRepository,
	profileRepo interfaces.ProfileRepository,
	audit AuditService,
	notifier NotificationService,
	routeProvider maps.RouteProvider,
	wsHandler *websocket.Handler,
	log *logger.Logger,
) SOSService {
	return &sosService{
		sosRepo:       sosRepo,
		grantRepo:     grantRepo,
		profileRepo:   profileRepo,
		audit:         audit,
		notifier:      notifier,
		routeProvider: routeProvider,
		wsHandler:     wsHandler,
		logger:        log,
		locks:         eventLocks{entries: make(map[primitive.ObjectID]*sync.Mutex)},
	}
}

// eventLocks serializes mutations per event. Position feeds may have
// multiple writers; the monotonic check has to happen inside the critical
// section.
type eventLocks struct {
	mu      sync.Mutex
	entries map[primitive.ObjectID]*sync.Mutex
}

func (l *eventLocks) get(id primitive.ObjectID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.entries[id]
	if !ok {
		lock = &sync.Mutex{}
		l.entries[id] = lock
	}
	return lock
}

func (l *eventLocks) release(id primitive.ObjectID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, id)
}

func (s *sosService) TriggerSOS(ctx context.Context, request *models.SOSCreateRequest) (*models.SOSEvent, error) {
	if request.UserID.IsZero() {
		return nil, validationError("user_id is required")
	}
	if request.EmergencyType == "" {
		return nil, validationError("emergency_type is required")
	}
	if !utils.IsValidCoordinates(request.Latitude, request.Longitude) {
		return nil, validationError("coordinates out of range")
	}

	event := &models.SOSEvent{
		UserID:        request.UserID,
		EmergencyType: request.EmergencyType,
		Status:        models.SOSStatusTriggered,
		Location:      models.NewLocation(request.Latitude, request.Longitude),
	}

	if err := s.sosRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	// The disclosure grant is created with the event. Fields come from the
	// user's sharing preferences; a missing profile falls back to defaults.
	prefs := models.DefaultSharingPreferences()
	profile, err := s.profileRepo.GetByUserID(ctx, request.UserID)
	if err == nil && profile != nil {
		prefs = profile.Sharing
	}

	now := time.Now()
	grant := &models.DisclosureGrant{
		UserID:     request.UserID,
		SOSEventID: event.ID,
		Fields:     models.FilterDisclosable(prefs.GrantedFields()),
		GrantedTo:  utils.EmergencyResponderParty,
		GrantedAt:  now,
		ExpiresAt:  now.Add(utils.DisclosureGrantTTL),
	}
	if err := s.grantRepo.Create(ctx, grant); err != nil {
		return nil, err
	}

	event.GrantID = grant.ID
	if err := s.sosRepo.Update(ctx, event.ID, map[string]interface{}{"grant_id": grant.ID}); err != nil {
		return nil, err
	}

	if s.audit != nil {
		s.audit.LogEmergencyAccess(ctx, event.UserID, event.ID.Hex(), utils.EmergencyResponderParty,
			"emergency consent granted on SOS trigger")
	}

	if s.notifier != nil && profile != nil && profile.AutoNotifyContacts {
		s.notifier.NotifyEmergencyContacts(ctx, profile, event)
	}

	s.publishStatus(event)

	if s.wsHandler != nil {
		s.wsHandler.SendResponderAlert("sos_triggered", map[string]interface{}{
			"event_id":       event.ID.Hex(),
			"emergency_type": event.EmergencyType,
			"lat":            event.Location.Latitude(),
			"lng":            event.Location.Longitude(),
		})
	}

	s.logger.WithUserID(event.UserID).WithEventID(event.ID).
		Infof("SOS triggered: %s", event.EmergencyType)

	return event, nil
}

func (s *sosService) AcknowledgeSOS(ctx context.Context, eventID primitive.ObjectID) (*models.SOSEvent, error) {
	lock := s.locks.get(eventID)
	lock.Lock()
	defer lock.Unlock()

	event, err := s.sosRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if !event.Status.CanTransitionTo(models.SOSStatusAcknowledged) {
		return nil, invalidTransitionError(event.Status, models.SOSStatusAcknowledged)
	}

	event.Status = models.SOSStatusAcknowledged
	if err := s.sosRepo.Update(ctx, eventID, map[string]interface{}{
		"status": models.SOSStatusAcknowledged,
	}); err != nil {
		return nil, err
	}

	s.notifyStatusChange(ctx, event)
	s.publishStatus(event)

	return event, nil
}

func (s *sosService) DispatchAmbulance(ctx context.Context, eventID primitive.ObjectID, request *models.SOSDispatchRequest) (*models.SOSEvent, error) {
	lock := s.locks.get(eventID)
	lock.Lock()
	defer lock.Unlock()

	event, err := s.sosRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if !event.Status.CanTransitionTo(models.SOSStatusOnTheWay) {
		return nil, invalidTransitionError(event.Status, models.SOSStatusOnTheWay)
	}
	ambulanceID := request.AmbulanceID
	if ambulanceID == "" {
		return nil, validationError("ambulance_id is required")
	}

	routePoints := request.RoutePoints
	if len(routePoints) == 0 {
		routePoints, err = s.fetchRoute(ctx, request.AmbulanceLocation, event)
		if err != nil {
			return nil, err
		}
	}
	if len(routePoints) < 2 {
		return nil, validationError("route must contain at least 2 points, got %d", len(routePoints))
	}

	route := DownsampleRoute(routePoints, utils.MaxRoutePoints)
	start := route[0]

	event.Status = models.SOSStatusOnTheWay
	event.AssignedAmbulanceID = ambulanceID
	event.RoutePoints = route
	event.RouteProgress = 0
	event.AmbulancePosition = &start

	if err := s.sosRepo.Update(ctx, eventID, map[string]interface{}{
		"status":                models.SOSStatusOnTheWay,
		"assigned_ambulance_id": ambulanceID,
		"route_points":          route,
		"route_progress":        0,
		"ambulance_position":    start,
	}); err != nil {
		return nil, err
	}

	s.notifyStatusChange(ctx, event)
	s.publishStatus(event)

	s.logger.WithEventID(eventID).
		Infof("ambulance %s dispatched with %d route points", ambulanceID, len(route))

	return event, nil
}

// fetchRoute asks the maps provider for a drivable path from the ambulance
// to the patient when the dispatcher did not supply one.
func (s *sosService) fetchRoute(ctx context.Context, from *models.LatLng, event *models.SOSEvent) ([]models.LatLng, error) {
	if from == nil {
		return nil, validationError("either route_points or ambulance_location is required")
	}
	if s.routeProvider == nil {
		return nil, validationError("no route provider configured; route_points required")
	}

	result, err := s.routeProvider.GetRoute(ctx,
		maps.Location{Latitude: from.Lat, Longitude: from.Lng},
		maps.Location{Latitude: event.Location.Latitude(), Longitude: event.Location.Longitude()},
	)
	if err != nil {
		return nil, err
	}

	points := make([]models.LatLng, len(result.Points))
	for i, p := range result.Points {
		points[i] = models.LatLng{Lat: p.Latitude, Lng: p.Longitude}
	}
	return points, nil
}

func (s *sosService) UpdateAmbulancePosition(ctx context.Context, eventID primitive.ObjectID, position models.LatLng, progressIndex int) (*models.SOSEvent, error) {
	lock := s.locks.get(eventID)
	lock.Lock()
	defer lock.Unlock()

	event, err := s.sosRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if event.Status.IsTerminal() {
		return nil, invalidTransitionError(event.Status, models.SOSStatusOnTheWay)
	}
	if event.Status != models.SOSStatusOnTheWay {
		return nil, invalidTransitionError(event.Status, models.SOSStatusOnTheWay)
	}

	// Monotonic guard: the feed arrives over unreliable networks and samples
	// can be delivered out of order. A stale index is dropped, not an error.
	if progressIndex < event.RouteProgress {
		s.logger.WithEventID(eventID).
			Debugf("stale position update dropped: index %d behind %d", progressIndex, event.RouteProgress)
		return event, nil
	}
	if progressIndex > len(event.RoutePoints) {
		progressIndex = len(event.RoutePoints)
	}

	event.AmbulancePosition = &position
	event.RouteProgress = progressIndex

	if err := s.sosRepo.Update(ctx, eventID, map[string]interface{}{
		"ambulance_position": position,
		"route_progress":     progressIndex,
	}); err != nil {
		return nil, err
	}

	s.publishPosition(event)

	return event, nil
}

func (s *sosService) ResolveSOS(ctx context.Context, eventID primitive.ObjectID) (*models.SOSEvent, error) {
	lock := s.locks.get(eventID)
	lock.Lock()
	defer lock.Unlock()

	event, err := s.sosRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if !event.Status.CanTransitionTo(models.SOSStatusResolved) {
		return nil, invalidTransitionError(event.Status, models.SOSStatusResolved)
	}

	now := time.Now()
	event.Status = models.SOSStatusResolved
	event.ResolvedAt = &now

	// Route points and progress stay as-is for historical display.
	if err := s.sosRepo.Update(ctx, eventID, map[string]interface{}{
		"status":      models.SOSStatusResolved,
		"resolved_at": now,
	}); err != nil {
		return nil, err
	}

	// Revocation is immediate and unconditional; any disclosure read after
	// this point is denied.
	if !event.GrantID.IsZero() {
		if err := s.grantRepo.Revoke(ctx, event.GrantID, now); err != nil {
			s.logger.WithEventID(eventID).WithError(err).Error("failed to revoke disclosure grant")
		} else if s.audit != nil {
			s.audit.LogGrantRevoked(ctx, event.UserID, event.ID.Hex())
		}
	}

	s.notifyStatusChange(ctx, event)
	s.publishStatus(event)
	s.locks.release(eventID)

	s.logger.WithUserID(event.UserID).WithEventID(eventID).Info("SOS resolved")

	return event, nil
}

func (s *sosService) GetEvent(ctx context.Context, eventID primitive.ObjectID) (*models.SOSEvent, error) {
	return s.sosRepo.GetByID(ctx, eventID)
}

func (s *sosService) GetActiveEvents(ctx context.Context) ([]*models.SOSEvent, error) {
	events, err := s.sosRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	// Responder dashboards only list events whose grant is still readable.
	now := time.Now()
	visible := make([]*models.SOSEvent, 0, len(events))
	for _, event := range events {
		grant, err := s.grantRepo.GetByEventID(ctx, event.ID)
		if err != nil || grant == nil {
			continue
		}
		if grant.Readable(now) {
			visible = append(visible, event)
		}
	}

	return visible, nil
}

func (s *sosService) GetUserHistory(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.SOSEvent, int64, error) {
	return s.sosRepo.GetByUserID(ctx, userID, params)
}

// EraseUserData removes every event, grant and the emergency profile for a
// user (right to erasure).
func (s *sosService) EraseUserData(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	deleted, err := s.sosRepo.DeleteByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}

	if _, err := s.grantRepo.DeleteByUserID(ctx, userID); err != nil {
		return deleted, err
	}
	if err := s.profileRepo.DeleteByUserID(ctx, userID); err != nil {
		return deleted, err
	}

	if s.audit != nil {
		s.audit.LogDataErasure(ctx, userID, deleted)
	}

	s.logger.WithUserID(userID).Infof("erased %d SOS events and emergency profile", deleted)

	return deleted, nil
}

func (s *sosService) notifyStatusChange(ctx context.Context, event *models.SOSEvent) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyStatusChange(ctx, event)
}

func (s *sosService) publishStatus(event *models.SOSEvent) {
	if s.wsHandler == nil {
		return
	}
	s.wsHandler.SendSOSUpdate(event.ID, "sos_status", map[string]interface{}{
		"status":                event.Status,
		"assigned_ambulance_id": event.AssignedAmbulanceID,
	})
}

func (s *sosService) publishPosition(event *models.SOSEvent) {
	if s.wsHandler == nil || event.AmbulancePosition == nil {
		return
	}
	s.wsHandler.SendSOSUpdate(event.ID, "ambulance_position", map[string]interface{}{
		"lat":            event.AmbulancePosition.Lat,
		"lng":            event.AmbulancePosition.Lng,
		"route_progress": event.RouteProgress,
	})
}
