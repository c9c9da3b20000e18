package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"lifeline/internal/models"
	"lifeline/internal/utils"
	"lifeline/pkg/maps"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type sosFixture struct {
	service     SOSService
	sosRepo     *fakeSOSRepo
	grantRepo   *fakeGrantRepo
	profileRepo *fakeProfileRepo
	auditRepo   *fakeAuditRepo
	routes      *fakeRouteProvider
}

func newSOSFixture(t *testing.T) *sosFixture {
	t.Helper()
	log := testLogger(t)

	f := &sosFixture{
		sosRepo:     newFakeSOSRepo(),
		grantRepo:   newFakeGrantRepo(),
		profileRepo: newFakeProfileRepo(),
		auditRepo:   &fakeAuditRepo{},
		routes:      &fakeRouteProvider{},
	}
	audit := NewAuditService(f.auditRepo, log)
	f.service = NewSOSService(f.sosRepo, f.grantRepo, f.profileRepo, audit, nil, f.routes, nil, log)
	return f
}

func (f *sosFixture) trigger(t *testing.T) *models.SOSEvent {
	t.Helper()
	event, err := f.service.TriggerSOS(context.Background(), &models.SOSCreateRequest{
		UserID:        primitive.NewObjectID(),
		Latitude:      12.9716,
		Longitude:     77.5946,
		EmergencyType: "cardiac",
	})
	if err != nil {
		t.Fatalf("TriggerSOS: %v", err)
	}
	return event
}

func (f *sosFixture) dispatch(t *testing.T, eventID primitive.ObjectID, points int) *models.SOSEvent {
	t.Helper()
	event, err := f.service.DispatchAmbulance(context.Background(), eventID, &models.SOSDispatchRequest{
		AmbulanceID: "AMB-42",
		RoutePoints: makeRoute(points),
	})
	if err != nil {
		t.Fatalf("DispatchAmbulance: %v", err)
	}
	return event
}

func TestTriggerSOS(t *testing.T) {
	f := newSOSFixture(t)
	ctx := context.Background()

	event := f.trigger(t)

	if event.Status != models.SOSStatusTriggered {
		t.Errorf("status = %s, want triggered", event.Status)
	}
	if event.GrantID.IsZero() {
		t.Fatal("expected a disclosure grant to be created with the event")
	}

	grant, err := f.grantRepo.GetByID(ctx, event.GrantID)
	if err != nil {
		t.Fatalf("grant not stored: %v", err)
	}
	if !grant.Readable(time.Now()) {
		t.Error("fresh grant should be readable")
	}
	if grant.GrantedTo != utils.EmergencyResponderParty {
		t.Errorf("granted_to = %s, want %s", grant.GrantedTo, utils.EmergencyResponderParty)
	}
	wantExpiry := time.Now().Add(utils.DisclosureGrantTTL)
	if grant.ExpiresAt.Before(wantExpiry.Add(-time.Minute)) || grant.ExpiresAt.After(wantExpiry.Add(time.Minute)) {
		t.Errorf("grant expiry %v not near %v", grant.ExpiresAt, wantExpiry)
	}

	// Without a profile the grant carries the default sharing set.
	hasName := false
	for _, field := range grant.Fields {
		if field == models.FieldName {
			hasName = true
		}
	}
	if hasName {
		t.Error("name is opt-in and must not be in a default grant")
	}
}

func TestTriggerSOSValidation(t *testing.T) {
	f := newSOSFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		request models.SOSCreateRequest
	}{
		{"missing user", models.SOSCreateRequest{Latitude: 10, Longitude: 10, EmergencyType: "medical"}},
		{"missing type", models.SOSCreateRequest{UserID: primitive.NewObjectID(), Latitude: 10, Longitude: 10}},
		{"latitude out of range", models.SOSCreateRequest{UserID: primitive.NewObjectID(), Latitude: 91, Longitude: 10, EmergencyType: "medical"}},
		{"longitude out of range", models.SOSCreateRequest{UserID: primitive.NewObjectID(), Latitude: 10, Longitude: -181, EmergencyType: "medical"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.TriggerSOS(ctx, &tt.request)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("got %v, want ErrValidation", err)
			}
		})
	}
}

func TestSOSLifecycle(t *testing.T) {
	f := newSOSFixture(t)
	ctx := context.Background()

	event := f.trigger(t)

	event, err := f.service.AcknowledgeSOS(ctx, event.ID)
	if err != nil {
		t.Fatalf("AcknowledgeSOS: %v", err)
	}
	if event.Status != models.SOSStatusAcknowledged {
		t.Errorf("status = %s, want acknowledged", event.Status)
	}

	event = f.dispatch(t, event.ID, 100)
	if event.Status != models.SOSStatusOnTheWay {
		t.Errorf("status = %s, want on_the_way", event.Status)
	}
	if event.AssignedAmbulanceID != "AMB-42" {
		t.Errorf("ambulance = %s, want AMB-42", event.AssignedAmbulanceID)
	}
	if event.RouteProgress != 0 {
		t.Errorf("route progress starts at %d, want 0", event.RouteProgress)
	}
	if event.AmbulancePosition == nil || *event.AmbulancePosition != event.RoutePoints[0] {
		t.Error("ambulance position should start at the route origin")
	}

	event, err = f.service.ResolveSOS(ctx, event.ID)
	if err != nil {
		t.Fatalf("ResolveSOS: %v", err)
	}
	if event.Status != models.SOSStatusResolved {
		t.Errorf("status = %s, want resolved", event.Status)
	}
	if event.ResolvedAt == nil {
		t.Error("resolved_at should be set")
	}
	if len(event.RoutePoints) == 0 {
		t.Error("route should be kept for historical display")
	}
}

func TestSOSInvalidTransitions(t *testing.T) {
	f := newSOSFixture(t)
	ctx := context.Background()

	t.Run("dispatch before acknowledge", func(t *testing.T) {
		event := f.trigger(t)
		_, err := f.service.DispatchAmbulance(ctx, event.ID, &models.SOSDispatchRequest{
			AmbulanceID: "AMB-1",
			RoutePoints: makeRoute(10),
		})
		if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("got %v, want ErrInvalidTransition", err)
		}
	})

	t.Run("acknowledge twice", func(t *testing.T) {
		event := f.trigger(t)
		if _, err := f.service.AcknowledgeSOS(ctx, event.ID); err != nil {
			t.Fatalf("first acknowledge: %v", err)
		}
		_, err := f.service.AcknowledgeSOS(ctx, event.ID)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("got %v, want ErrInvalidTransition", err)
		}
	})

	t.Run("mutate resolved event", func(t *testing.T) {
		event := f.trigger(t)
		if _, err := f.service.ResolveSOS(ctx, event.ID); err != nil {
			t.Fatalf("resolve: %v", err)
		}
		_, err := f.service.AcknowledgeSOS(ctx, event.ID)
		if !errors.Is(err, ErrTerminalState) {
			t.Errorf("acknowledge after resolve: got %v, want ErrTerminalState", err)
		}
		_, err = f.service.UpdateAmbulancePosition(ctx, event.ID, models.LatLng{Lat: 1, Lng: 1}, 5)
		if !errors.Is(err, ErrTerminalState) {
			t.Errorf("position after resolve: got %v, want ErrTerminalState", err)
		}
		_, err = f.service.ResolveSOS(ctx, event.ID)
		if !errors.Is(err, ErrTerminalState) {
			t.Errorf("resolve twice: got %v, want ErrTerminalState", err)
		}
	})

	t.Run("resolve straight from triggered", func(t *testing.T) {
		event := f.trigger(t)
		if _, err := f.service.ResolveSOS(ctx, event.ID); err != nil {
			t.Errorf("user cancel before dispatch should succeed, got %v", err)
		}
	})
}

func TestDispatchWithAmbulanceLocation(t *testing.T) {
	f := newSOSFixture(t)
	ctx := context.Background()

	event := f.trigger(t)
	if _, err := f.service.AcknowledgeSOS(ctx, event.ID); err != nil {
		t.Fatalf("acknowledge: %v", err)
	}

	f.routes.points = make([]maps.Location, 50)
	for i := range f.routes.points {
		f.routes.points[i] = maps.Location{Latitude: float64(i) * 0.001, Longitude: float64(i) * 0.001}
	}

	got, err := f.service.DispatchAmbulance(ctx, event.ID, &models.SOSDispatchRequest{
		AmbulanceID:       "AMB-7",
		AmbulanceLocation: &models.LatLng{Lat: 12.95, Lng: 77.60},
	})
	if err != nil {
		t.Fatalf("DispatchAmbulance: %v", err)
	}
	if f.routes.calls != 1 {
		t.Errorf("provider called %d times, want 1", f.routes.calls)
	}
	if len(got.RoutePoints) != 50 {
		t.Errorf("got %d route points, want 50", len(got.RoutePoints))
	}
}

func TestDispatchRouteValidation(t *testing.T) {
	f := newSOSFixture(t)
	ctx := context.Background()

	event := f.trigger(t)
	if _, err := f.service.AcknowledgeSOS(ctx, event.ID); err != nil {
		t.Fatalf("acknowledge: %v", err)
	}

	t.Run("neither route nor location", func(t *testing.T) {
		_, err := f.service.DispatchAmbulance(ctx, event.ID, &models.SOSDispatchRequest{AmbulanceID: "AMB-1"})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("got %v, want ErrValidation", err)
		}
	})

	t.Run("single point route", func(t *testing.T) {
		_, err := f.service.DispatchAmbulance(ctx, event.ID, &models.SOSDispatchRequest{
			AmbulanceID: "AMB-1",
			RoutePoints: makeRoute(1),
		})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("got %v, want ErrValidation", err)
		}
	})

	t.Run("long route is downsampled", func(t *testing.T) {
		got, err := f.service.DispatchAmbulance(ctx, event.ID, &models.SOSDispatchRequest{
			AmbulanceID: "AMB-1",
			RoutePoints: makeRoute(1200),
		})
		if err != nil {
			t.Fatalf("DispatchAmbulance: %v", err)
		}
		if len(got.RoutePoints) > utils.MaxRoutePoints+1 {
			t.Errorf("stored %d route points, want at most %d", len(got.RoutePoints), utils.MaxRoutePoints+1)
		}
	})
}

func TestUpdateAmbulancePosition(t *testing.T) {
	f := newSOSFixture(t)
	ctx := context.Background()

	event := f.trigger(t)
	if _, err := f.service.AcknowledgeSOS(ctx, event.ID); err != nil {
		t.Fatalf("acknowledge: %v", err)
	}
	f.dispatch(t, event.ID, 100)

	t.Run("forward progress", func(t *testing.T) {
		got, err := f.service.UpdateAmbulancePosition(ctx, event.ID, models.LatLng{Lat: 12.96, Lng: 77.59}, 50)
		if err != nil {
			t.Fatalf("UpdateAmbulancePosition: %v", err)
		}
		if got.RouteProgress != 50 {
			t.Errorf("progress = %d, want 50", got.RouteProgress)
		}
	})

	t.Run("stale sample is dropped silently", func(t *testing.T) {
		got, err := f.service.UpdateAmbulancePosition(ctx, event.ID, models.LatLng{Lat: 12.90, Lng: 77.50}, 40)
		if err != nil {
			t.Fatalf("stale update must not error: %v", err)
		}
		if got.RouteProgress != 50 {
			t.Errorf("progress = %d, want 50 after stale sample", got.RouteProgress)
		}
	})

	t.Run("progress resumes after stale sample", func(t *testing.T) {
		got, err := f.service.UpdateAmbulancePosition(ctx, event.ID, models.LatLng{Lat: 12.97, Lng: 77.59}, 80)
		if err != nil {
			t.Fatalf("UpdateAmbulancePosition: %v", err)
		}
		if got.RouteProgress != 80 {
			t.Errorf("progress = %d, want 80", got.RouteProgress)
		}
	})

	t.Run("index past route end clamps", func(t *testing.T) {
		got, err := f.service.UpdateAmbulancePosition(ctx, event.ID, models.LatLng{Lat: 12.98, Lng: 77.60}, 5000)
		if err != nil {
			t.Fatalf("UpdateAmbulancePosition: %v", err)
		}
		if got.RouteProgress != len(got.RoutePoints) {
			t.Errorf("progress = %d, want clamp to %d", got.RouteProgress, len(got.RoutePoints))
		}
	})

	t.Run("position before dispatch", func(t *testing.T) {
		fresh := f.trigger(t)
		_, err := f.service.UpdateAmbulancePosition(ctx, fresh.ID, models.LatLng{Lat: 1, Lng: 1}, 0)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("got %v, want ErrInvalidTransition", err)
		}
	})
}

func TestResolveRevokesGrant(t *testing.T) {
	f := newSOSFixture(t)
	ctx := context.Background()

	event := f.trigger(t)
	if _, err := f.service.ResolveSOS(ctx, event.ID); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	grant, err := f.grantRepo.GetByID(ctx, event.GrantID)
	if err != nil {
		t.Fatalf("grant lookup: %v", err)
	}
	if !grant.Revoked {
		t.Error("resolve must revoke the disclosure grant")
	}
	if grant.RevokedAt == nil {
		t.Error("revoked_at should be set")
	}
	if !f.auditRepo.hasAction(models.AuditActionGrantRevoked) {
		t.Error("revocation should be audited")
	}
}

func TestGetActiveEventsFiltersUnreadableGrants(t *testing.T) {
	f := newSOSFixture(t)
	ctx := context.Background()

	open := f.trigger(t)
	closed := f.trigger(t)
	if _, err := f.service.ResolveSOS(ctx, closed.ID); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	// Still open, but its grant has lapsed: invisible to responders.
	lapsed := f.trigger(t)
	grant, err := f.grantRepo.GetByID(ctx, lapsed.GrantID)
	if err != nil {
		t.Fatalf("grant lookup: %v", err)
	}
	grant.ExpiresAt = time.Now().Add(-time.Minute)

	active, err := f.service.GetActiveEvents(ctx)
	if err != nil {
		t.Fatalf("GetActiveEvents: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("got %d active events, want 1", len(active))
	}
	if active[0].ID != open.ID {
		t.Error("wrong event listed as active")
	}
}

func TestEraseUserData(t *testing.T) {
	f := newSOSFixture(t)
	ctx := context.Background()

	event := f.trigger(t)
	userID := event.UserID
	f.profileRepo.profiles[userID] = models.NewEmergencyProfile(userID)

	deleted, err := f.service.EraseUserData(ctx, userID)
	if err != nil {
		t.Fatalf("EraseUserData: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
	if _, err := f.sosRepo.GetByID(ctx, event.ID); err == nil {
		t.Error("event should be gone")
	}
	if _, err := f.grantRepo.GetByEventID(ctx, event.ID); err == nil {
		t.Error("grant should be gone")
	}
	if _, err := f.profileRepo.GetByUserID(ctx, userID); err == nil {
		t.Error("profile should be gone")
	}
	if !f.auditRepo.hasAction(models.AuditActionDataErasure) {
		t.Error("erasure should be audited")
	}
}

func TestGetEventNotFound(t *testing.T) {
	f := newSOSFixture(t)
	_, err := f.service.GetEvent(context.Background(), primitive.NewObjectID())
	if err == nil {
		t.Error("expected not-found error for unknown event")
	}
}
