package services

import (
	"context"
	"testing"
	"time"

	"lifeline/internal/models"
	"lifeline/internal/repositories/interfaces"
	"lifeline/internal/utils"
	"lifeline/pkg/logger"
	"lifeline/pkg/maps"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Format: "text"})
	if err != nil {
		t.Fatalf("test logger: %v", err)
	}
	return log
}

// In-memory repositories. Update applies the same field maps the mongo
// implementations translate into $set documents.

type fakeSOSRepo struct {
	events map[primitive.ObjectID]*models.SOSEvent
}

func newFakeSOSRepo() *fakeSOSRepo {
	return &fakeSOSRepo{events: make(map[primitive.ObjectID]*models.SOSEvent)}
}

func (r *fakeSOSRepo) Create(ctx context.Context, event *models.SOSEvent) error {
	event.ID = primitive.NewObjectID()
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt
	r.events[event.ID] = event
	return nil
}

func (r *fakeSOSRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.SOSEvent, error) {
	event, ok := r.events[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return event, nil
}

func (r *fakeSOSRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	event, ok := r.events[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	for key, value := range updates {
		switch key {
		case "status":
			event.Status = value.(models.SOSStatus)
		case "grant_id":
			event.GrantID = value.(primitive.ObjectID)
		case "assigned_ambulance_id":
			event.AssignedAmbulanceID = value.(string)
		case "route_points":
			event.RoutePoints = value.([]models.LatLng)
		case "route_progress":
			event.RouteProgress = value.(int)
		case "ambulance_position":
			position := value.(models.LatLng)
			event.AmbulancePosition = &position
		case "resolved_at":
			resolvedAt := value.(time.Time)
			event.ResolvedAt = &resolvedAt
		}
	}
	event.UpdatedAt = time.Now()
	return nil
}

func (r *fakeSOSRepo) GetActive(ctx context.Context) ([]*models.SOSEvent, error) {
	var active []*models.SOSEvent
	for _, event := range r.events {
		if event.IsActive() {
			active = append(active, event)
		}
	}
	return active, nil
}

func (r *fakeSOSRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.SOSEvent, int64, error) {
	var events []*models.SOSEvent
	for _, event := range r.events {
		if event.UserID == userID {
			events = append(events, event)
		}
	}
	return events, int64(len(events)), nil
}

func (r *fakeSOSRepo) DeleteByUserID(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	var deleted int64
	for id, event := range r.events {
		if event.UserID == userID {
			delete(r.events, id)
			deleted++
		}
	}
	return deleted, nil
}

type fakeGrantRepo struct {
	grants map[primitive.ObjectID]*models.DisclosureGrant
}

func newFakeGrantRepo() *fakeGrantRepo {
	return &fakeGrantRepo{grants: make(map[primitive.ObjectID]*models.DisclosureGrant)}
}

func (r *fakeGrantRepo) Create(ctx context.Context, grant *models.DisclosureGrant) error {
	grant.ID = primitive.NewObjectID()
	grant.CreatedAt = time.Now()
	r.grants[grant.ID] = grant
	return nil
}

func (r *fakeGrantRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.DisclosureGrant, error) {
	grant, ok := r.grants[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return grant, nil
}

func (r *fakeGrantRepo) GetByEventID(ctx context.Context, eventID primitive.ObjectID) (*models.DisclosureGrant, error) {
	for _, grant := range r.grants {
		if grant.SOSEventID == eventID {
			return grant, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (r *fakeGrantRepo) Revoke(ctx context.Context, id primitive.ObjectID, revokedAt time.Time) error {
	grant, ok := r.grants[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	grant.Revoked = true
	grant.RevokedAt = &revokedAt
	return nil
}

func (r *fakeGrantRepo) DeleteByUserID(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	var deleted int64
	for id, grant := range r.grants {
		if grant.UserID == userID {
			delete(r.grants, id)
			deleted++
		}
	}
	return deleted, nil
}

type fakeProfileRepo struct {
	profiles map[primitive.ObjectID]*models.EmergencyProfile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[primitive.ObjectID]*models.EmergencyProfile)}
}

func (r *fakeProfileRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.EmergencyProfile, error) {
	profile, ok := r.profiles[userID]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return profile, nil
}

func (r *fakeProfileRepo) Upsert(ctx context.Context, profile *models.EmergencyProfile) error {
	r.profiles[profile.UserID] = profile
	return nil
}

func (r *fakeProfileRepo) DeleteByUserID(ctx context.Context, userID primitive.ObjectID) error {
	delete(r.profiles, userID)
	return nil
}

type fakeAuditRepo struct {
	entries []*models.AuditLog
}

func (r *fakeAuditRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeAuditRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.AuditLog, int64, error) {
	var logs []*models.AuditLog
	for _, entry := range r.entries {
		if entry.UserID == userID {
			logs = append(logs, entry)
		}
	}
	return logs, int64(len(logs)), nil
}

func (r *fakeAuditRepo) GetByResource(ctx context.Context, resource, resourceID string) ([]*models.AuditLog, error) {
	var logs []*models.AuditLog
	for _, entry := range r.entries {
		if entry.Resource == resource && entry.ResourceID == resourceID {
			logs = append(logs, entry)
		}
	}
	return logs, nil
}

func (r *fakeAuditRepo) hasAction(action models.AuditAction) bool {
	for _, entry := range r.entries {
		if entry.Action == action {
			return true
		}
	}
	return false
}

type fakeRouteProvider struct {
	points []maps.Location
	err    error
	calls  int
}

func (p *fakeRouteProvider) GetRoute(ctx context.Context, origin, destination maps.Location) (*maps.RouteResult, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &maps.RouteResult{Points: p.points}, nil
}

func (p *fakeRouteProvider) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	return "", nil
}
