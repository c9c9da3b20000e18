package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SOSStatus string

const (
	SOSStatusTriggered    SOSStatus = "triggered"
	SOSStatusAcknowledged SOSStatus = "acknowledged"
	SOSStatusOnTheWay     SOSStatus = "on_the_way"
	SOSStatusResolved     SOSStatus = "resolved"
)

// sosTransitions is the single source of truth for the event lifecycle.
// The path is linear, with resolve reachable from any non-terminal state
// so a user can cancel before dispatch.
var sosTransitions = map[SOSStatus][]SOSStatus{
	SOSStatusTriggered:    {SOSStatusAcknowledged, SOSStatusResolved},
	SOSStatusAcknowledged: {SOSStatusOnTheWay, SOSStatusResolved},
	SOSStatusOnTheWay:     {SOSStatusResolved},
	SOSStatusResolved:     {},
}

func (s SOSStatus) IsValid() bool {
	_, ok := sosTransitions[s]
	return ok
}

func (s SOSStatus) IsTerminal() bool {
	return s == SOSStatusResolved
}

func (s SOSStatus) CanTransitionTo(next SOSStatus) bool {
	for _, allowed := range sosTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ActiveSOSStatuses lists every non-terminal status, used by responder
// dashboards and active-event queries.
func ActiveSOSStatuses() []SOSStatus {
	return []SOSStatus{SOSStatusTriggered, SOSStatusAcknowledged, SOSStatusOnTheWay}
}

type SOSEvent struct {
	ID                  primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID              primitive.ObjectID `json:"user_id" bson:"user_id" validate:"required"`
	EmergencyType       string             `json:"emergency_type" bson:"emergency_type" validate:"required"`
	Status              SOSStatus          `json:"status" bson:"status" default:"triggered"`
	Location            Location           `json:"location" bson:"location" validate:"required"`
	AssignedAmbulanceID string             `json:"assigned_ambulance_id" bson:"assigned_ambulance_id"`
	AmbulancePosition   *LatLng            `json:"ambulance_position" bson:"ambulance_position"`
	RoutePoints         []LatLng           `json:"route_points" bson:"route_points"`
	RouteProgress       int                `json:"route_progress" bson:"route_progress"`
	GrantID             primitive.ObjectID `json:"grant_id" bson:"grant_id"`
	CreatedAt           time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at" bson:"updated_at"`
	ResolvedAt          *time.Time         `json:"resolved_at" bson:"resolved_at"`
}

func (e *SOSEvent) IsActive() bool {
	return !e.Status.IsTerminal()
}

type SOSCreateRequest struct {
	UserID        primitive.ObjectID `json:"user_id"`
	Latitude      float64            `json:"latitude" binding:"required"`
	Longitude     float64            `json:"longitude" binding:"required"`
	EmergencyType string             `json:"emergency_type" binding:"required"`
}

// SOSDispatchRequest assigns an ambulance. Dispatchers either supply the
// route geometry directly or just the ambulance's current location, in which
// case the route is fetched from the maps provider.
type SOSDispatchRequest struct {
	AmbulanceID       string   `json:"ambulance_id" binding:"required"`
	RoutePoints       []LatLng `json:"route_points"`
	AmbulanceLocation *LatLng  `json:"ambulance_location"`
}

type SOSPositionUpdate struct {
	Position      LatLng `json:"position" binding:"required"`
	ProgressIndex int    `json:"progress_index"`
}
