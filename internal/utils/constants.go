package utils

import "time"

// Route tracking
const (
	// MaxRoutePoints is the hard cap on stored route polyline points.
	// Routes longer than this are downsampled before persistence.
	MaxRoutePoints = 300

	// RouteSamplesPerMinute is the assumed ambulance pace over the
	// downsampled polyline, used for coarse arrival estimates.
	RouteSamplesPerMinute = 30

	// ETADefaultBand is the display band for arrivals five or more
	// minutes out, and the fallback when no route is known yet.
	ETADefaultBand = "5 to 10 minutes"
)

// Disclosure
const (
	// DisclosureGrantTTL bounds how long emergency responders can read
	// a patient's shared data after an SOS is triggered.
	DisclosureGrantTTL = 24 * time.Hour

	// EmergencyResponderParty identifies who a disclosure grant is
	// issued to. There is exactly one recipient class today.
	EmergencyResponderParty = "ambulance_service"
)

// Hospitals
const (
	DefaultNearbyHospitalLimit = 10
	DefaultNearbyRadiusKM      = 25.0
)

// Geo constants
const (
	EarthRadiusKM = 6371.0
)

// Pagination
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1
)

// Response statuses
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Common error messages
const (
	ErrInternalServer  = "Internal server error"
	ErrBadRequest      = "Bad request"
	ErrUnauthorized    = "Unauthorized access"
	ErrForbidden       = "Access forbidden"
	ErrNotFoundMsg     = "Resource not found"
	ErrConflict        = "Resource conflict"
	ErrValidationFailed = "Validation failed"
	ErrDatabaseError   = "Database operation failed"
	ErrInvalidObjectID = "Invalid ID format"
)

// Context keys set by the auth middleware.
const (
	ContextUserID   = "user_id"
	ContextUserRole = "user_role"
)

// User roles
const (
	RolePatient   = "patient"
	RoleResponder = "responder"
	RoleAdmin     = "admin"
)
