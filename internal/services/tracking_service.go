package services

import (
	"context"
	"fmt"
	"math"

	"lifeline/internal/models"
	"lifeline/internal/repositories/interfaces"
	"lifeline/internal/utils"
	"lifeline/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrackingService derives rendering-ready polylines and human-facing ETA and
// distance estimates from an event's stored route state. Everything here is
// recomputed on demand; nothing derived is persisted.
type TrackingService interface {
	GetRouteRender(ctx context.Context, eventID primitive.ObjectID) (*models.RouteRender, error)
	GetETA(ctx context.Context, eventID primitive.ObjectID) (*models.ETAEstimate, error)
}

type trackingService struct {
	sosRepo interfaces.SOSRepository
	logger  *logger.Logger
}

func NewTrackingService(sosRepo interfaces.SOSRepository, log *logger.Logger) TrackingService {
	return &trackingService{
		sosRepo: sosRepo,
		logger:  log,
	}
}

func (s *trackingService) GetRouteRender(ctx context.Context, eventID primitive.ObjectID) (*models.RouteRender, error) {
	event, err := s.sosRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	traveled, remaining := SplitRoute(event.RoutePoints, event.RouteProgress)
	return &models.RouteRender{
		Traveled:  traveled,
		Remaining: remaining,
	}, nil
}

func (s *trackingService) GetETA(ctx context.Context, eventID primitive.ObjectID) (*models.ETAEstimate, error) {
	event, err := s.sosRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	return EstimateArrival(event), nil
}

// DownsampleRoute reduces a raw provider path to a rendering-friendly size.
// Paths at or under maxPoints pass through untouched; longer paths keep every
// step-th point plus, unconditionally, the final point so the route always
// terminates at the destination. The first point survives by construction
// (index 0 is a multiple of any step).
func DownsampleRoute(points []models.LatLng, maxPoints int) []models.LatLng {
	if maxPoints <= 0 || len(points) <= maxPoints {
		return points
	}

	step := int(math.Ceil(float64(len(points)) / float64(maxPoints)))
	sampled := make([]models.LatLng, 0, maxPoints+1)
	for i := 0; i < len(points); i += step {
		sampled = append(sampled, points[i])
	}

	last := len(points) - 1
	if (last % step) != 0 {
		sampled = append(sampled, points[last])
	}

	return sampled
}

// SplitRoute divides a polyline at the progress cursor. The traveled segment
// is points[0..progress] inclusive and the remaining segment starts at the
// same boundary point, so the two render as one continuous line.
func SplitRoute(points []models.LatLng, progress int) (traveled, remaining []models.LatLng) {
	if len(points) == 0 {
		return nil, nil
	}
	if progress < 0 {
		progress = 0
	}
	if progress > len(points)-1 {
		progress = len(points) - 1
	}

	traveled = points[:progress+1]
	remaining = points[progress:]
	return traveled, remaining
}

// EstimateArrival computes the ETA band and straight-line distance for an
// event. The position feed delivers roughly thirty samples a minute, which is
// what turns remaining route points into minutes. Beyond a few minutes out
// the estimate is reported as a coarse band rather than false precision.
func EstimateArrival(event *models.SOSEvent) *models.ETAEstimate {
	estimate := &models.ETAEstimate{}

	if len(event.RoutePoints) == 0 {
		estimate.Display = utils.ETADefaultBand
		return estimate
	}

	remaining := len(event.RoutePoints) - event.RouteProgress
	if remaining < 0 {
		remaining = 0
	}
	estimate.RemainingPoints = remaining
	estimate.Minutes = int(math.Ceil(float64(remaining) / float64(utils.RouteSamplesPerMinute)))

	switch {
	case estimate.Minutes < 1:
		estimate.Display = "less than 1 minute"
	case estimate.Minutes < 5:
		if estimate.Minutes == 1 {
			estimate.Display = "1 minute"
		} else {
			estimate.Display = fmt.Sprintf("%d minutes", estimate.Minutes)
		}
	default:
		estimate.Display = utils.ETADefaultBand
	}

	if event.AmbulancePosition != nil {
		km := utils.CalculateDistance(
			event.Location.Latitude(), event.Location.Longitude(),
			event.AmbulancePosition.Lat, event.AmbulancePosition.Lng,
		)
		estimate.DistanceMeters = km * 1000
		estimate.DistanceDisplay = utils.FormatDistance(estimate.DistanceMeters)
	}

	return estimate
}
