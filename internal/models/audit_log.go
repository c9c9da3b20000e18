package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuditAction string

const (
	AuditActionCreate          AuditAction = "create"
	AuditActionRead            AuditAction = "read"
	AuditActionUpdate          AuditAction = "update"
	AuditActionDelete          AuditAction = "delete"
	AuditActionEmergencyAccess AuditAction = "emergency_access"
	AuditActionAccessDenied    AuditAction = "access_denied"
	AuditActionGrantRevoked    AuditAction = "grant_revoked"
	AuditActionDataErasure     AuditAction = "data_erasure"
)

// AuditLog records every disclosure read, denial and erasure so emergency
// data access stays reviewable after the fact.
type AuditLog struct {
	ID          primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	UserID      primitive.ObjectID     `json:"user_id" bson:"user_id"`
	Action      AuditAction            `json:"action" bson:"action" validate:"required"`
	Resource    string                 `json:"resource" bson:"resource" validate:"required"`
	ResourceID  string                 `json:"resource_id" bson:"resource_id"`
	RequestedBy string                 `json:"requested_by" bson:"requested_by"`
	Reason      string                 `json:"reason" bson:"reason"`
	Metadata    map[string]interface{} `json:"metadata" bson:"metadata"`
	CreatedAt   time.Time              `json:"created_at" bson:"created_at"`
}
