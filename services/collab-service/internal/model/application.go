package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ApplicationStatus is the lifecycle state of a membership application.
// PENDING is the only non-terminal state.
type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "PENDING"
	ApplicationAccepted  ApplicationStatus = "ACCEPTED"
	ApplicationRejected  ApplicationStatus = "REJECTED"
	ApplicationWithdrawn ApplicationStatus = "WITHDRAWN"
)

// Valid reports whether s is a known application status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationAccepted, ApplicationRejected, ApplicationWithdrawn:
		return true
	}
	return false
}

// Application is a request to gain membership in a project. A user holds at
// most one application per project, regardless of its status.
type Application struct {
	ID               bson.ObjectID     `bson:"_id,omitempty"      json:"id"`
	UserID           bson.ObjectID     `bson:"user_id"            json:"userId"`
	ProjectID        bson.ObjectID     `bson:"project_id"         json:"projectId"`
	Role             string            `bson:"role"               json:"role"`
	Skills           []string          `bson:"skills"             json:"skills"`
	ReasonForJoining string            `bson:"reason_for_joining,omitempty" json:"reasonForJoining,omitempty"`
	Availability     string            `bson:"availability,omitempty"       json:"availability,omitempty"`
	Status           ApplicationStatus `bson:"status"             json:"status"`
	CreatedAt        time.Time         `bson:"created_at"         json:"createdAt"`
	UpdatedAt        time.Time         `bson:"updated_at"         json:"updatedAt"`
}
