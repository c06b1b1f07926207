package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// MembershipStatusActive is the status of every membership created by this
// service, at project creation and at application acceptance.
const MembershipStatusActive = "active"

// RoleOwner is the role of the implicit membership created with a project.
const RoleOwner = "Owner"

// Membership records that a user belongs to a project. At most one exists
// per (user, project) pair, enforced by a unique compound index.
type Membership struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    bson.ObjectID `bson:"user_id"       json:"userId"`
	ProjectID bson.ObjectID `bson:"project_id"    json:"projectId"`
	Role      string        `bson:"role"          json:"role"`
	Status    string        `bson:"status"        json:"status"`
	CreatedAt time.Time     `bson:"created_at"    json:"createdAt"`
	UpdatedAt time.Time     `bson:"updated_at"    json:"updatedAt"`
}
