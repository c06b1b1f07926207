package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Project is an owned resource. Its memberships, applications and tasks are
// removed by the project workflow before the project itself is deleted; the
// store enforces no cascade.
type Project struct {
	ID             bson.ObjectID `bson:"_id,omitempty"   json:"id"`
	OwnerID        bson.ObjectID `bson:"owner_id"        json:"ownerId"`
	Title          string        `bson:"title"           json:"title"`
	Description    string        `bson:"description"     json:"description"`
	Category       string        `bson:"category"        json:"category"`
	Tags           []string      `bson:"tags"            json:"tags"`
	RequiredSkills []string      `bson:"required_skills" json:"requiredSkills"`
	StartDate      *time.Time    `bson:"start_date,omitempty" json:"startDate,omitempty"`
	EndDate        *time.Time    `bson:"end_date,omitempty"   json:"endDate,omitempty"`
	Archived       bool          `bson:"archived"        json:"archived"`
	CreatedAt      time.Time     `bson:"created_at"      json:"createdAt"`
	UpdatedAt      time.Time     `bson:"updated_at"      json:"updatedAt"`
}
