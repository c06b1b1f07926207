package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Category names a project domain. Names are unique.
type Category struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string        `bson:"name"          json:"name"`
	CreatedAt time.Time     `bson:"created_at"    json:"createdAt"`
	UpdatedAt time.Time     `bson:"updated_at"    json:"updatedAt"`
}

// CategoryPreference marks a category a user wants to see. Preferences are
// replaced as a whole set.
type CategoryPreference struct {
	ID         bson.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     bson.ObjectID `bson:"user_id"       json:"userId"`
	CategoryID bson.ObjectID `bson:"category_id"   json:"categoryId"`
	CreatedAt  time.Time     `bson:"created_at"    json:"createdAt"`
}
