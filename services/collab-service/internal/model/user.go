package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User represents a registered account. A user is created unverified at
// signup and becomes verified once via a one-time code match. The two-factor
// secret is set at enrollment but the flag only flips after a valid code.
type User struct {
	ID                        bson.ObjectID `bson:"_id,omitempty"           json:"id"`
	Email                     string        `bson:"email"                   json:"email"`
	PasswordHash              string        `bson:"password_hash"           json:"-"`
	FirstName                 string        `bson:"first_name"              json:"firstName"`
	LastName                  string        `bson:"last_name"               json:"lastName"`
	PhoneNumber               string        `bson:"phone_number"            json:"phoneNumber"`
	AvatarURL                 string        `bson:"avatar_url,omitempty"    json:"avatarUrl,omitempty"`
	Bio                       string        `bson:"bio,omitempty"           json:"bio,omitempty"`
	Location                  string        `bson:"location,omitempty"      json:"location,omitempty"`
	Availability              string        `bson:"availability,omitempty"  json:"availability,omitempty"`
	Onboarded                 bool          `bson:"onboarded"               json:"isOnboarded"`
	Verified                  bool          `bson:"verified"                json:"isEmailVerified"`
	VerificationCode          string        `bson:"verification_code,omitempty"            json:"-"`
	VerificationCodeExpiresAt time.Time     `bson:"verification_code_expires_at,omitempty" json:"-"`
	TwoFactorEnabled          bool          `bson:"two_factor_enabled"      json:"isTwoFactorAuthenticationEnabled"`
	TwoFactorSecret           string        `bson:"two_factor_secret,omitempty" json:"-"`
	CreatedAt                 time.Time     `bson:"created_at"              json:"createdAt"`
	UpdatedAt                 time.Time     `bson:"updated_at"              json:"updatedAt"`
}
