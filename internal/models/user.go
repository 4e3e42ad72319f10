package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleDonor     = "donor"
	RoleVolunteer = "volunteer"
	RoleAdmin     = "admin"
)

const (
	StatusActive  = "active"
	StatusBlocked = "blocked"
)

// Volunteer availability values.
const (
	AvailabilityActive   = "active"
	AvailabilityInactive = "inactive"
)

// User matches the document in the users collection.
// Password is never serialized to JSON.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	Password     string             `bson:"password,omitempty" json:"-"`
	Avatar       string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	BloodGroup   string             `bson:"bloodGroup,omitempty" json:"bloodGroup,omitempty"`
	District     string             `bson:"district,omitempty" json:"district,omitempty"`
	Upazila      string             `bson:"upazila,omitempty" json:"upazila,omitempty"`
	Role         string             `bson:"role" json:"role"`
	Status       string             `bson:"status" json:"status"`
	Availability string             `bson:"availability,omitempty" json:"availability,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// ProfileUpdate lists the only fields a user may change on their own record.
type ProfileUpdate struct {
	Name       *string `json:"name"`
	Avatar     *string `json:"avatar"`
	BloodGroup *string `json:"bloodGroup"`
	District   *string `json:"district"`
	Upazila    *string `json:"upazila"`
}

// Fields returns the non-nil entries keyed by their bson field name.
func (p ProfileUpdate) Fields() map[string]string {
	out := map[string]string{}
	if p.Name != nil {
		out["name"] = *p.Name
	}
	if p.Avatar != nil {
		out["avatar"] = *p.Avatar
	}
	if p.BloodGroup != nil {
		out["bloodGroup"] = *p.BloodGroup
	}
	if p.District != nil {
		out["district"] = *p.District
	}
	if p.Upazila != nil {
		out["upazila"] = *p.Upazila
	}
	return out
}

// IsValidRole reports whether r is one of the known roles.
func IsValidRole(r string) bool {
	return r == RoleDonor || r == RoleVolunteer || r == RoleAdmin
}

// Identity is the normalized caller attached to the request by the auth middleware.
type Identity struct {
	ID    string `json:"id"`
	Role  string `json:"role"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// HasRole reports whether the identity holds any of roles.
func (i Identity) HasRole(roles ...string) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

// UserFilter narrows the admin user listing. Empty fields match everything.
type UserFilter struct {
	Role   string
	Status string
}

// DonorMatch is the exact-match query used by donor search.
type DonorMatch struct {
	BloodGroup string
	District   string
	Upazila    string
}
