package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the closed set of account roles. Case-insensitive on input,
// always stored in canonical form.
type Role string

const (
	RoleLeader Role = "Leader"
	RoleMember Role = "Member"
)

func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "leader":
		return RoleLeader, nil
	case "member":
		return RoleMember, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) Valid() bool {
	return r == RoleLeader || r == RoleMember
}

// UnmarshalText rejects unknown roles at the JSON boundary. An empty
// value is left for validation to report.
func (r *Role) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*r = ""
		return nil
	}
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Account is a Leader or Member. LeaderID is set only for members and
// is the ownership edge every leader aggregation starts from.
type Account struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name         string              `bson:"name" json:"name" validate:"required"`
	Email        string              `bson:"email" json:"email" validate:"required,email"`
	PasswordHash string              `bson:"password" json:"-"`
	Role         Role                `bson:"role" json:"role" validate:"enum"`
	LeaderID     *primitive.ObjectID `bson:"leader_id,omitempty" json:"leader_id,omitempty"`
	Verified     bool                `bson:"verified" json:"verified"`
	CreatedAt    time.Time           `bson:"created_at" json:"created_at"`
}

func (a *Account) IsMember() bool {
	return a.Role == RoleMember
}

// ReportsTo reports whether the account is a member of the given leader.
func (a *Account) ReportsTo(leaderID primitive.ObjectID) bool {
	return a.IsMember() && a.LeaderID != nil && *a.LeaderID == leaderID
}

// Registration is the payload accepted when creating an account.
type Registration struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     Role   `json:"role"`
	LeaderID string `json:"leader_id"`
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
