package model

import "time"

// Role values stored on a user.  A creator lists movies and receives
// funding; an investor buys stock in them.
const (
	RoleInvestor = "investor"
	RoleCreator  = "creator"
)

// User represents an application user record as stored in the `users`
// table (or collection).  Users are created once at signup and are
// immutable afterwards; the system never deletes them.
//
// Fields:
//  ID           – primary key identifier (UUID string).
//  Username     – unique login name.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.  Never serialized to JSON.
//  Role         – "investor" or "creator".
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           string    `json:"id" bson:"_id"`
	Username     string    `json:"username" bson:"username"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password"`
	Role         string    `json:"role" bson:"role"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}
