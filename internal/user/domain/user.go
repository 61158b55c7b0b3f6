package domain

import "time"

// User is a stored credential row: identity key, password hash, profile
// fields and login bookkeeping. Username is immutable and unique.
type User struct {
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	JoinAt       time.Time
	LastLoginAt  time.Time
}

// Profile is the self-view of a user. The password hash is stripped here,
// inside the core, rather than trusting callers to do it.
type Profile struct {
	Username    string
	FirstName   string
	LastName    string
	Phone       string
	JoinAt      time.Time
	LastLoginAt time.Time
}

// Summary is the public directory entry visible to any authenticated user.
type Summary struct {
	Username  string
	FirstName string
	LastName  string
	Phone     string
}

func (u User) Profile() Profile {
	return Profile{
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Phone:       u.Phone,
		JoinAt:      u.JoinAt,
		LastLoginAt: u.LastLoginAt,
	}
}

func (u User) Summary() Summary {
	return Summary{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
	}
}
