package model

// Role values stored in users.role.
const (
	RoleUser     = "USER"
	RoleEmployee = "EMPLOYEE"
	RoleAdmin    = "ADMIN"
)

// User represents an account in the global database.  Users are
// shared across all regions; regional records (reservations,
// payments) reference them by numeric id only.
//
// Fields:
//  ID           – primary key identifier.
//  Username     – unique login name.
//  FirstName    – given name.
//  LastName     – family name.
//  Email        – contact email.
//  PasswordHash – bcrypt hashed password.
//  Role         – capability role (USER, EMPLOYEE, ADMIN).
type User struct {
	ID           uint64 // users.id
	Username     string // users.username
	FirstName    string // users.first_name
	LastName     string // users.last_name
	Email        string // users.email
	PasswordHash string // users.password_hash
	Role         string // users.role
}
