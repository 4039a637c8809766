package entity

// User is the credential record behind every login.
// Password holds the bcrypt hash and is never serialised.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"-"`
	IsAdmin  bool   `json:"is_admin"`
}
