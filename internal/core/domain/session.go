// internal/core/domain/session.go
package domain

// User identifies the logged-in account
type User struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"isAdmin"`
}

// Session couples an identity with its bearer credential. The credential is
// opaque to every component except the session store, which inspects its
// expiry before handing it out.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
