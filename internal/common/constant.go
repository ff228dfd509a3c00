package common

// AccessTokenHeaderName is the HTTP header used to carry the access token on
// authenticated requests.
const AccessTokenHeaderName = "Authorization"

// Roles assigned to principals. At most one admin account exists; this is
// enforced at registration time by the user service, not by the document core.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)
