package auth

import "github.com/golang-jwt/jwt/v5"

// Claims are the only supported JWT claims shape for this service. Subject
// identifies the staff account that logged in.
type Claims struct {
	jwt.RegisteredClaims
}
