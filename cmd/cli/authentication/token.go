package authentication

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// FromToken reads the identity out of an access token without verifying it; the API does the
// verification on every request.
func FromToken(accessToken string) (*StoredCredentials, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return nil, fmt.Errorf("malformed token: %w", err)
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		userID, _ = claims["sub"].(string)
	}
	if userID == "" {
		return nil, errors.New("token carries no user id")
	}
	username, _ := claims["username"].(string)

	creds := &StoredCredentials{AccessToken: accessToken, UserID: userID, Username: username}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		creds.ExpiresAt = exp.Unix()
	}
	return creds, nil
}
