package service

import "net/http"

// Authenticator adds credentials to an outgoing request.
type Authenticator interface {
	Authenticate(req *http.Request) error
}

// BasicAuth authenticates with a service username and password.
type BasicAuth struct {
	Username string
	Password string
}

func (a BasicAuth) Authenticate(req *http.Request) error {
	if a.Username == "" && a.Password == "" {
		return InvalidArgument("username and password are empty")
	}
	req.SetBasicAuth(a.Username, a.Password)
	return nil
}

// BearerToken authenticates with a pre-issued access token.
type BearerToken struct {
	Token string
}

func (a BearerToken) Authenticate(req *http.Request) error {
	if a.Token == "" {
		return InvalidArgument("token is empty")
	}
	req.Header.Set("Authorization", "Bearer "+a.Token)
	return nil
}

// NoAuth sends requests without credentials.
type NoAuth struct{}

func (NoAuth) Authenticate(*http.Request) error { return nil }
