// Package cognito wraps the Cognito user-pool operations behind a small
// interface so the auth service can be exercised without AWS.
package cognito

import "context"

// Client is the identity-provider contract consumed by the auth service.
type Client interface {
	SignUp(ctx context.Context, input SignUpInput) (SignUpOutput, error)
	ConfirmSignUp(ctx context.Context, input ConfirmSignUpInput) error
	ResendConfirmationCode(ctx context.Context, input ResendCodeInput) error
	Login(ctx context.Context, input LoginInput) (AuthOutput, error)
	RefreshTokens(ctx context.Context, input RefreshInput) (AuthOutput, error)
	GlobalSignOut(ctx context.Context, input GlobalSignOutInput) error
}

type SignUpInput struct {
	Email    string
	Password string
}

// SignUpOutput reports the newly registered user's pool id and whether a
// confirmation step is still pending.
type SignUpOutput struct {
	UserSub      string
	Confirmed    bool
	CodeDelivery string
}

type ConfirmSignUpInput struct {
	Email string
	Code  string
}

type ResendCodeInput struct {
	Email string
}

type LoginInput struct {
	Email    string
	Password string
}

// AuthOutput carries the token set issued after a successful login or
// refresh. The access token's sub claim is the owner id the todo API keys
// every record by.
type AuthOutput struct {
	IDToken      string
	AccessToken  string
	RefreshToken string
	ExpiresIn    int32
	TokenType    string
}

type RefreshInput struct {
	Email        string
	RefreshToken string
}

type GlobalSignOutInput struct {
	AccessToken string
}
