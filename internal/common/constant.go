package common

// AuthorizationHeaderName is the HTTP header (and gRPC metadata key) that
// carries the session token as "Bearer <token>".
const AuthorizationHeaderName = "authorization"

// BearerPrefix precedes the token in the authorization header.
const BearerPrefix = "Bearer "

// DefaultAccountName is reported for accounts that never set a name.
const DefaultAccountName = "Account 1"

// MaxAccountNameLength is the maximum account name length, in characters.
const MaxAccountNameLength = 100
