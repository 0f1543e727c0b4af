package oauth

import "errors"

type ErrorCode string

const (
	ErrorCodeAccessDenied   ErrorCode = "access_denied"
	ErrorCodeInvalidRequest ErrorCode = "invalid_request"
	ErrorCodeRateLimited    ErrorCode = "rate_limited"
)

const (
	ParamError            = "error"
	ParamErrorDescription = "error_description"
	ParamLocalPort        = "local_port"
	ParamState            = "state"
)

var (
	ErrNoToken      = errors.New("no token found - run `pulse auth` first")
	ErrTokenExpired = errors.New("token expired and no refresh token available")
)
