package constant

import "time"

const (
	ALREADY_EXISTS       = "%s already exists"
	CREATED              = "%s created successfully"
	INVALID_REQUEST      = "Invalid request payload"
	CANT_FIND            = "%s not found"
	SOMETHING_WENT_WRONG = "something went wrong"

	INVALID_CREDENTIALS = "invalid email or password"
	LOGIN_SUCCESS       = "Logged in successfully"
	TOKEN_REQUIRED      = "Authentication token not provided"
	TOKEN_FORMAT_HINT   = "Send the token as: Authorization: Bearer <token>"
	INVALID_TOKEN       = "Invalid or expired token"
	TOKEN_EXPIRED_HINT  = "The token has expired, log in again"
	TOKEN_INVALID_HINT  = "The token could not be verified"
	TOKEN_USER_HINT     = "The user for this token does not exist or is inactive"
	TOKEN_RENEWED       = "Token renewed successfully"
	ACCOUNT_DEACTIVATED = "Account deactivated"

	RESET_CODE_SENT      = "If the email exists, a recovery code has been sent"
	RESET_DELIVERY_ERROR = "Could not send the recovery email, try again"
	INVALID_RESET_CODE   = "Invalid or expired code"
	RESET_CODE_VALID     = "Code is valid"
	PASSWORD_RESET       = "Password changed successfully"
	PASSWORD_TOO_SHORT   = "Password must be at least %d characters"
	WRONG_PASSWORD       = "current password is incorrect"
	ADMIN_ONLY           = "admin key required"
	UNAUTHORIZED_ACCESS  = "unauthorized access"
)

const (
	TokenTTL          = 12 * time.Hour
	ResetCodeTTL      = 15 * time.Minute
	ResetCodeLength   = 6
	MinPasswordLength = 6
)
