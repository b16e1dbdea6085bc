package api

import (
	"errors"

	"connectrpc.com/connect"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
)

// ErrorDomain identifies errors raised by this service in ErrorInfo details.
const ErrorDomain = "dice-duel"

// NewError builds a connect error carrying a user-facing message and the
// machine-readable reason as an ErrorInfo detail.
func NewError(code connect.Code, reason, message string) *connect.Error {
	err := connect.NewError(code, errors.New(message))
	if detail, detailErr := connect.NewErrorDetail(&errdetails.ErrorInfo{
		Reason: reason,
		Domain: ErrorDomain,
	}); detailErr == nil {
		err.AddDetail(detail)
	}
	return err
}

// ErrorReason extracts the ErrorInfo reason from a connect error, or "".
func ErrorReason(err error) string {
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		return ""
	}
	for _, detail := range connectErr.Details() {
		value, valueErr := detail.Value()
		if valueErr != nil {
			continue
		}
		if info, ok := value.(*errdetails.ErrorInfo); ok && info.GetDomain() == ErrorDomain {
			return info.GetReason()
		}
	}
	return ""
}
