package httputil

import (
	"encoding/json"
	"net/http"
)

// Code classifies an error response for the client. The set below is the
// full vocabulary of the service; handlers never invent ad hoc strings.
type Code string

const (
	CodeBadRequest         Code = "BAD_REQUEST"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeNotFound           Code = "NOT_FOUND"
	CodeValidation         Code = "VALIDATION"
	CodeWriteFailed        Code = "WRITE_FAILED"
	CodeStorage            Code = "STORAGE"
	CodeRateLimited        Code = "RATE_LIMITED"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeLoginFailed        Code = "LOGIN_FAILED"
	CodeConfirmRequired    Code = "CONFIRM_REQUIRED"
	CodeDeviceRequired     Code = "DEVICE_REQUIRED"
	CodeEpisodeRequired    Code = "EPISODE_REQUIRED"
	CodeBotNotConfigured   Code = "BOT_NOT_CONFIGURED"
	CodeNoDeliveryCode     Code = "NO_DELIVERY_CODE"
	CodeUnknownField       Code = "UNKNOWN_FIELD"
	CodeUnknownFlag        Code = "UNKNOWN_FLAG"
	CodeUnknownKind        Code = "UNKNOWN_KIND"
)

// maxBodyBytes caps request bodies. Catalog records are small; anything
// bigger than this is not a legitimate draft or settings payload.
const maxBodyBytes = 1 << 20

type Response struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  *ErrorBody  `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{
		Status: "ok",
		Data:   data,
	})
}

func WriteError(w http.ResponseWriter, status int, code Code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{
		Status: "error",
		Error: &ErrorBody{
			Code:    code,
			Message: message,
		},
	})
}

// ReadJSON decodes the request body into dst, refusing oversized payloads.
func ReadJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes)).Decode(dst)
}
