package middleware

import (
	"errors"
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog/log"
)

type ErrorResponse struct {
	Success bool   `json:"success" description:"Always false"`
	Message string `json:"message" description:"Human readable error"`
	Error   any    `json:"error,omitempty" description:"Provider error or debug detail"`
}

// NewErrorResponse builds the failure body for err.
func NewErrorResponse(err error) ErrorResponse {
	var (
		upstreamErr *UpstreamError
		internalErr *InternalError
	)

	switch {
	case errors.As(err, &upstreamErr):
		return ErrorResponse{Message: upstreamErr.Message, Error: upstreamErr.Failure}
	case errors.As(err, &internalErr):
		body := ErrorResponse{Message: MsgInternal}
		if internalErr.Expose && internalErr.Err != nil {
			body.Error = internalErr.Err.Error()
		}
		return body
	}

	var sc StatusCoder
	if errors.As(err, &sc) {
		return ErrorResponse{Message: err.Error()}
	}

	return ErrorResponse{Message: MsgInternal}
}

func HandleError(resp *restful.Response, err error, statusCode int) {
	if writeErr := resp.WriteHeaderAndJson(statusCode, NewErrorResponse(err), restful.MIME_JSON); writeErr != nil {
		log.Error().Err(writeErr).Msg("Failed to write error response")
	}
}

// WriteError renders err with the status it carries.
func WriteError(resp *restful.Response, err error) {
	HandleError(resp, err, StatusCode(err))
}

// ServiceErrorHandler replaces the plain-text router errors (404, 405, 415)
// with JSON bodies.
func ServiceErrorHandler(serviceErr restful.ServiceError, req *restful.Request, resp *restful.Response) {
	method := req.Request.Method
	path := req.Request.URL.Path

	switch serviceErr.Code {
	case http.StatusNotFound:
		WriteError(resp, &NotFoundError{Method: method, Path: path})
	case http.StatusMethodNotAllowed:
		WriteError(resp, &MethodNotAllowedError{Method: method, Path: path})
	default:
		HandleError(resp, &ValidationError{Message: serviceErr.Message}, serviceErr.Code)
	}
}

// RegisterNotFound answers paths outside every WebService root. The router
// never sees those requests, so ServiceErrorHandler cannot render them.
func RegisterNotFound(container *restful.Container) {
	container.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(restful.NewResponse(w), &NotFoundError{Method: r.Method, Path: r.URL.Path})
	}))
}
