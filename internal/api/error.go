package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

type Error struct {
	code        string
	statusCode  int
	description string
}

func (err Error) Error() string {
	return fmt.Sprintf("%s %s", err.code, err.description)
}

func NewError(code string, status int, description string) Error {
	return Error{
		code:        code,
		statusCode:  status,
		description: description,
	}
}

func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr Error
	if !errors.As(err, &apiErr) {
		slog.ErrorContext(r.Context(), "unexpected error", "error", err)
		WriteError(w, r, Error{"INTERNAL_ERROR", http.StatusInternalServerError, "internal error"})
		return
	}

	WriteJSON(w, errorResponse{
		Errors: []errorDetail{{
			Code:   apiErr.code,
			Title:  apiErr.code,
			Detail: apiErr.description,
		}},
	}, apiErr.statusCode)
}

type errorResponse struct {
	Errors []errorDetail `json:"errors"`
}

type errorDetail struct {
	Code   string `json:"code"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}
