package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"game-upload-api/internal/models"
)

// requestError is a client-side validation failure, reported as 400.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func validationError(msg string) error {
	return &requestError{msg: msg}
}

// respondError maps errors to the protocol's {error} payload: input
// validation problems get 400, everything else 500.
func respondError(c fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		status = http.StatusBadRequest
	}
	return c.Status(status).JSON(models.ErrorResponse{Error: err.Error()})
}
