package handler

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"splitbook/internal/auth"
	apperrors "splitbook/internal/errors"
)

// currentUserID extracts the authenticated user's id from the verified
// JWT the middleware stored on the context.
func currentUserID(c echo.Context) (uuid.UUID, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	claims, ok := token.Claims.(*auth.Claims)
	if !ok || claims.UserID == uuid.Nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	return claims.UserID, nil
}

// domainError translates a service error to an HTTP error response.
func domainError(err error) *echo.HTTPError {
	he := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
}

// readImageFile pulls the named file out of a multipart form.
func readImageFile(c echo.Context, field string) (data []byte, contentType string, err error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, "", apperrors.ErrNoFile
	}
	src, err := fileHeader.Open()
	if err != nil {
		return nil, "", err
	}
	defer func(f multipart.File) { _ = f.Close() }(src)

	data, err = io.ReadAll(src)
	if err != nil {
		return nil, "", err
	}
	return data, fileHeader.Header.Get("Content-Type"), nil
}
