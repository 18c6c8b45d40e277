package serverutils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"design-memory-be/pkg/memory/history"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestStatusFor(t *testing.T) {
	type request struct {
		Message string `json:"message" validate:"required"`
	}
	validationErr := ValidateRequest(request{})
	require.Error(t, validationErr)

	tests := []struct {
		name string
		err  error
		code int
	}{
		{"app error", NewAppError(418, "teapot"), 418},
		{"fiber error", fiber.ErrUnauthorized, 401},
		{"validation", validationErr, 400},
		{"project not found", fmt.Errorf("turn: %w", history.ErrProjectNotFound), 404},
		{"invalid room", history.ErrInvalidRoomType, 400},
		{"duplicate", gorm.ErrDuplicatedKey, 409},
		{"unknown", errors.New("boom"), 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := StatusFor(tt.err)
			assert.Equal(t, tt.code, code)
		})
	}

	_, msg := StatusFor(validationErr)
	assert.Equal(t, "message is required", msg)
}

func TestJwtMiddleware(t *testing.T) {
	const secret = "test-secret"
	userId := uuid.New()

	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/me", JwtMiddleware(secret), func(ctx *fiber.Ctx) error {
		id, err := UserID(ctx)
		if err != nil {
			return err
		}
		return ctx.JSON(SuccessResponse("ok", id.String()))
	})

	token, err := IssueToken(secret, userId, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var decoded BaseResponse[string]
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.True(t, decoded.Success)
	assert.Equal(t, userId.String(), decoded.Data)

	for _, header := range []string{"", "Bearer nope", "Token " + token} {
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", header)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode, header)
	}

	expired, err := IssueToken(secret, userId, -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(secret, expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
