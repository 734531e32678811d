package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"legalai/internal/errors"
	"legalai/internal/service"
)

// ChatHandler handles AI chat endpoints.
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// SendMessageRequest represents one chat turn. SessionID empty starts a new
// session.
type SendMessageRequest struct {
	SessionID string `json:"session_id,omitempty" validate:"omitempty,uuid"`
	Content   string `json:"content" validate:"required"`
}

// Send godoc
// @Summary Send a chat message to the AI assistant
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SendMessageRequest true "Message"
// @Success 200 {object} service.SendResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Failure 504 {object} errors.ErrorResponse
// @Router /chat/messages [post]
func (h *ChatHandler) Send(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var sessionID *uuid.UUID
	if req.SessionID != "" {
		id, err := uuid.Parse(req.SessionID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid session_id",
				Code:  "INVALID_UUID",
			})
		}
		sessionID = &id
	}

	result, err := h.chatService.Send(c.Request().Context(), claims.UserID, sessionID, req.Content)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, result)
}

// Sessions godoc
// @Summary List the current user's chat sessions
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.ChatSession
// @Failure 401 {object} errors.ErrorResponse
// @Router /chat/sessions [get]
func (h *ChatHandler) Sessions(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	sessions, err := h.chatService.Sessions(c.Request().Context(), claims.UserID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, sessions)
}

// Messages godoc
// @Summary Get the transcript of one chat session
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {array} model.ChatMessage
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /chat/sessions/{id}/messages [get]
func (h *ChatHandler) Messages(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid session id",
			Code:  "INVALID_UUID",
		})
	}

	messages, err := h.chatService.Messages(c.Request().Context(), claims.UserID, sessionID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, messages)
}

// DeleteHistory godoc
// @Summary Delete all of the current user's chat history
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Router /chat/history [delete]
func (h *ChatHandler) DeleteHistory(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	if err := h.chatService.DeleteHistory(c.Request().Context(), claims.UserID); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "chat history deleted",
	})
}
