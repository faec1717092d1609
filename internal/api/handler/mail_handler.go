package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hospitalcore/hospital-system/internal/core/ports"
)

// MailHandler exposes the administrative mail endpoint. Messages are queued
// for asynchronous delivery, never sent inline.
type MailHandler struct {
	queue ports.MailEnqueuer
}

func NewMailHandler(queue ports.MailEnqueuer) *MailHandler {
	return &MailHandler{queue: queue}
}

type sendMailRequest struct {
	To      string `json:"to" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=200"`
	Body    string `json:"body" validate:"required"`
}

// Send queues one outbound email.
//
// @Summary      Send an email
// @Tags         mail
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      sendMailRequest  true  "Message"
// @Success      202   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Router       /api/mail/send [post]
func (h *MailHandler) Send(c echo.Context) error {
	var req sendMailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.queue.Enqueue(ports.MailMessage{
		To:      req.To,
		Subject: req.Subject,
		Body:    req.Body,
	})
	return c.JSON(http.StatusAccepted, map[string]string{"status": "queued"})
}
