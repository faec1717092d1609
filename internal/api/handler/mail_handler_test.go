package handler

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/hospitalcore/hospital-system/internal/core/ports"
)

type stubEnqueuer struct {
	messages []ports.MailMessage
}

func (s *stubEnqueuer) Enqueue(msg ports.MailMessage) {
	s.messages = append(s.messages, msg)
}

func TestMailHandler_Send_Queues(t *testing.T) {
	queue := &stubEnqueuer{}
	h := NewMailHandler(queue)

	c, rec := newTestContext(t, http.MethodPost, "/api/mail/send",
		`{"to":"patient@example.com","subject":"Appointment reminder","body":"See you tomorrow."}`)
	if err := h.Send(c); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusAccepted)
	}
	if got := decodeBody(t, rec)["status"]; got != "queued" {
		t.Fatalf("status field = %v, want queued", got)
	}
	if len(queue.messages) != 1 {
		t.Fatalf("queued %d messages, want 1", len(queue.messages))
	}
	if queue.messages[0].To != "patient@example.com" {
		t.Fatalf("queued To = %q", queue.messages[0].To)
	}
}

func TestMailHandler_Send_RejectsBadRecipient(t *testing.T) {
	queue := &stubEnqueuer{}
	h := NewMailHandler(queue)

	c, _ := newTestContext(t, http.MethodPost, "/api/mail/send",
		`{"to":"not-an-address","subject":"x","body":"y"}`)
	err := h.Send(c)

	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if httpErr.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want %d", httpErr.Code, http.StatusBadRequest)
	}
	if len(queue.messages) != 0 {
		t.Fatalf("queued %d messages, want 0", len(queue.messages))
	}
}
