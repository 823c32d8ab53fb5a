package api

import (
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"github.com/greenfield-poultry/farmshop/internal/models"
)

const (
	msgContactThanks = "Thank you! We will get back to you soon."
	msgSubscribed    = "Successfully subscribed to our newsletter!"
)

// submitContact accepts the contact form. Messages are logged, not stored or mailed.
func (h *Handlers) submitContact(w http.ResponseWriter, r *http.Request) {
	var req models.ContactRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	switch {
	case strings.TrimSpace(req.Name) == "":
		writeError(w, models.ErrInvalidField("name", "name is required"))
		return
	case !validEmail(req.Email):
		writeError(w, models.ErrInvalidField("email", "a valid email is required"))
		return
	case strings.TrimSpace(req.Message) == "":
		writeError(w, models.ErrInvalidField("message", "message is required"))
		return
	}

	slog.Info("api: contact form received",
		"session", sessionID(r), "name", req.Name, "email", req.Email, "subject", req.Subject)
	h.respondNotice(w, r, models.NewNotice(msgContactThanks, models.LevelSuccess))
}

// subscribeNewsletter accepts a newsletter sign-up. Addresses are logged only.
func (h *Handlers) subscribeNewsletter(w http.ResponseWriter, r *http.Request) {
	var req models.NewsletterRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if !validEmail(req.Email) {
		writeError(w, models.ErrInvalidField("email", "a valid email is required"))
		return
	}

	slog.Info("api: newsletter sign-up", "session", sessionID(r), "email", req.Email)
	h.respondNotice(w, r, models.NewNotice(msgSubscribed, models.LevelSuccess))
}

func (h *Handlers) respondNotice(w http.ResponseWriter, r *http.Request, n models.Notice) {
	h.events.Publish(sessionID(r), models.NoticeEvent(n))
	writeJSON(w, http.StatusOK, n)
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(strings.TrimSpace(s))
	return err == nil && addr.Address == strings.TrimSpace(s)
}
