package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sungwon/contact-relay/internal/contact"
	"github.com/sungwon/contact-relay/internal/mailer"
)

// maxBodyBytes caps the request body before JSON decoding. Oversized bodies
// are rejected before the submission pipeline runs.
const maxBodyBytes = 10 << 10 // 10 KB

// ContactHandler handles POST /api/contact. It decodes the submission,
// delegates to the pipeline, and maps pipeline errors onto HTTP responses:
// 400 for malformed bodies and validation failures, 500 for dispatch
// failures. Raw transport detail is included only in development mode.
func ContactHandler(svc *contact.Service, development bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

		var sub contact.Submission
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				respondError(w, http.StatusBadRequest, "request body too large")
				return
			}
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		ack, err := svc.Submit(r.Context(), &sub)
		if err != nil {
			var vErr *contact.ValidationError
			if errors.As(err, &vErr) {
				respondError(w, http.StatusBadRequest, vErr.Message)
				return
			}

			var sendErr *mailer.SendError
			if errors.As(err, &sendErr) {
				body := map[string]interface{}{
					"success": false,
					"error":   sendErr.UserMessage(),
				}
				if development {
					body["details"] = sendErr.Detail
				}
				respondJSON(w, http.StatusInternalServerError, body)
				return
			}

			respondJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"success": false,
				"error":   "internal server error",
			})
			return
		}

		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success":   true,
			"message":   "Your message has been sent successfully.",
			"messageId": ack.MessageID,
		})
	}
}
