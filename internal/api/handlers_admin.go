package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/models"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/notify"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/service"
)

// handleDashboard returns the aggregate numbers the admin landing view
// shows, derived from the poller's latest snapshot.
func (s *HTTPServer) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	bookings := s.poll.Bookings()
	leads := s.poll.Leads()
	parts := s.poll.Parts()

	writeJSON(w, http.StatusOK, map[string]any{
		"bookings":        bookings,
		"leads":           leads,
		"parts":           parts,
		"total_bookings":  len(bookings),
		"pending_count":   s.agg.PendingCount(bookings),
		"today_bookings":  s.agg.TodayBookings(bookings),
		"missed_bookings": s.agg.MissedBookings(bookings),
		"customer_count":  s.agg.CustomerCount(bookings, leads),
		"lead_count":      len(leads),
	})
}

func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	filter := service.BookingFilter{
		Phone:  strings.TrimSpace(r.URL.Query().Get("phone")),
		Status: strings.TrimSpace(r.URL.Query().Get("status")),
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
		date, err := time.ParseInLocation("2006-01-02", raw, s.clk.Now().Location())
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
			return
		}
		filter.Date = date
	}

	bookings, err := s.bookings.FilterBookings(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

type rescheduleRequest struct {
	Date     string `json:"date"`
	TimeSlot string `json:"time_slot"`
}

// handleBookingAction routes /api/v1/admin/bookings/{id}[/{action}].
func (s *HTTPServer) handleBookingAction(w http.ResponseWriter, r *http.Request) {
	const prefix = "/api/v1/admin/bookings/"
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "booking id is required")
		return
	}

	ctx := r.Context()

	if action == "" {
		switch r.Method {
		case http.MethodGet:
			booking, err := s.bookings.GetBooking(ctx, id)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, booking)
		case http.MethodDelete:
			// Permanent delete; the caller must say so explicitly.
			if r.URL.Query().Get("confirm") != "true" {
				writeError(w, http.StatusBadRequest, "confirm=true is required to delete")
				return
			}
			if err := s.bookings.Delete(ctx, id); err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return
	}

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var err error
	switch action {
	case "confirm":
		err = s.bookings.Confirm(ctx, id)
	case "complete":
		err = s.bookings.Complete(ctx, id)
	case "miss":
		err = s.bookings.MarkMissed(ctx, id)
	case "cancel":
		err = s.bookings.Cancel(ctx, id)
	case "reschedule":
		var body rescheduleRequest
		if decodeErr := json.NewDecoder(r.Body).Decode(&body); decodeErr != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		var date time.Time
		if body.Date != "" {
			date, err = time.ParseInLocation("2006-01-02", body.Date, s.clk.Now().Location())
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
				return
			}
		}
		err = s.bookings.Reschedule(ctx, id, date, body.TimeSlot)
	default:
		writeError(w, http.StatusNotFound, "unknown action")
		return
	}

	if err != nil {
		writeServiceError(w, err)
		return
	}

	booking, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// handleCalendar returns the Saturday-first month grid with the
// confirmed bookings of each day, time-sorted.
func (s *HTTPServer) handleCalendar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	now := s.clk.Now()
	month := now
	if raw := strings.TrimSpace(r.URL.Query().Get("month")); raw != "" {
		parsed, err := time.ParseInLocation("2006-01", raw, now.Location())
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid month format; expected YYYY-MM")
			return
		}
		month = parsed
	}

	bookings := s.poll.Bookings()
	days := s.agg.DaysInView(month)

	type dayCell struct {
		Date     string           `json:"date"`
		InMonth  bool             `json:"in_month"`
		Bookings []models.Booking `json:"bookings"`
	}

	cells := make([]dayCell, 0, len(days))
	for _, day := range days {
		cells = append(cells, dayCell{
			Date:     day.Format("2006-01-02"),
			InMonth:  day.Month() == month.Month(),
			Bookings: s.agg.BookingsForDay(bookings, day),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"month": month.Format("2006-01"),
		"days":  cells,
	})
}

func (s *HTTPServer) handleLeads(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	leads, err := s.leads.ListLeads(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"leads": leads})
}

type partRequest struct {
	Name     string   `json:"name"`
	Models   []string `json:"models"`
	Year     string   `json:"year"`
	Status   string   `json:"status"`
	Symptoms []string `json:"symptoms"`
}

func (s *HTTPServer) handleParts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		parts, err := s.parts.ListParts(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"parts": parts})
	case http.MethodPost:
		var body partRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		part := &models.Part{
			Name:     body.Name,
			Models:   body.Models,
			Year:     body.Year,
			Status:   body.Status,
			Symptoms: body.Symptoms,
		}
		if err := s.parts.CreatePart(r.Context(), part); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, part)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handlePartAction routes /api/v1/admin/parts/{id}[/toggle].
func (s *HTTPServer) handlePartAction(w http.ResponseWriter, r *http.Request) {
	const prefix = "/api/v1/admin/parts/"
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	rawID, action, _ := strings.Cut(rest, "/")

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid part id")
		return
	}

	ctx := r.Context()

	if action == "toggle" {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		part, err := s.parts.ToggleStatus(ctx, id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, part)
		return
	}
	if action != "" {
		writeError(w, http.StatusNotFound, "unknown action")
		return
	}

	switch r.Method {
	case http.MethodGet:
		part, err := s.parts.GetPart(ctx, id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, part)
	case http.MethodPut:
		var body partRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		part := &models.Part{
			ID:       id,
			Name:     body.Name,
			Models:   body.Models,
			Year:     body.Year,
			Status:   body.Status,
			Symptoms: body.Symptoms,
		}
		if err := s.parts.UpdatePart(ctx, part); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, part)
	case http.MethodDelete:
		if err := s.parts.DeletePart(ctx, id); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleExport streams the four-sheet workbook as a download.
func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ctx := r.Context()
	bookings, err := s.bookings.ListBookings(ctx)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	leads, err := s.leads.ListLeads(ctx)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	parts, err := s.parts.ListParts(ctx)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+s.exporter.Filename()+`"`)

	if err := s.exporter.Write(w, bookings, leads, parts); err != nil {
		s.logger.Error().Err(err).Msg("Excel export error")
	}
}

func (s *HTTPServer) handleTestTelegram(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := s.notifier.SendNow(r.Context(), notify.TestMessage); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

// handleNotifications drains the pending chimes and toasts the poller
// queued since the dashboard's last poll.
func (s *HTTPServer) handleNotifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	chimes, toasts := s.gate.Drain()
	if toasts == nil {
		toasts = []models.Toast{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sound_unlocked": s.gate.Unlocked(),
		"chimes":         chimes,
		"toasts":         toasts,
	})
}

func (s *HTTPServer) handleSoundUnlock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s.gate.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"sound_unlocked": true})
}

func (s *HTTPServer) handleSoundTest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s.gate.TestSound()
	writeJSON(w, http.StatusOK, map[string]any{"sound_unlocked": true, "chimes": 1})
}
