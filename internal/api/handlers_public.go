package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/models"
)

type createBookingRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	CarModel string `json:"car_model"`
	Services string `json:"services"`
	TimeSlot string `json:"time_slot"`
	Note     string `json:"note"`
	Date     string `json:"date"`
}

// handleCreateBooking is the landing-page submission. One booking per
// browser per shop-local day; the signed cookie enforces the limit.
func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if s.cookies.BookedToday(r) {
		writeError(w, http.StatusTooManyRequests, "لقد قمت بالحجز بالفعل اليوم")
		return
	}

	var body createBookingRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	date, err := time.ParseInLocation("2006-01-02", body.Date, s.clk.Now().Location())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return
	}

	// The submitting page generates the booking id; the service
	// validates it and falls back to its own when absent.
	booking := &models.Booking{
		ID:       body.ID,
		Name:     body.Name,
		Phone:    body.Phone,
		CarModel: body.CarModel,
		Services: body.Services,
		TimeSlot: body.TimeSlot,
		Note:     body.Note,
		Date:     date,
	}

	if err := s.bookings.CreateBooking(r.Context(), booking); err != nil {
		writeServiceError(w, err)
		return
	}

	http.SetCookie(w, s.cookies.Issue())
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":  booking.ID,
		"ref": booking.Ref(),
	})
}

type createLeadRequest struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	OfferTitle string `json:"offer_title"`
}

func (s *HTTPServer) handleCreateLead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body createLeadRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	lead := &models.Lead{
		Name:       body.Name,
		Phone:      body.Phone,
		OfferTitle: body.OfferTitle,
	}

	if err := s.leads.CreateLead(r.Context(), lead); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"id": lead.ID})
}
