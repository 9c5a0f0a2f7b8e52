package controller

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/studsovet/selection_api/internal/apperr"
	"github.com/studsovet/selection_api/internal/model"
	"github.com/studsovet/selection_api/internal/service"
)

type createDayRequest struct {
	Date     string `json:"date" validate:"required"`
	Location string `json:"location"`
}

type setCapacityRequest struct {
	MaxParticipants *int `json:"max_participants" validate:"required"`
}

type setActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type setAvailabilityRequest struct {
	Available *bool `json:"available" validate:"required"`
}

type slotResponse struct {
	ID                    int64                    `json:"id"`
	Time                  string                   `json:"time"`
	MaxParticipants       int                      `json:"max_participants"`
	CurrentParticipants   int                      `json:"current_participants"`
	AvailablePlaces       int                      `json:"available_places"`
	IsActive              bool                     `json:"is_active"`
	MyAvailability        *bool                    `json:"my_availability,omitempty"`
	AvailableInterviewers []*model.SlotInterviewer `json:"available_interviewers,omitempty"`
}

type dayResponse struct {
	ID        int64          `json:"id"`
	FacultyID int64          `json:"faculty_id"`
	Date      string         `json:"date"`
	Location  string         `json:"location"`
	IsActive  bool           `json:"is_active"`
	TimeSlots []slotResponse `json:"time_slots"`
}

func newDayResponse(view *service.DayView) dayResponse {
	resp := dayResponse{
		ID:        view.Day.ID,
		FacultyID: view.Day.FacultyID,
		Date:      view.Day.Date.Format("2006-01-02"),
		Location:  view.Day.Location,
		IsActive:  view.Day.IsActive,
		TimeSlots: make([]slotResponse, 0, len(view.Slots)),
	}
	for _, sv := range view.Slots {
		resp.TimeSlots = append(resp.TimeSlots, slotResponse{
			ID:                    sv.Slot.ID,
			Time:                  sv.Slot.Time,
			MaxParticipants:       sv.Slot.MaxParticipants,
			CurrentParticipants:   sv.Slot.CurrentParticipants,
			AvailablePlaces:       sv.Slot.AvailablePlaces(),
			IsActive:              sv.Slot.IsActive,
			MyAvailability:        sv.MyAvailability,
			AvailableInterviewers: sv.AvailableInterviewers,
		})
	}
	return resp
}

// GET /interview-days/:faculty_id
func (s *Server) listInterviewDays(c echo.Context) error {
	tgID, err := telegramID(c)
	if err != nil {
		return err
	}
	facultyID, err := pathID(c, "faculty_id")
	if err != nil {
		return err
	}

	admin, err := s.admins.VerifyFacultyAdmin(c.Request().Context(), facultyID, tgID)
	if err != nil {
		return err
	}

	views, err := s.schedule.ListDays(c.Request().Context(), facultyID, admin)
	if err != nil {
		return err
	}

	resp := make([]dayResponse, 0, len(views))
	for _, view := range views {
		resp = append(resp, newDayResponse(view))
	}
	return c.JSON(http.StatusOK, resp)
}

// POST /interview-days/:faculty_id
func (s *Server) createInterviewDay(c echo.Context) error {
	tgID, err := telegramID(c)
	if err != nil {
		return err
	}
	facultyID, err := pathID(c, "faculty_id")
	if err != nil {
		return err
	}

	admin, err := s.admins.VerifyHeadAdmin(c.Request().Context(), facultyID, tgID)
	if err != nil {
		return err
	}

	req := new(createDayRequest)
	if err := c.Bind(req); err != nil {
		return err
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return apperr.Validation("date must be in YYYY-MM-DD format")
	}

	view, err := s.schedule.CreateDay(c.Request().Context(), facultyID, admin.ID, date, req.Location)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newDayResponse(view))
}

// DELETE /interview-days/:day_id
func (s *Server) deleteInterviewDay(c echo.Context) error {
	tgID, err := telegramID(c)
	if err != nil {
		return err
	}
	dayID, err := pathID(c, "day_id")
	if err != nil {
		return err
	}

	day, err := s.schedule.GetDay(c.Request().Context(), dayID)
	if err != nil {
		return err
	}
	if _, err := s.admins.VerifyHeadAdmin(c.Request().Context(), day.FacultyID, tgID); err != nil {
		return err
	}

	if err := s.schedule.DeleteDay(c.Request().Context(), dayID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// PATCH /interview-days/:day_id/active
func (s *Server) setDayActive(c echo.Context) error {
	tgID, err := telegramID(c)
	if err != nil {
		return err
	}
	dayID, err := pathID(c, "day_id")
	if err != nil {
		return err
	}

	day, err := s.schedule.GetDay(c.Request().Context(), dayID)
	if err != nil {
		return err
	}
	if _, err := s.admins.VerifyHeadAdmin(c.Request().Context(), day.FacultyID, tgID); err != nil {
		return err
	}

	req := new(setActiveRequest)
	if err := c.Bind(req); err != nil {
		return err
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	if err := s.schedule.SetDayActive(c.Request().Context(), dayID, *req.IsActive); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// PUT /interview-days/time-slots/:id
func (s *Server) setSlotCapacity(c echo.Context) error {
	tgID, err := telegramID(c)
	if err != nil {
		return err
	}
	slotID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	_, day, err := s.schedule.GetSlotDay(c.Request().Context(), slotID)
	if err != nil {
		return err
	}
	if _, err := s.admins.VerifyHeadAdmin(c.Request().Context(), day.FacultyID, tgID); err != nil {
		return err
	}

	req := new(setCapacityRequest)
	if err := c.Bind(req); err != nil {
		return err
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	slot, err := s.schedule.SetSlotCapacity(c.Request().Context(), slotID, *req.MaxParticipants)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, slot)
}

// PATCH /interview-days/time-slots/:id/active
func (s *Server) setSlotActive(c echo.Context) error {
	tgID, err := telegramID(c)
	if err != nil {
		return err
	}
	slotID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	_, day, err := s.schedule.GetSlotDay(c.Request().Context(), slotID)
	if err != nil {
		return err
	}
	if _, err := s.admins.VerifyHeadAdmin(c.Request().Context(), day.FacultyID, tgID); err != nil {
		return err
	}

	req := new(setActiveRequest)
	if err := c.Bind(req); err != nil {
		return err
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	if err := s.schedule.SetSlotActive(c.Request().Context(), slotID, *req.IsActive); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// POST /interview-days/time-slots/:id/availability
func (s *Server) setAvailability(c echo.Context) error {
	tgID, err := telegramID(c)
	if err != nil {
		return err
	}
	slotID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	_, day, err := s.schedule.GetSlotDay(c.Request().Context(), slotID)
	if err != nil {
		return err
	}
	admin, err := s.admins.VerifyFacultyAdmin(c.Request().Context(), day.FacultyID, tgID)
	if err != nil {
		return err
	}

	req := new(setAvailabilityRequest)
	if err := c.Bind(req); err != nil {
		return err
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	changed, err := s.availability.SetAvailability(c.Request().Context(), slotID, admin, *req.Available)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"available": *req.Available, "changed": changed})
}

// GET /interview-days/time-slots/:id/availability
func (s *Server) listSlotInterviewers(c echo.Context) error {
	tgID, err := telegramID(c)
	if err != nil {
		return err
	}
	slotID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	_, day, err := s.schedule.GetSlotDay(c.Request().Context(), slotID)
	if err != nil {
		return err
	}
	if _, err := s.admins.VerifyHeadAdmin(c.Request().Context(), day.FacultyID, tgID); err != nil {
		return err
	}

	slot, _, interviewers, err := s.availability.ListSlotInterviewers(c.Request().Context(), slotID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"slot_id":      slot.ID,
		"time":         slot.Time,
		"interviewers": interviewers,
	})
}

// POST /interview-days/time-slots/:id/bookings
func (s *Server) bookSlot(c echo.Context) error {
	tgID, err := telegramID(c)
	if err != nil {
		return err
	}
	slotID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	interview, err := s.booking.BookSlot(c.Request().Context(), tgID, slotID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, interview)
}

// DELETE /interview-days/time-slots/:id/bookings
func (s *Server) cancelBooking(c echo.Context) error {
	tgID, err := telegramID(c)
	if err != nil {
		return err
	}
	slotID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := s.booking.CancelBooking(c.Request().Context(), tgID, slotID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// GET /interview-days/bookings/my
func (s *Server) getMyBooking(c echo.Context) error {
	tgID, err := telegramID(c)
	if err != nil {
		return err
	}

	interview, err := s.booking.GetMyBooking(c.Request().Context(), tgID)
	if err != nil {
		return err
	}
	if interview == nil {
		return c.JSON(http.StatusOK, echo.Map{"booked": false})
	}
	return c.JSON(http.StatusOK, echo.Map{"booked": interview.IsBooked(), "interview": interview})
}
