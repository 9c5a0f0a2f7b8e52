package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GET /faculties/:faculty_id
func (s *Server) getFaculty(c echo.Context) error {
	facultyID, err := pathID(c, "faculty_id")
	if err != nil {
		return err
	}

	faculty, err := s.stage.GetFaculty(c.Request().Context(), facultyID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, faculty)
}

// POST /faculties/:faculty_id/advance-stage
func (s *Server) advanceStage(c echo.Context) error {
	tgID, err := telegramID(c)
	if err != nil {
		return err
	}
	facultyID, err := pathID(c, "faculty_id")
	if err != nil {
		return err
	}

	if _, err := s.admins.VerifyHeadAdmin(c.Request().Context(), facultyID, tgID); err != nil {
		return err
	}

	faculty, err := s.stage.AdvanceStage(c.Request().Context(), facultyID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, faculty)
}

// POST /faculties/:faculty_id/stage/open
func (s *Server) openStage(c echo.Context) error {
	tgID, err := telegramID(c)
	if err != nil {
		return err
	}
	facultyID, err := pathID(c, "faculty_id")
	if err != nil {
		return err
	}

	if _, err := s.admins.VerifyHeadAdmin(c.Request().Context(), facultyID, tgID); err != nil {
		return err
	}

	faculty, err := s.stage.OpenStage(c.Request().Context(), facultyID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, faculty)
}

// POST /faculties/:faculty_id/stage/close
func (s *Server) closeStage(c echo.Context) error {
	tgID, err := telegramID(c)
	if err != nil {
		return err
	}
	facultyID, err := pathID(c, "faculty_id")
	if err != nil {
		return err
	}

	if _, err := s.admins.VerifyHeadAdmin(c.Request().Context(), facultyID, tgID); err != nil {
		return err
	}

	faculty, err := s.stage.CloseStage(c.Request().Context(), facultyID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, faculty)
}
