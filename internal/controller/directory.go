package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/studsovet/selection_api/internal/model"
	"github.com/studsovet/selection_api/internal/service"
)

type createFacultyRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type registerUserRequest struct {
	TelegramID    int64  `json:"telegram_id" validate:"required"`
	FirstName     string `json:"first_name" validate:"required"`
	SecondName    string `json:"second_name"`
	Surname       string `json:"surname"`
	CourseOfStudy *int   `json:"course_of_study"`
	StudyGroup    string `json:"group"`
	FacultyID     int64  `json:"faculty_id" validate:"required"`
}

type addAdminRequest struct {
	TelegramID int64  `json:"telegram_id" validate:"required"`
	Username   string `json:"username"`
	FullName   string `json:"full_name"`
	Role       string `json:"role" validate:"required"`
}

// GET /faculties
func (s *Server) listFaculties(c echo.Context) error {
	faculties, err := s.directory.ListFaculties(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"faculties": faculties})
}

// POST /faculties
func (s *Server) createFaculty(c echo.Context) error {
	tgID, err := telegramID(c)
	if err != nil {
		return err
	}
	if err := s.admins.VerifySuperAdmin(tgID); err != nil {
		return err
	}

	req := new(createFacultyRequest)
	if err := c.Bind(req); err != nil {
		return err
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	faculty, err := s.directory.CreateFaculty(c.Request().Context(), req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, faculty)
}

// POST /users
func (s *Server) registerUser(c echo.Context) error {
	req := new(registerUserRequest)
	if err := c.Bind(req); err != nil {
		return err
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	user, err := s.directory.RegisterApplicant(c.Request().Context(), service.RegistrationInput{
		TelegramID:    req.TelegramID,
		FirstName:     req.FirstName,
		SecondName:    req.SecondName,
		Surname:       req.Surname,
		CourseOfStudy: req.CourseOfStudy,
		StudyGroup:    req.StudyGroup,
		FacultyID:     req.FacultyID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// GET /admin/admins/:faculty_id
func (s *Server) listAdmins(c echo.Context) error {
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

	admins, err := s.directory.ListAdmins(c.Request().Context(), facultyID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"admins": admins})
}

// POST /admin/admins/:faculty_id
func (s *Server) addAdmin(c echo.Context) error {
	tgID, err := telegramID(c)
	if err != nil {
		return err
	}
	facultyID, err := pathID(c, "faculty_id")
	if err != nil {
		return err
	}

	actor, err := s.admins.VerifyHeadAdmin(c.Request().Context(), facultyID, tgID)
	if err != nil {
		return err
	}

	req := new(addAdminRequest)
	if err := c.Bind(req); err != nil {
		return err
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	admin, err := s.directory.AddAdmin(c.Request().Context(), actor, facultyID, service.AdminInput{
		TelegramID: req.TelegramID,
		Username:   req.Username,
		FullName:   req.FullName,
		Role:       model.AdminRole(req.Role),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, admin)
}

// DELETE /admin/admins/:faculty_id/:id
func (s *Server) deactivateAdmin(c echo.Context) error {
	tgID, err := telegramID(c)
	if err != nil {
		return err
	}
	facultyID, err := pathID(c, "faculty_id")
	if err != nil {
		return err
	}
	adminID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if _, err := s.admins.VerifyHeadAdmin(c.Request().Context(), facultyID, tgID); err != nil {
		return err
	}

	if err := s.directory.DeactivateAdmin(c.Request().Context(), facultyID, adminID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
