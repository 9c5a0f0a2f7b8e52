package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/studsovet/selection_api/internal/model"
)

type reviewRequest struct {
	Approve *bool  `json:"approve" validate:"required"`
	Notes   string `json:"notes"`
}

type createTemplateRequest struct {
	Questions []model.Question `json:"questions" validate:"required"`
}

type assignInterviewerRequest struct {
	InterviewerID int64 `json:"interviewer_id" validate:"required"`
}

// GET /admin/stats/:faculty_id
func (s *Server) facultyStats(c echo.Context) error {
	tgID, err := telegramID(c)
	if err != nil {
		return err
	}
	facultyID, err := pathID(c, "faculty_id")
	if err != nil {
		return err
	}

	if _, err := s.admins.VerifyFacultyAdmin(c.Request().Context(), facultyID, tgID); err != nil {
		return err
	}

	stats, err := s.stats.GetFacultyStats(c.Request().Context(), facultyID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// GET /admin/responses/:faculty_id
func (s *Server) listResponses(c echo.Context) error {
	tgID, err := telegramID(c)
	if err != nil {
		return err
	}
	facultyID, err := pathID(c, "faculty_id")
	if err != nil {
		return err
	}

	if _, err := s.admins.VerifyFacultyAdmin(c.Request().Context(), facultyID, tgID); err != nil {
		return err
	}

	rows, err := s.stats.ListResponses(c.Request().Context(), facultyID)
	if err != nil {
		return err
	}

	resp := make([]echo.Map, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, echo.Map{
			"id":           row.Questionnaire.ID,
			"user_id":      row.Questionnaire.UserID,
			"user_name":    row.UserName,
			"telegram_id":  row.TelegramID,
			"answers":      row.Questionnaire.Answers,
			"status":       row.Status,
			"submitted_at": row.Questionnaire.SubmittedAt,
		})
	}
	return c.JSON(http.StatusOK, resp)
}

// GET /admin/approvals/:faculty_id
func (s *Server) listPendingApprovals(c echo.Context) error {
	tgID, err := telegramID(c)
	if err != nil {
		return err
	}
	facultyID, err := pathID(c, "faculty_id")
	if err != nil {
		return err
	}

	if _, err := s.admins.VerifyFacultyAdmin(c.Request().Context(), facultyID, tgID); err != nil {
		return err
	}

	items, err := s.stats.ListPendingApprovals(c.Request().Context(), facultyID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// POST /admin/approvals/:faculty_id/:id/review
func (s *Server) reviewSubmission(c echo.Context) error {
	tgID, err := telegramID(c)
	if err != nil {
		return err
	}
	facultyID, err := pathID(c, "faculty_id")
	if err != nil {
		return err
	}
	itemID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	admin, err := s.admins.VerifyFacultyAdmin(c.Request().Context(), facultyID, tgID)
	if err != nil {
		return err
	}

	req := new(reviewRequest)
	if err := c.Bind(req); err != nil {
		return err
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	item, err := s.stats.ReviewSubmission(c.Request().Context(), itemID, admin, *req.Approve, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// POST /admin/templates/:faculty_id
func (s *Server) createTemplate(c echo.Context) error {
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

	req := new(createTemplateRequest)
	if err := c.Bind(req); err != nil {
		return err
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	template, err := s.questionnaire.CreateTemplate(c.Request().Context(), actor, facultyID, req.Questions)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, template)
}

// POST /admin/interviews/:faculty_id/:user_id/assign
func (s *Server) assignInterviewer(c echo.Context) error {
	tgID, err := telegramID(c)
	if err != nil {
		return err
	}
	facultyID, err := pathID(c, "faculty_id")
	if err != nil {
		return err
	}
	userID, err := pathID(c, "user_id")
	if err != nil {
		return err
	}

	if _, err := s.admins.VerifyHeadAdmin(c.Request().Context(), facultyID, tgID); err != nil {
		return err
	}

	req := new(assignInterviewerRequest)
	if err := c.Bind(req); err != nil {
		return err
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	interview, err := s.booking.AssignInterviewer(c.Request().Context(), facultyID, userID, req.InterviewerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, interview)
}
