package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/studsovet/selection_api/internal/model"
)

type draftRequest struct {
	TemplateID int64          `json:"template_id" validate:"required"`
	Answers    map[string]any `json:"answers" validate:"required"`
}

type submitRequest struct {
	TemplateID int64          `json:"template_id" validate:"required"`
	Answers    map[string]any `json:"answers" validate:"required"`
}

type formResponse struct {
	FacultyID   int64                `json:"faculty_id"`
	FacultyName string               `json:"faculty_name"`
	StageStatus model.StageStatus    `json:"stage_status"`
	CanSubmit   bool                 `json:"can_submit"`
	Template    *model.StageTemplate `json:"template"`
	Draft       *model.Draft         `json:"draft"`
}

// GET /questionnaire/:faculty_id
func (s *Server) getQuestionnaireForm(c echo.Context) error {
	tgID, err := telegramID(c)
	if err != nil {
		return err
	}
	facultyID, err := pathID(c, "faculty_id")
	if err != nil {
		return err
	}

	form, err := s.questionnaire.GetForm(c.Request().Context(), tgID, facultyID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, formResponse{
		FacultyID:   form.Faculty.ID,
		FacultyName: form.Faculty.Name,
		StageStatus: form.StageStatus,
		CanSubmit:   form.CanSubmit,
		Template:    form.Template,
		Draft:       form.Draft,
	})
}

// POST /questionnaire/:faculty_id/draft
func (s *Server) saveDraft(c echo.Context) error {
	tgID, err := telegramID(c)
	if err != nil {
		return err
	}
	facultyID, err := pathID(c, "faculty_id")
	if err != nil {
		return err
	}

	req := new(draftRequest)
	if err := c.Bind(req); err != nil {
		return err
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	if err := s.questionnaire.SaveDraft(c.Request().Context(), tgID, facultyID, req.TemplateID, req.Answers); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DELETE /questionnaire/:faculty_id/draft
func (s *Server) deleteDraft(c echo.Context) error {
	tgID, err := telegramID(c)
	if err != nil {
		return err
	}
	facultyID, err := pathID(c, "faculty_id")
	if err != nil {
		return err
	}

	if err := s.questionnaire.DeleteDraft(c.Request().Context(), tgID, facultyID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// POST /questionnaire/:faculty_id/submit
func (s *Server) submitQuestionnaire(c echo.Context) error {
	tgID, err := telegramID(c)
	if err != nil {
		return err
	}
	facultyID, err := pathID(c, "faculty_id")
	if err != nil {
		return err
	}

	req := new(submitRequest)
	if err := c.Bind(req); err != nil {
		return err
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	questionnaire, err := s.questionnaire.Submit(c.Request().Context(), tgID, facultyID, req.TemplateID, req.Answers)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, questionnaire)
}

// GET /questionnaire/:faculty_id/status
func (s *Server) questionnaireStatus(c echo.Context) error {
	tgID, err := telegramID(c)
	if err != nil {
		return err
	}
	facultyID, err := pathID(c, "faculty_id")
	if err != nil {
		return err
	}

	status, progress, err := s.questionnaire.Status(c.Request().Context(), tgID, facultyID)
	if err != nil {
		return err
	}

	resp := echo.Map{
		"faculty_id":    status.Faculty.ID,
		"current_stage": status.Faculty.CurrentStage,
		"stage_status":  status.Faculty.StageStatus,
		"user_status":   status.UserStatus,
		"has_draft":     status.HasDraft,
		"can_submit":    status.CanSubmit,
	}
	if progress != nil {
		resp["submitted_at"] = progress.SubmittedAt
		resp["approved_at"] = progress.ApprovedAt
	}
	return c.JSON(http.StatusOK, resp)
}
