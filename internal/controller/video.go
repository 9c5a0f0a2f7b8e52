package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type submitVideoRequest struct {
	VideoFileID string `json:"video_file_id" validate:"required"`
}

type videoOpenRequest struct {
	Open *bool `json:"open" validate:"required"`
}

type videoReviewRequest struct {
	Approve *bool `json:"approve" validate:"required"`
}

type videoChatRequest struct {
	ChatID *int64 `json:"chat_id"`
}

// POST /video/:faculty_id/submissions
func (s *Server) submitVideo(c echo.Context) error {
	tgID, err := telegramID(c)
	if err != nil {
		return err
	}
	facultyID, err := pathID(c, "faculty_id")
	if err != nil {
		return err
	}

	req := new(submitVideoRequest)
	if err := c.Bind(req); err != nil {
		return err
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	video, err := s.video.Submit(c.Request().Context(), tgID, facultyID, req.VideoFileID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, video)
}

// GET /video/:faculty_id/submissions/my
func (s *Server) getMyVideo(c echo.Context) error {
	tgID, err := telegramID(c)
	if err != nil {
		return err
	}
	facultyID, err := pathID(c, "faculty_id")
	if err != nil {
		return err
	}

	video, err := s.video.GetMyVideo(c.Request().Context(), tgID, facultyID)
	if err != nil {
		return err
	}
	if video == nil {
		return c.JSON(http.StatusOK, echo.Map{"submitted": false})
	}
	return c.JSON(http.StatusOK, echo.Map{"submitted": true, "video": video})
}

// POST /video/:faculty_id/submissions/:user_id/review
func (s *Server) reviewVideo(c echo.Context) error {
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

	if _, err := s.admins.VerifyFacultyAdmin(c.Request().Context(), facultyID, tgID); err != nil {
		return err
	}

	req := new(videoReviewRequest)
	if err := c.Bind(req); err != nil {
		return err
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	video, err := s.video.ReviewVideo(c.Request().Context(), userID, facultyID, *req.Approve)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, video)
}

// PATCH /video/:faculty_id/open
func (s *Server) setVideoSubmissionOpen(c echo.Context) error {
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

	req := new(videoOpenRequest)
	if err := c.Bind(req); err != nil {
		return err
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	if err := s.video.SetSubmissionOpen(c.Request().Context(), facultyID, *req.Open); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// PATCH /video/:faculty_id/chat
func (s *Server) setVideoChat(c echo.Context) error {
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

	req := new(videoChatRequest)
	if err := c.Bind(req); err != nil {
		return err
	}

	if err := s.video.SetChatID(c.Request().Context(), facultyID, req.ChatID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
