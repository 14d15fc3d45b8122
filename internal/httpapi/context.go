package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/sprintdesk/internal/chatctx"
	"github.com/alexanderramin/sprintdesk/internal/domain"
)

type currentUserResponse struct {
	UserID   string  `json:"user_id"`
	SpaceID  *string `json:"space_id"`
	SprintID *string `json:"sprint_id"`
}

type workspaceResponse struct {
	SpaceID     *string `json:"space_id"`
	Name        *string `json:"name"`
	Methodology *string `json:"methodology"`
	OwnerID     *string `json:"owner_id"`
}

type sprintResponse struct {
	SprintID  *string `json:"sprint_id"`
	Name      *string `json:"name"`
	Status    *string `json:"status"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

type userResponse struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type columnResponse struct {
	ColumnID string `json:"column_id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

type sessionRequest struct {
	UserID   string  `json:"user_id"`
	SpaceID  *string `json:"space_id"`
	SprintID *string `json:"sprint_id"`
}

type formatRequest struct {
	Context chatctx.Values `json:"context"`
	Message string         `json:"message"`
}

func ptr(s string) *string {
	return &s
}

func newWorkspaceResponse(s *domain.Space) workspaceResponse {
	if s == nil {
		return workspaceResponse{}
	}
	return workspaceResponse{
		SpaceID:     ptr(s.ID),
		Name:        ptr(s.Name),
		Methodology: ptr(string(s.Methodology)),
		OwnerID:     ptr(s.OwnerID),
	}
}

// handleCurrentUser returns the user's session; fields are null without one.
func (s *Server) handleCurrentUser(c *gin.Context) {
	userID, ok := requireQuery(c, "user_id")
	if !ok {
		return
	}
	resp := currentUserResponse{UserID: userID}
	sess, err := s.deps.Context.Session(c.Request.Context(), userID)
	switch {
	case err == nil:
		resp.SpaceID, resp.SprintID = sess.SpaceID, sess.SprintID
	case !errors.Is(err, domain.ErrNotFound):
		s.respondError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// handleDefaultWorkspace answers 404 when no workspace exists at all.
func (s *Server) handleDefaultWorkspace(c *gin.Context) {
	userID, ok := requireQuery(c, "user_id")
	if !ok {
		return
	}
	space, err := s.deps.Context.DefaultWorkspace(c.Request.Context(), userID)
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, newWorkspaceResponse(space))
}

func (s *Server) handleActiveSprint(c *gin.Context) {
	userID, ok := requireQuery(c, "user_id")
	if !ok {
		return
	}
	sp, err := s.deps.Context.ActiveSprint(c.Request.Context(), userID)
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusOK, sprintResponse{})
		return
	}
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, sprintResponse{
		SprintID:  ptr(sp.ID),
		Name:      ptr(sp.Name),
		Status:    ptr(string(sp.Status)),
		StartDate: ptr(sp.StartDate.Format(domain.DateLayout)),
		EndDate:   ptr(sp.EndDate.Format(domain.DateLayout)),
	})
}

// handleWorkspaceMetadata is the nullable form of default-workspace.
func (s *Server) handleWorkspaceMetadata(c *gin.Context) {
	userID, ok := requireQuery(c, "user_id")
	if !ok {
		return
	}
	space, err := s.deps.Context.DefaultWorkspace(c.Request.Context(), userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.respondError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, newWorkspaceResponse(space))
}

func (s *Server) handleAvailableUsers(c *gin.Context) {
	users, err := s.deps.Context.AvailableUsers(c.Request.Context(), c.Query("space_id"))
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userResponse{UserID: u.ID, Name: u.Name, Email: u.Email, Role: string(u.Role)})
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

func (s *Server) handleColumnByName(c *gin.Context) {
	name, ok := requireQuery(c, "column_name")
	if !ok {
		return
	}
	col, err := s.deps.Context.ColumnByName(c.Request.Context(), c.Query("user_id"), c.Query("space_id"), name)
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, columnResponse{ColumnID: col.ID, Name: col.Name, Position: col.Position})
}

func (s *Server) handleSaveSession(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	sess := &domain.Session{UserID: req.UserID, SpaceID: req.SpaceID, SprintID: req.SprintID}
	if err := s.deps.Context.SaveSession(c.Request.Context(), sess); err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, currentUserResponse{UserID: sess.UserID, SpaceID: sess.SpaceID, SprintID: sess.SprintID})
}

func (s *Server) handleFormatContext(c *gin.Context) {
	var req formatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": chatctx.Format(req.Context, req.Message)})
}
