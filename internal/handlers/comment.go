package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yukikurage/project-management-api/internal/dto"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/services"
	"github.com/yukikurage/project-management-api/internal/utils"
	"github.com/yukikurage/project-management-api/internal/validation"
)

// CommentHandler serves the comments of a task.
type CommentHandler struct {
	comments *services.CommentService
	log      *zap.Logger
}

func NewCommentHandler(comments *services.CommentService, log *zap.Logger) *CommentHandler {
	return &CommentHandler{
		comments: comments,
		log:      log,
	}
}

// ListComments supports a user_id filter for one author's comments.
func (h *CommentHandler) ListComments(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	errs := validation.Errors{}
	authorID := queryID(c, errs, "user_id")
	if len(errs) > 0 {
		apierrors.ValidationFailed(c, msgInvalidData, errs)
		return
	}

	params := utils.GetPaginationParams(c)
	comments, total, err := h.comments.ListComments(c.Request.Context(), user, taskID, authorID, params)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	apierrors.Success(c, http.StatusOK, "", dto.NewPage(dto.ToCommentDTOs(comments), params, total))
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.comments.AddComment(c.Request.Context(), user, taskID, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	apierrors.Success(c, http.StatusCreated, "Comment added successfully", dto.ToCommentDTO(*comment))
}
