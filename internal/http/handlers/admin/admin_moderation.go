package admin

import (
	"strconv"

	"github.com/bazaar-next/internal/http/response"
	"github.com/bazaar-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetAdminQuestions 获取问答审核列表（含未审核）
func (h *Handler) GetAdminQuestions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.QuestionListFilter{
		Page:     page,
		PageSize: pageSize,
	}
	if raw := c.Query("product_id"); raw != "" {
		productID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
		filter.ProductID = uint(productID)
	}

	questions, total, err := h.QnaService.ListQuestions(filter)
	if err != nil {
		respondWithMappedError(c, err, moderationErrorRules, response.CodeInternal, "error.internal")
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, questions, pagination)
}

// ApproveRequest 审核请求
type ApproveRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

// ApproveAdminQuestion 审核提问
func (h *Handler) ApproveAdminQuestion(c *gin.Context) {
	questionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.QnaService.ApproveQuestion(uint(questionID), *req.Approved); err != nil {
		respondWithMappedError(c, err, moderationErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, gin.H{"approved": *req.Approved})
}

// ApproveAdminAnswer 审核回答
func (h *Handler) ApproveAdminAnswer(c *gin.Context) {
	answerID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.QnaService.ApproveAnswer(uint(answerID), *req.Approved); err != nil {
		respondWithMappedError(c, err, moderationErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, gin.H{"approved": *req.Approved})
}

// DeleteAdminQuestion 删除提问（连同回答）
func (h *Handler) DeleteAdminQuestion(c *gin.Context) {
	questionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.QnaService.DeleteQuestion(uint(questionID)); err != nil {
		respondWithMappedError(c, err, moderationErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// DeleteAdminAnswer 删除回答
func (h *Handler) DeleteAdminAnswer(c *gin.Context) {
	answerID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.QnaService.DeleteAnswer(uint(answerID)); err != nil {
		respondWithMappedError(c, err, moderationErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// DeleteAdminReview 删除指定用户对指定商品的评价
func (h *Handler) DeleteAdminReview(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.ReviewService.DeleteReview(user, uint(productID), uint(userID)); err != nil {
		respondWithMappedError(c, err, moderationErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
