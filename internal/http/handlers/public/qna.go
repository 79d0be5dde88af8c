package public

import (
	"strconv"

	"github.com/bazaar-next/internal/http/response"
	"github.com/bazaar-next/internal/repository"
	"github.com/bazaar-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetProductQuestions 获取商品问答列表（仅已审核内容）
func (h *Handler) GetProductQuestions(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	questions, total, err := h.QnaService.ListQuestions(repository.QuestionListFilter{
		Page:         page,
		PageSize:     pageSize,
		ProductID:    uint(productID),
		OnlyApproved: true,
	})
	if err != nil {
		respondWithMappedError(c, err, qnaErrorRules, response.CodeInternal, "error.internal")
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

// CreateProductQuestion 买家提问（进入审核队列）
func (h *Handler) CreateProductQuestion(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	var req service.CreateQuestionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	question, err := h.QnaService.CreateQuestion(user, uint(productID), req)
	if err != nil {
		respondWithMappedError(c, err, qnaErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, question)
}
