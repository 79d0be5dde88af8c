package seller

import (
	"strconv"

	"github.com/bazaar-next/internal/http/response"
	"github.com/bazaar-next/internal/repository"
	"github.com/bazaar-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetProductQuestions 获取本卖家商品的问答列表（含未审核）
func (h *Handler) GetProductQuestions(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if _, ok := h.ownedProduct(c, user, uint(productID)); !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	questions, total, err := h.QnaService.ListQuestions(repository.QuestionListFilter{
		Page:      page,
		PageSize:  pageSize,
		ProductID: uint(productID),
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

// AnswerQuestion 回答商品问题（商品归属卖家或管理员）
func (h *Handler) AnswerQuestion(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	questionID, err := strconv.ParseUint(c.Param("question_id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	var req service.CreateAnswerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	answer, err := h.QnaService.CreateAnswer(user, uint(questionID), req)
	if err != nil {
		respondWithMappedError(c, err, qnaErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, answer)
}
