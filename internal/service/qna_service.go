package service

import (
	"strings"

	"github.com/bazaar-next/internal/models"
	"github.com/bazaar-next/internal/repository"
)

// QnaService 商品问答服务（问题与回答默认待审核）
type QnaService struct {
	questionRepo repository.QuestionRepository
	productRepo  repository.ProductRepository
}

// NewQnaService 创建问答服务
func NewQnaService(questionRepo repository.QuestionRepository, productRepo repository.ProductRepository) *QnaService {
	return &QnaService{questionRepo: questionRepo, productRepo: productRepo}
}

// ListQuestions 商品问答列表（公开列表仅展示已审核内容）
func (s *QnaService) ListQuestions(filter repository.QuestionListFilter) ([]models.Question, int64, error) {
	if filter.ProductID > 0 {
		product, err := s.productRepo.GetByID(filter.ProductID)
		if err != nil {
			return nil, 0, err
		}
		if product == nil {
			return nil, 0, ErrProductNotFound
		}
	}
	return s.questionRepo.List(filter)
}

// CreateQuestionInput 提问参数
type CreateQuestionInput struct {
	Text string `json:"text" binding:"required"`
}

// CreateQuestion 买家提问（进入审核队列）
func (s *QnaService) CreateQuestion(actor *models.User, productID uint, input CreateQuestionInput) (*models.Question, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, ErrQuestionNotFound
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}
	question := &models.Question{
		ProductID: productID,
		UserID:    actor.ID,
		Text:      text,
	}
	if err := s.questionRepo.Create(question); err != nil {
		return nil, err
	}
	return question, nil
}

// CreateAnswerInput 回答参数
type CreateAnswerInput struct {
	Text string `json:"text" binding:"required"`
}

// CreateAnswer 回答问题（商品归属卖家或管理员）
func (s *QnaService) CreateAnswer(actor *models.User, questionID uint, input CreateAnswerInput) (*models.Answer, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, ErrAnswerNotFound
	}
	question, err := s.questionRepo.GetByID(questionID)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}
	product, err := s.productRepo.GetByID(question.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if actor == nil || (!actor.IsAdmin() && product.SellerID != actor.ID) {
		return nil, ErrPermissionDenied
	}
	answer := &models.Answer{
		QuestionID: questionID,
		UserID:     actor.ID,
		Text:       text,
	}
	if err := s.questionRepo.CreateAnswer(answer); err != nil {
		return nil, err
	}
	return answer, nil
}

// ApproveQuestion 审核问题（管理员）
func (s *QnaService) ApproveQuestion(questionID uint, approved bool) error {
	question, err := s.questionRepo.GetByID(questionID)
	if err != nil {
		return err
	}
	if question == nil {
		return ErrQuestionNotFound
	}
	return s.questionRepo.SetApproved(questionID, approved)
}

// ApproveAnswer 审核回答（管理员）
func (s *QnaService) ApproveAnswer(answerID uint, approved bool) error {
	answer, err := s.questionRepo.GetAnswerByID(answerID)
	if err != nil {
		return err
	}
	if answer == nil {
		return ErrAnswerNotFound
	}
	return s.questionRepo.SetAnswerApproved(answerID, approved)
}

// DeleteQuestion 删除问题（管理员）
func (s *QnaService) DeleteQuestion(questionID uint) error {
	question, err := s.questionRepo.GetByID(questionID)
	if err != nil {
		return err
	}
	if question == nil {
		return ErrQuestionNotFound
	}
	return s.questionRepo.Delete(questionID)
}

// DeleteAnswer 删除回答（管理员）
func (s *QnaService) DeleteAnswer(answerID uint) error {
	answer, err := s.questionRepo.GetAnswerByID(answerID)
	if err != nil {
		return err
	}
	if answer == nil {
		return ErrAnswerNotFound
	}
	return s.questionRepo.DeleteAnswer(answerID)
}
