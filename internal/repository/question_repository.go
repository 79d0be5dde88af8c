package repository

import (
	"errors"

	"github.com/bazaar-next/internal/models"

	"gorm.io/gorm"
)

// QuestionRepository 商品问答数据访问接口
type QuestionRepository interface {
	List(filter QuestionListFilter) ([]models.Question, int64, error)
	GetByID(id uint) (*models.Question, error)
	Create(question *models.Question) error
	SetApproved(id uint, approved bool) error
	Delete(id uint) error
	GetAnswerByID(id uint) (*models.Answer, error)
	CreateAnswer(answer *models.Answer) error
	SetAnswerApproved(id uint, approved bool) error
	DeleteAnswer(id uint) error
}

// GormQuestionRepository GORM 实现
type GormQuestionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository 创建问答仓库
func NewQuestionRepository(db *gorm.DB) *GormQuestionRepository {
	return &GormQuestionRepository{db: db}
}

// List 分页查询提问（公开列表仅含审核通过的提问与回答）
func (r *GormQuestionRepository) List(filter QuestionListFilter) ([]models.Question, int64, error) {
	query := r.db.Model(&models.Question{})
	if filter.ProductID > 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.OnlyApproved {
		query = query.Where("is_approved = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Preload("User")
	if filter.OnlyApproved {
		query = query.Preload("Answers", "is_approved = ?", true).Preload("Answers.User")
	} else {
		query = query.Preload("Answers").Preload("Answers.User")
	}

	var questions []models.Question
	query = applyPagination(query.Order("id desc"), filter.Page, filter.PageSize)
	if err := query.Find(&questions).Error; err != nil {
		return nil, 0, err
	}
	return questions, total, nil
}

// GetByID 根据 ID 获取提问
func (r *GormQuestionRepository) GetByID(id uint) (*models.Question, error) {
	var question models.Question
	if err := r.db.Preload("User").Preload("Answers").First(&question, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &question, nil
}

// Create 创建提问
func (r *GormQuestionRepository) Create(question *models.Question) error {
	return r.db.Create(question).Error
}

// SetApproved 设置提问审核状态
func (r *GormQuestionRepository) SetApproved(id uint, approved bool) error {
	return r.db.Model(&models.Question{}).Where("id = ?", id).Update("is_approved", approved).Error
}

// Delete 删除提问
func (r *GormQuestionRepository) Delete(id uint) error {
	return r.db.Delete(&models.Question{}, id).Error
}

// GetAnswerByID 根据 ID 获取回答
func (r *GormQuestionRepository) GetAnswerByID(id uint) (*models.Answer, error) {
	var answer models.Answer
	if err := r.db.First(&answer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &answer, nil
}

// CreateAnswer 创建回答
func (r *GormQuestionRepository) CreateAnswer(answer *models.Answer) error {
	return r.db.Create(answer).Error
}

// SetAnswerApproved 设置回答审核状态
func (r *GormQuestionRepository) SetAnswerApproved(id uint, approved bool) error {
	return r.db.Model(&models.Answer{}).Where("id = ?", id).Update("is_approved", approved).Error
}

// DeleteAnswer 删除回答
func (r *GormQuestionRepository) DeleteAnswer(id uint) error {
	return r.db.Delete(&models.Answer{}, id).Error
}
