package review

import (
	"context"

	"github.com/khanghh/unionhub/internal/common"
	"github.com/khanghh/unionhub/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const candidateColumns = `u.*,
	rf.id AS form_id, rf.employment_proof_path, rf.id_photo_path, rf.remarks, rf.submitted_at,
	(SELECT COUNT(*) FROM users d
		WHERE TRIM(u.email) <> '' AND LOWER(TRIM(d.email)) = LOWER(TRIM(u.email))) AS email_count,
	EXISTS(SELECT 1 FROM user_documents ud
		WHERE ud.user_id = u.id AND ud.category = 'employment_proof') AS has_employment_proof,
	EXISTS(SELECT 1 FROM user_documents ud
		WHERE ud.user_id = u.id AND ud.category = 'id_photo') AS has_id_photo`

const candidateFrom = `FROM users u LEFT JOIN registration_forms rf ON rf.user_id = u.id
	WHERE (u.status IN ? OR rf.id IS NOT NULL)`

// Ties on the submission timestamp are broken by the newest user id.
const candidateOrder = ` ORDER BY COALESCE(rf.submitted_at, u.created_at) DESC, u.id DESC`

type CandidateFilter struct {
	Status model.UserStatus
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindCandidates(ctx context.Context, filter CandidateFilter, page common.PageRequest) ([]*CandidateRow, int64, error)
	FindCandidate(ctx context.Context, userID uint) (*CandidateRow, error)
	FindDocuments(ctx context.Context, userID uint) ([]*model.UserDocument, error)
	LockUser(ctx context.Context, userID uint) (*model.User, error)
	UpdateUser(ctx context.Context, userID uint, columns map[string]interface{}) error
}

type reviewRepository struct {
	db *gorm.DB
}

func (r *reviewRepository) WithTx(tx *gorm.DB) Repository {
	return NewRepository(tx)
}

func (r *reviewRepository) FindCandidates(ctx context.Context, filter CandidateFilter, page common.PageRequest) ([]*CandidateRow, int64, error) {
	where := candidateFrom
	args := []interface{}{model.ReviewableStatuses}
	if filter.Status != "" {
		where += " AND u.status = ?"
		args = append(args, filter.Status)
	}

	var total int64
	if err := r.db.WithContext(ctx).Raw("SELECT COUNT(*) "+where, args...).Scan(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []*CandidateRow
	query := "SELECT " + candidateColumns + " " + where + candidateOrder + " LIMIT ? OFFSET ?"
	args = append(args, page.Limit(), page.Offset())
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *reviewRepository) FindCandidate(ctx context.Context, userID uint) (*CandidateRow, error) {
	var rows []*CandidateRow
	query := "SELECT " + candidateColumns + " " + candidateFrom + " AND u.id = ?"
	if err := r.db.WithContext(ctx).Raw(query, model.ReviewableStatuses, userID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return rows[0], nil
}

func (r *reviewRepository) FindDocuments(ctx context.Context, userID uint) ([]*model.UserDocument, error) {
	var docs []*model.UserDocument
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&docs).Error
	return docs, err
}

// LockUser reads the user with a row lock held until the transaction ends.
func (r *reviewRepository) LockUser(ctx context.Context, userID uint) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *reviewRepository) UpdateUser(ctx context.Context, userID uint, columns map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Updates(columns).Error
}

func NewRepository(db *gorm.DB) Repository {
	return &reviewRepository{db}
}
