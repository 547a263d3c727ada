package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yamdb/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrCodeNotFound is returned when no live confirmation code exists for a user.
var ErrCodeNotFound = errors.New("confirmation code not found")

// ConfirmationStore keeps one pending confirmation code hash per user.
// Save overwrites any previous code for the same user. Consume removes the
// code only while it still holds codeHash; of several concurrent callers
// exactly one succeeds, the others get ErrCodeNotFound.
type ConfirmationStore interface {
	Save(ctx context.Context, userID, codeHash string, ttl time.Duration) error
	Get(ctx context.Context, userID string) (string, error)
	Consume(ctx context.Context, userID, codeHash string) error
}

// confirmationRepository is the GORM implementation of ConfirmationStore
type confirmationRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewConfirmationRepository creates the database-backed store used when redis is unavailable
func NewConfirmationRepository(db *gorm.DB) ConfirmationStore {
	return &confirmationRepository{db: db, now: time.Now}
}

// Save upserts the hash keyed by user id
func (r *confirmationRepository) Save(ctx context.Context, userID, codeHash string, ttl time.Duration) error {
	code := &models.ConfirmationCode{
		UserID:    userID,
		CodeHash:  codeHash,
		ExpiresAt: r.now().Add(ttl),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"code_hash", "expires_at", "created_at"}),
	}).Create(code).Error
	if err != nil {
		return fmt.Errorf("save confirmation code: %w", err)
	}
	return nil
}

// Get returns the stored hash; expired rows count as missing
func (r *confirmationRepository) Get(ctx context.Context, userID string) (string, error) {
	var code models.ConfirmationCode
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrCodeNotFound
		}
		return "", err
	}
	if code.Expired(r.now()) {
		return "", ErrCodeNotFound
	}
	return code.CodeHash, nil
}

// Consume deletes the live row matching codeHash in a single statement
func (r *confirmationRepository) Consume(ctx context.Context, userID, codeHash string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND code_hash = ? AND expires_at > ?", userID, codeHash, r.now()).
		Delete(&models.ConfirmationCode{})
	if result.Error != nil {
		return fmt.Errorf("consume confirmation code: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCodeNotFound
	}
	return nil
}
