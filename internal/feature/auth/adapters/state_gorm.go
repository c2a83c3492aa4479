package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"snapgram/internal/feature/auth/authctx"
	"snapgram/internal/feature/auth/domain/entity"
)

// stateGorm is a SQL implementation of the StateRepository interface.
type stateGorm struct {
	db *gorm.DB
}

// Compile-time check to ensure stateGorm implements StateRepository.
var _ authctx.StateRepository = (*stateGorm)(nil)

// NewStateGorm creates a new instance of stateGorm.
func NewStateGorm(db *gorm.DB) *stateGorm {
	return &stateGorm{db: db}
}

// Load retrieves the state of a client.
func (r *stateGorm) Load(ctx context.Context, clientID string) (*entity.AuthState, error) {
	var model AuthStateModel
	// 初回アクセスでは行がないのが普通なので、Firstではなく件数で判定する
	result := r.db.WithContext(ctx).Where("client_id = ?", clientID).Limit(1).Find(&model)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, authctx.ErrStateNotFound
	}
	return model.ToEntity(), nil
}

// Save inserts or replaces the state of a client.
func (r *stateGorm) Save(ctx context.Context, state *entity.AuthState) error {
	model := AuthStateModelFromEntity(state)
	if model.UpdatedAt.IsZero() {
		model.UpdatedAt = time.Now()
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "client_id"}},
			UpdateAll: true,
		}).
		Create(model).Error
}

// Delete removes the state of a client.
func (r *stateGorm) Delete(ctx context.Context, clientID string) error {
	return r.db.WithContext(ctx).Delete(&AuthStateModel{}, "client_id = ?", clientID).Error
}

// DeleteStale removes states not updated since before.
// Returns the number of deleted rows.
func (r *stateGorm) DeleteStale(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("updated_at < ?", before).
		Delete(&AuthStateModel{})
	return result.RowsAffected, result.Error
}
