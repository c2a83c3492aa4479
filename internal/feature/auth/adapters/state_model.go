package adapters

import (
	"time"

	"snapgram/internal/feature/auth/domain/entity"
)

// AuthStateModel is the GORM model for the auth_states table.
type AuthStateModel struct {
	ClientID        string    `gorm:"primaryKey;size:64"`
	UserID          string    `gorm:"size:36"`
	AccountID       string    `gorm:"size:36;index"`
	Name            string    `gorm:"size:255"`
	Username        string    `gorm:"size:255"`
	Email           string    `gorm:"size:255"`
	ImageURL        string    `gorm:"size:2048"`
	Bio             string    `gorm:"type:text"`
	IsAuthenticated bool      `gorm:"not null;default:false"`
	FallbackCookies string    `gorm:"type:text"`
	UpdatedAt       time.Time `gorm:"index;not null"`
}

// TableName returns the table name for GORM.
func (AuthStateModel) TableName() string {
	return "auth_states"
}

// ToEntity converts the GORM model to a domain entity.
func (m *AuthStateModel) ToEntity() *entity.AuthState {
	return &entity.AuthState{
		ClientID: m.ClientID,
		User: entity.User{
			ID:        m.UserID,
			AccountID: m.AccountID,
			Name:      m.Name,
			Username:  m.Username,
			Email:     m.Email,
			ImageURL:  m.ImageURL,
			Bio:       m.Bio,
		},
		IsAuthenticated: m.IsAuthenticated,
		FallbackCookies: m.FallbackCookies,
		UpdatedAt:       m.UpdatedAt,
	}
}

// AuthStateModelFromEntity converts a domain entity to a GORM model.
func AuthStateModelFromEntity(s *entity.AuthState) *AuthStateModel {
	return &AuthStateModel{
		ClientID:        s.ClientID,
		UserID:          s.User.ID,
		AccountID:       s.User.AccountID,
		Name:            s.User.Name,
		Username:        s.User.Username,
		Email:           s.User.Email,
		ImageURL:        s.User.ImageURL,
		Bio:             s.User.Bio,
		IsAuthenticated: s.IsAuthenticated,
		FallbackCookies: s.FallbackCookies,
		UpdatedAt:       s.UpdatedAt,
	}
}
