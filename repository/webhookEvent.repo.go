package repository

import (
	"edumart/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type webhookEventRepo struct {
	db *gorm.DB
}

func (r *webhookEventRepo) Record(event *models.WebhookEvent) (bool, error) {
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider_event_id"}},
		DoNothing: true,
	}).Create(event)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
