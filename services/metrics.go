package services

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fitquest/fitquest/models"
	"github.com/fitquest/fitquest/utils"
)

// MetricsService maintains the per-day activity row and the food diary.
type MetricsService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewMetricsService(db *gorm.DB) *MetricsService {
	return &MetricsService{db: db, now: time.Now}
}

// Today returns the user's metrics row for the current UTC date, creating
// a zero row on first access.
func (s *MetricsService) Today(userID uint) (*models.DailyMetrics, error) {
	today := utils.DateUTC(s.now())

	row := models.DailyMetrics{UserID: userID, Date: today}
	err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
	if err != nil && !IsDuplicateKey(err) {
		return nil, err
	}

	var out models.DailyMetrics
	if err := s.db.Where("user_id = ? AND date = ?", userID, today).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// Update upserts today's steps and calories in one statement, keyed by
// the (user_id, date) unique index.
func (s *MetricsService) Update(userID uint, steps, caloriesBurned int) (*models.DailyMetrics, error) {
	today := utils.DateUTC(s.now())

	row := models.DailyMetrics{
		UserID:         userID,
		Date:           today,
		Steps:          steps,
		CaloriesBurned: caloriesBurned,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"steps", "calories_burned", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}

	var out models.DailyMetrics
	if err := s.db.Where("user_id = ? AND date = ?", userID, today).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// FoodToday lists the user's food entries scanned on the current UTC date.
func (s *MetricsService) FoodToday(userID uint) ([]models.FoodEntry, error) {
	dayStart := s.now().UTC().Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)

	var entries []models.FoodEntry
	err := s.db.
		Where("user_id = ? AND scanned_at >= ? AND scanned_at < ?", userID, dayStart, dayEnd).
		Order("scanned_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
