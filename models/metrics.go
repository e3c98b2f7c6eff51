package models

import "time"

// DailyMetrics is one row per user per UTC calendar date, upserted.
type DailyMetrics struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"uniqueIndex:idx_user_date;not null" json:"user_id"`
	Date           string    `gorm:"uniqueIndex:idx_user_date;size:10;not null" json:"date"`
	Steps          int       `gorm:"default:0" json:"steps"`
	CaloriesBurned int       `gorm:"default:0" json:"calories_burned"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Meal types accepted by the food diary.
const (
	MealBreakfast = "cafe"
	MealLunch     = "almoco"
	MealDinner    = "jantar"
	MealSnack     = "lanche"
)

// FoodEntry is a food-diary row, written manually or by the AI analyzer
// after a successful parse.
type FoodEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	FoodName  string    `gorm:"size:128;not null" json:"food_name"`
	Calories  int       `gorm:"default:0" json:"calories"`
	Protein   float64   `gorm:"default:0" json:"protein"`
	Carbs     float64   `gorm:"default:0" json:"carbs"`
	Fats      float64   `gorm:"default:0" json:"fats"`
	MealType  string    `gorm:"size:16;default:lanche" json:"meal_type"`
	ScannedAt time.Time `gorm:"index" json:"scanned_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
