package models

// Service is a laundry offering shown in the catalog.
type Service struct {
	BaseModel
	Name          string  `gorm:"uniqueIndex;not null" json:"name"`
	Description   string  `json:"description"`
	Price         float64 `gorm:"not null;default:0" json:"price"`
	Icon          string  `json:"icon"`
	Image         string  `json:"image"`
	IsActive      bool    `gorm:"default:true" json:"isActive"`
	EstimatedDays int     `gorm:"default:2" json:"estimatedDays"`
}
