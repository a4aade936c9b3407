package model

import (
	"encoding/json"
	"time"
)

// swagger:model Exam
type Exam struct {
	UUIDBase
	Title        string     `gorm:"size:255;not null" json:"title"`
	Description  string     `gorm:"type:text" json:"description"`
	Duration     int        `gorm:"default:0" json:"duration"` // minutes, 0 = untimed
	PassingScore float64    `gorm:"default:60" json:"passingScore"`
	TotalPoints  float64    `gorm:"default:0" json:"totalPoints"` // denormalized, 0 = derive from questions
	IsPublished  bool       `gorm:"default:false" json:"isPublished"`
	PublishedAt  *time.Time `json:"publishedAt,omitempty"`
	CreatorID    uint       `gorm:"index;type:bigint unsigned" json:"creatorId"`

	// Relations of rows migrated from the legacy CMS survive in several shapes
	// (bare id string, {"id":...}, {"documentId":...}, {"data":{...}} wrappers).
	// Always read through util.ExtractRelationID; rows created here store a bare id.
	Subject json.RawMessage `gorm:"type:json" json:"subject,omitempty"`
	Course  json.RawMessage `gorm:"type:json" json:"course,omitempty"`
}

func (Exam) TableName() string {
	return "exams"
}
