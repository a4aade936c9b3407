package model

// MediaAsset records a file uploaded for question stems or explanations.
type MediaAsset struct {
	UUIDBase
	FileName    string `gorm:"size:255;not null" json:"fileName"`
	URL         string `gorm:"size:512" json:"url"`
	ContentType string `gorm:"size:100" json:"contentType"`
	Size        int64  `gorm:"default:0" json:"size"`
	UploaderID  uint   `gorm:"index;type:bigint unsigned" json:"uploaderId"`
}

func (MediaAsset) TableName() string {
	return "media_assets"
}
