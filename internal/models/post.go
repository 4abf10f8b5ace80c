package models

import "time"

// Post represents a published post in the Plume application.
//
// PubDate is set once at creation and never updated. Deleting the author
// deletes their posts; deleting a group only clears GroupID on its posts.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	PubDate   time.Time `gorm:"<-:create;index:idx_posts_pub_date" json:"pub_date"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	GroupID   *uint     `gorm:"index" json:"group_id,omitempty"`
	Group     *Group    `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL" json:"group,omitempty"`
	ImagePath string    `json:"image_path,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
