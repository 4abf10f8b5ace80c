package models

import "time"

// Comment represents a comment on a post.
//
// PostID is a weak reference: deleting the post clears it and the comment
// text survives. There is no edit path for comments.
type Comment struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Text     string `gorm:"type:text;not null" json:"text"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Author   User   `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	PostID   *uint  `gorm:"index" json:"post_id,omitempty"`
	Post     *Post  `gorm:"foreignKey:PostID;constraint:OnDelete:SET NULL" json:"post,omitempty"`
	// Created is set once when the comment is stored.
	Created time.Time `gorm:"<-:create" json:"created"`
}
