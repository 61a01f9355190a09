package entity

import "time"

const MaxCommentLength = 500

type Comment struct {
	ID        string    `json:"id" firestore:"id" gorm:"primaryKey;size:36"`
	PostID    string    `json:"post_id" firestore:"postId" gorm:"size:36;index"`
	AuthorID  string    `json:"author_id" firestore:"authorId" gorm:"size:36"`
	Content   string    `json:"content" firestore:"content" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt" gorm:"index"`
}
