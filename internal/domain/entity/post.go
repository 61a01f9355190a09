package entity

import "time"

type Post struct {
	ID          string    `json:"id" firestore:"id" gorm:"primaryKey;size:36"`
	AuthorID    string    `json:"author_id" firestore:"authorId" gorm:"size:36;index"`
	Description string    `json:"description" firestore:"description" gorm:"type:text"`
	ImageURL    string    `json:"image_url" firestore:"imageUrl"`
	Likes       []string  `json:"likes" firestore:"likes" gorm:"serializer:json"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt" gorm:"index"`
	UpdatedAt   time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (p *Post) LikedBy(profileID string) bool {
	for _, id := range p.Likes {
		if id == profileID {
			return true
		}
	}
	return false
}

// ToggleLike adds or removes the profile from Likes and reports whether it is now liked.
func (p *Post) ToggleLike(profileID string) bool {
	for i, id := range p.Likes {
		if id == profileID {
			p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
			return false
		}
	}
	p.Likes = append(p.Likes, profileID)
	return true
}
