package entity

import "time"

type SocialLinks struct {
	LinkedIn  string `json:"linkedin" firestore:"linkedin"`
	GitHub    string `json:"github" firestore:"github"`
	Twitter   string `json:"twitter" firestore:"twitter"`
	Instagram string `json:"instagram" firestore:"instagram"`
}

// Profile is an alumni profile (egresado). Its ID is the participant identity for posts,
// comments and messages.
type Profile struct {
	ID              string      `json:"id" firestore:"id" gorm:"primaryKey;size:36"`
	UserID          string      `json:"user_id" firestore:"userId" gorm:"uniqueIndex;size:36"`
	FirstName       string      `json:"first_name" firestore:"firstName"`
	LastName        string      `json:"last_name" firestore:"lastName"`
	Email           string      `json:"email" firestore:"email"`
	Description     string      `json:"description" firestore:"description"`
	AcademicProgram string      `json:"academic_program" firestore:"academicProgram" gorm:"index"`
	GraduationYear  int         `json:"graduation_year,omitempty" firestore:"graduationYear"`
	SocialLinks     SocialLinks `json:"social_links" firestore:"socialLinks" gorm:"embedded;embeddedPrefix:social_"`
	PhotoURL        string      `json:"photo_url" firestore:"photoUrl"`
	Completed       bool        `json:"completed" firestore:"completed" gorm:"index"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// ParticipantSummary is the denormalized display subset embedded in messages, posts and
// conversation summaries.
type ParticipantSummary struct {
	ID              string `json:"id"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	PhotoURL        string `json:"photo_url"`
	AcademicProgram string `json:"academic_program,omitempty"`
	GraduationYear  int    `json:"graduation_year,omitempty"`
}

func (p *Profile) Summary() *ParticipantSummary {
	return &ParticipantSummary{
		ID:              p.ID,
		FirstName:       p.FirstName,
		LastName:        p.LastName,
		PhotoURL:        p.PhotoURL,
		AcademicProgram: p.AcademicProgram,
		GraduationYear:  p.GraduationYear,
	}
}

func (p *Profile) DisplayName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
