package entity

import "time"

const MaxMessageLength = 1000

// Message is a direct message between two profiles. Each party controls only its own
// deleted flag; the record is removed once both flags are set.
type Message struct {
	ID                 string    `json:"id" firestore:"id" gorm:"primaryKey;size:36"`
	SenderID           string    `json:"sender_id" firestore:"senderId" gorm:"size:36;index:idx_messages_pair,priority:1"`
	RecipientID        string    `json:"recipient_id" firestore:"recipientId" gorm:"size:36;index:idx_messages_pair,priority:2;index:idx_messages_unread,priority:1"`
	Content            string    `json:"content" firestore:"content" gorm:"type:text"`
	Read               bool      `json:"read" firestore:"read" gorm:"index:idx_messages_unread,priority:2"`
	DeletedBySender    bool      `json:"deleted_by_sender" firestore:"deletedBySender"`
	DeletedByRecipient bool      `json:"deleted_by_recipient" firestore:"deletedByRecipient"`
	CreatedAt          time.Time `json:"created_at" firestore:"createdAt" gorm:"index:idx_messages_pair,priority:3"`
}

// Party identifies which side of a message a participant holds.
type Party int

const (
	PartyNone Party = iota
	PartySender
	PartyRecipient
)

func (m *Message) PartyOf(participantID string) Party {
	switch participantID {
	case m.SenderID:
		return PartySender
	case m.RecipientID:
		return PartyRecipient
	default:
		return PartyNone
	}
}

// Counterpart returns the other participant of the message.
func (m *Message) Counterpart(participantID string) string {
	if participantID == m.SenderID {
		return m.RecipientID
	}
	return m.SenderID
}

// DeletedBy reports whether the party already set its flag.
func (m *Message) DeletedBy(party Party) bool {
	switch party {
	case PartySender:
		return m.DeletedBySender
	case PartyRecipient:
		return m.DeletedByRecipient
	default:
		return false
	}
}

// MarkDeletedBy sets the party's flag and reports whether it changed.
func (m *Message) MarkDeletedBy(party Party) bool {
	if m.DeletedBy(party) {
		return false
	}
	switch party {
	case PartySender:
		m.DeletedBySender = true
	case PartyRecipient:
		m.DeletedByRecipient = true
	default:
		return false
	}
	return true
}

func (m *Message) DeletedByBoth() bool {
	return m.DeletedBySender && m.DeletedByRecipient
}
