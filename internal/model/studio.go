package model

import (
	"time"

	"gorm.io/gorm"
)

// Studio represents an isolated customer account: one teacher who owns it and
// a bounded member list. Membership is implicit: a user belongs to the studio
// iff their id is in MemberIDs. The teacher's id is always present in
// MemberIDs.
type Studio struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	Name          string         `json:"name" gorm:"type:varchar(100);not null"`
	Slug          string         `json:"slug" gorm:"type:varchar(100);uniqueIndex;not null"`
	AvatarURL     string         `json:"avatar_url" gorm:"type:text"`
	TeacherID     uint           `json:"teacher_id" gorm:"index;not null"`
	MemberIDs     IDList         `json:"member_ids" gorm:"serializer:json"`
	DefaultStudio bool           `json:"default_studio" gorm:"default:false"`

	// Subscription state, written through the billing boundary only.
	SubscriptionID     string `json:"subscription_id" gorm:"type:varchar(100)"`
	SubscriptionActive bool   `json:"subscription_active" gorm:"default:false"`
	PaymentFailed      bool   `json:"payment_failed" gorm:"default:false"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// IDList is a denormalized id-array relationship, stored as JSON. Related
// entities are resolved through lookups at read time rather than joins.
type IDList []uint

// Contains reports whether id is present in the list.
func (l IDList) Contains(id uint) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Union appends the given ids that are not already present, preserving order.
func (l IDList) Union(ids ...uint) IDList {
	out := l
	for _, id := range ids {
		if !out.Contains(id) {
			out = append(out, id)
		}
	}
	return out
}

// Remove returns the list without the given id.
func (l IDList) Remove(id uint) IDList {
	out := make(IDList, 0, len(l))
	for _, v := range l {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
