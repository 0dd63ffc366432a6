package models

import "time"

// FollowUp records one customer-contact attempt, tied to an order
// (post-purchase) or to a customer generally (recurring).
type FollowUp struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	OrderID      *uint  `json:"order" gorm:"index"`
	Order        *Order `json:"-" gorm:"foreignKey:OrderID;constraint:OnDelete:SET NULL"`
	CustomerID   *uint  `json:"customer" gorm:"index"`
	ModeratorID  *uint  `json:"moderator"`
	FollowupType string `json:"followup_type" gorm:"default:'Post-Purchase'"` // Post-Purchase, Recurring, Win-back, Other
	Status       string `json:"status" gorm:"default:'Pending'"`
	Rating       int    `json:"rating" gorm:"default:0"` // customer satisfaction 1-5
	Notes        string `json:"notes" gorm:"type:text"`

	IsInterestedInNewProducts bool `json:"is_interested_in_new_products" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type FollowUpType string

const (
	FollowUpPostPurchase FollowUpType = "Post-Purchase"
	FollowUpRecurring    FollowUpType = "Recurring"
	FollowUpWinBack      FollowUpType = "Win-back"
	FollowUpOther        FollowUpType = "Other"
)

type FollowUpStatus string

const (
	FollowUpPending     FollowUpStatus = "Pending"
	FollowUpNoAnswer    FollowUpStatus = "Called - No Answer"
	FollowUpSuccessful  FollowUpStatus = "Called - Successful"
	FollowUpNotInterest FollowUpStatus = "Not Interested"
	// Follow Later defers the obligation instead of completing it; the
	// order or customer stays eligible.
	FollowUpLater FollowUpStatus = "Follow Later"
)
