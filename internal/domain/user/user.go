// Package user holds the customer account model and the loyalty ("VIP")
// level rules derived from accumulated points.
package user

import (
	"strings"

	"github.com/lithammer/shortuuid/v4"

	"github.com/zakolabs/zako-backend/internal/domain/order"
)

const (
	// WelcomePoints is the loyalty balance granted at sign-up.
	WelcomePoints = 250
	// PointsPerLevel is the number of points per VIP level.
	PointsPerLevel = 500
	// ReferralPrefix starts every referral code.
	ReferralPrefix = "ZAKO-"

	referralSuffixLen = 6
)

// User is a signed-up customer. Orders are kept newest first. The referral
// code is generated once at sign-up and never changes.
type User struct {
	ID           string        `json:"id"`
	FirstName    string        `json:"firstName"`
	LastName     string        `json:"lastName"`
	Phone        string        `json:"phone"`
	Email        string        `json:"email,omitempty"`
	Points       int           `json:"points"`
	VIPLevel     int           `json:"vipLevel"`
	Orders       []order.Order `json:"orders"`
	ReferralCode string        `json:"referralCode"`
}

// New creates a freshly signed-up user with the welcome points balance and a
// generated referral code.
func New(firstName, lastName, phone, email string) *User {
	return &User{
		ID:           shortuuid.New(),
		FirstName:    firstName,
		LastName:     lastName,
		Phone:        phone,
		Email:        email,
		Points:       WelcomePoints,
		VIPLevel:     VIPLevelFor(WelcomePoints),
		Orders:       []order.Order{},
		ReferralCode: NewReferralCode(),
	}
}

// NewReferralCode generates an opaque referral code with the fixed prefix.
func NewReferralCode() string {
	return ReferralPrefix + strings.ToUpper(shortuuid.New()[:referralSuffixLen])
}

// VIPLevelFor computes the VIP level for a points balance: integer division
// by PointsPerLevel.
func VIPLevelFor(points int) int {
	if points < 0 {
		return 0
	}
	return points / PointsPerLevel
}

// FullName returns the display name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// OrderIndex returns the position of the order with the given id, or -1.
func (u *User) OrderIndex(id string) int {
	for i := range u.Orders {
		if u.Orders[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the user, including the order history.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Orders = make([]order.Order, len(u.Orders))
	for i := range u.Orders {
		c.Orders[i] = *u.Orders[i].Clone()
	}
	return &c
}
