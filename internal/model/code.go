package model

import "time"

// TimedCodeWindow is how long a timed code stays redeemable after activation.
const TimedCodeWindow = 15 * time.Minute

// TimestampLayout is the activation timestamp format used by bulk files and the admin API.
const TimestampLayout = "2006-01-02 15:04:05"

// SingleUseCode is a code that is removed on its first successful redemption.
type SingleUseCode struct {
	Code string `json:"code" db:"code"`
}

// TimedCode is a multi-use code redeemable once per user inside its window.
type TimedCode struct {
	Code        string    `json:"code" db:"code"`
	ActivatedAt time.Time `json:"activatedAt" db:"activated_at"`
}

// Deadline returns the last instant at which the code is still redeemable.
func (c TimedCode) Deadline() time.Time {
	return c.ActivatedAt.Add(TimedCodeWindow)
}

// Redemption records that a user has redeemed a timed code.
type Redemption struct {
	UserID     int64     `json:"userId" db:"user_id"`
	Code       string    `json:"code" db:"code"`
	RedeemedAt time.Time `json:"redeemedAt" db:"redeemed_at"`
}

// RedemptionStatus is the outcome of a timed code redemption.
type RedemptionStatus string

const (
	StatusValid   RedemptionStatus = "Valid"
	StatusExpired RedemptionStatus = "Expired"
	StatusInvalid RedemptionStatus = "Invalid"
)

// String returns the status as written to API responses.
func (s RedemptionStatus) String() string {
	return string(s)
}

// MessageResponse is the body shape of every redemption endpoint.
type MessageResponse struct {
	Message string `json:"message"`
}

// ImportReport summarises a bulk rewrite of the code stores.
type ImportReport struct {
	SingleUseLoaded  int `json:"singleUseLoaded"`
	SingleUseSkipped int `json:"singleUseSkipped"`
	TimedLoaded      int `json:"timedLoaded"`
	TimedSkipped     int `json:"timedSkipped"`

	// TimedSourceMissing is set when no timed file was found and the timed
	// store was left untouched.
	TimedSourceMissing bool `json:"timedSourceMissing,omitempty"`
}

// Stats holds row counts of the three stores.
type Stats struct {
	SingleUseCodes int `json:"singleUseCodes"`
	TimedCodes     int `json:"timedCodes"`
	Redemptions    int `json:"redemptions"`
}
