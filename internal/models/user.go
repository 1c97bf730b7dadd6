package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User is an account. OTP expiries are unix milliseconds so that documents
// written by the previous Node service decode without a migration.
type User struct {
	ID                bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name              string        `bson:"name" json:"name"`
	Email             string        `bson:"email" json:"email"`
	Password          string        `bson:"password" json:"-"`
	IsAccountVerified bool          `bson:"isAccountVerified" json:"isAccountVerified"`
	VerifyOTP         string        `bson:"verifyOtp" json:"-"`
	VerifyOTPExpireAt int64         `bson:"verifyOtpExpireAt" json:"-"`
	ResetOTP          string        `bson:"resetOtp" json:"-"`
	ResetOTPExpireAt  int64         `bson:"resetOtpExpireAt" json:"-"`
	CreatedAt         time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// OTPPurpose selects which of the two one-time codes on a user is meant.
type OTPPurpose int

const (
	OTPVerify OTPPurpose = iota
	OTPReset
)

// OTP returns the outstanding code and its expiry for purpose.
func (u *User) OTP(purpose OTPPurpose) (code string, expireAt time.Time) {
	switch purpose {
	case OTPReset:
		code, expireAt = u.ResetOTP, time.UnixMilli(u.ResetOTPExpireAt)
	default:
		code, expireAt = u.VerifyOTP, time.UnixMilli(u.VerifyOTPExpireAt)
	}
	return code, expireAt
}

// OTPExpired reports whether the code for purpose has passed its expiry at now.
func (u *User) OTPExpired(purpose OTPPurpose, now time.Time) bool {
	_, expireAt := u.OTP(purpose)
	return now.After(expireAt)
}

// NormalizeEmail is the stored form of an address: trimmed and lowercased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
