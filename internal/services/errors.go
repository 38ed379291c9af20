package services

import "errors"

var (
	ErrApplicantNotFound  = errors.New("applicant not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrOTPInvalid         = errors.New("invalid or expired OTP")
	ErrOTPTooManyAttempts = errors.New("too many failed attempts, request a new OTP")
	ErrOTPRateLimited     = errors.New("too many OTP requests")
	ErrDeliveryFailed     = errors.New("failed to deliver message")
	ErrSessionInvalid     = errors.New("invalid or expired session")
	ErrInvalidTransition  = errors.New("status change not allowed")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrRoundNotFound      = errors.New("round not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrInvalidReview      = errors.New("invalid review")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrStaffExists        = errors.New("staff account already exists")
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrInvalidInput       = errors.New("invalid input")
)
