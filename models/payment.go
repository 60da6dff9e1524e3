package models

// PaymentOutcome is the terminal result of a payment status poll. Timeout is
// deliberately distinct from failure: a timed-out STK push may still complete.
type PaymentOutcome string

const (
	PaymentOutcomePaid    PaymentOutcome = "paid"
	PaymentOutcomeFailed  PaymentOutcome = "failed"
	PaymentOutcomeTimeout PaymentOutcome = "timeout"
)

// STKPushResult is what the Daraja gateway returns on initiation.
type STKPushResult struct {
	CheckoutRequestID string `json:"checkoutRequestId"`
	MerchantRequestID string `json:"merchantRequestId"`
	ResponseCode      string `json:"responseCode"`
	CustomerMessage   string `json:"customerMessage"`
}

// MpesaCallback is the subset of the Daraja confirmation callback we consume.
type MpesaCallback struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

// ReminderPayload is the asynq payload for booking reminders.
type ReminderPayload struct {
	BookingID string `json:"bookingId"`
	Target    string `json:"target"` // "user" or "fundi"
	Title     string `json:"title"`
	Body      string `json:"body"`
}
