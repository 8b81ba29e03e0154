package onboarding

import "github.com/ogurasousui/codex-grpc-onboarding/internal/core/customer"

// Reason は申請を却下した理由です。承認時は ReasonNone です。
type Reason string

const (
	ReasonNone                      Reason = ""
	ReasonInvalidName               Reason = "invalid_name"
	ReasonInvalidEmail              Reason = "invalid_email"
	ReasonUnderAge                  Reason = "under_age"
	ReasonCreditLimitBelowThreshold Reason = "credit_limit_below_threshold"
)

// Decision は判定結果です。Customer は承認時のみ設定されます。
type Decision struct {
	Accepted bool
	Reason   Reason
	Customer *customer.Customer
}

func rejected(reason Reason) Decision {
	return Decision{Reason: reason}
}
