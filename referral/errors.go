package referral

import "errors"

var (
	// ErrExhaustedRetries is returned by the generator when no unique
	// identifier was found within the configured attempt budget.
	ErrExhaustedRetries = errors.New("referral: exhausted identifier generation retries")

	// ErrMalformedInput is returned for digit groups that are not exactly
	// four decimal digits. Rejected before any state or throttle change.
	ErrMalformedInput = errors.New("referral: malformed digit group")

	// ErrCodeAlreadyUsed is returned by the usage ledger when the derived
	// code has already been redeemed.
	ErrCodeAlreadyUsed = errors.New("referral: code already used")

	// ErrIdentityNotFound is returned when no referral identity exists for
	// the given account.
	ErrIdentityNotFound = errors.New("referral: identity not found")

	// ErrKeyNotFound is returned when no active discount key of the
	// requested type exists.
	ErrKeyNotFound = errors.New("referral: discount key not found")

	// ErrCartItemNotFound is returned by the discount applicator when the
	// targeted cart line item does not exist.
	ErrCartItemNotFound = errors.New("referral: cart item not found")
)
