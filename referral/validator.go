package referral

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/stylesphere/StyleSphere/models"
	"github.com/stylesphere/StyleSphere/utils"
)

// MaxFailedAttempts is the lockout ceiling: once an account records this many
// failures it is blocked from further attempts until explicitly reset.
const MaxFailedAttempts = 5

var digitGroup = regexp.MustCompile(`^[0-9]{4}$`)

// FailureReason enumerates the terminal failure outcomes of a redemption.
type FailureReason string

const (
	ReasonNotAuthenticated    FailureReason = "NOT_AUTHENTICATED"
	ReasonNoPriorPurchase     FailureReason = "NO_PRIOR_PURCHASE"
	ReasonAttemptsExceeded    FailureReason = "ATTEMPTS_EXCEEDED"
	ReasonInvalidCode         FailureReason = "INVALID_CODE"
	ReasonPartnerNotSharing   FailureReason = "PARTNER_NOT_SHARING"
	ReasonDiscountKeyNotFound FailureReason = "DISCOUNT_KEY_NOT_FOUND"
	ReasonCodeAlreadyUsed     FailureReason = "CODE_ALREADY_USED"
)

// state tracks the validator's progress through a single redemption attempt.
type state int

const (
	stateIdle state = iota
	stateAuthorizing
	stateMatchingSelf
	stateMatchingPartner
	stateCheckingLedger
	stateApplying
	stateSucceeded
	stateFailed
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "Idle"
	case stateAuthorizing:
		return "Authorizing"
	case stateMatchingSelf:
		return "MatchingSelf"
	case stateMatchingPartner:
		return "MatchingPartner"
	case stateCheckingLedger:
		return "CheckingLedger"
	case stateApplying:
		return "Applying"
	case stateSucceeded:
		return "Succeeded"
	case stateFailed:
		return "Failed"
	}
	return "Unknown"
}

// RedeemRequest carries one redemption attempt. UserID zero means the caller
// is not authenticated.
type RedeemRequest struct {
	UserID      uint
	OwnHalf     string
	PartnerHalf string
	KeyType     string
	Item        CartItemRef
}

// Result is the outcome of a redemption attempt. Either Succeeded is true and
// Code/KeyType/Percentage are set, or Reason names the failure.
type Result struct {
	Succeeded  bool          `json:"succeeded"`
	Reason     FailureReason `json:"reason,omitempty"`
	Code       string        `json:"code,omitempty"`
	KeyType    string        `json:"key_type,omitempty"`
	Percentage int           `json:"percentage,omitempty"`
}

func failure(reason FailureReason) Result {
	return Result{Reason: reason}
}

// Service orchestrates the end-to-end redemption check and owns the order of
// operations: authorization, self-half match, partner-half match, key lookup,
// atomic ledger insert, discount application.
type Service struct {
	identities IdentityStore
	throttle   Throttle
	ledger     UsageLedger
	keys       DiscountKeyCatalog
	cart       DiscountApplicator
}

// NewService wires a Service from its collaborators.
func NewService(identities IdentityStore, throttle Throttle, ledger UsageLedger, keys DiscountKeyCatalog, cart DiscountApplicator) *Service {
	return &Service{
		identities: identities,
		throttle:   throttle,
		ledger:     ledger,
		keys:       keys,
		cart:       cart,
	}
}

// Redeem runs one redemption attempt through the state machine, short-
// circuiting on the first failed check. Malformed digit groups are rejected
// with ErrMalformedInput before any state or throttle change. Infrastructure
// faults surface as non-nil errors, never as a Result.
func (s *Service) Redeem(ctx context.Context, req RedeemRequest) (Result, error) {
	if !digitGroup.MatchString(req.OwnHalf) || !digitGroup.MatchString(req.PartnerHalf) {
		return Result{}, ErrMalformedInput
	}

	st := stateIdle
	st = s.transition(req.UserID, st, stateAuthorizing)

	if req.UserID == 0 {
		s.transition(req.UserID, st, stateFailed)
		return failure(ReasonNotAuthenticated), nil
	}
	identity, err := s.identities.ByUser(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			s.transition(req.UserID, st, stateFailed)
			return failure(ReasonNotAuthenticated), nil
		}
		return Result{}, err
	}
	if identity.PriorPurchaseCount < 1 {
		s.transition(req.UserID, st, stateFailed)
		return failure(ReasonNoPriorPurchase), nil
	}
	locked, err := s.throttle.IsLocked(ctx, req.UserID)
	if err != nil {
		return Result{}, err
	}
	if locked {
		s.transition(req.UserID, st, stateFailed)
		return failure(ReasonAttemptsExceeded), nil
	}

	st = s.transition(req.UserID, st, stateMatchingSelf)
	if req.OwnHalf != identity.Identifier[:4] {
		return s.guessFailed(ctx, req.UserID, st)
	}

	st = s.transition(req.UserID, st, stateMatchingPartner)
	partners, err := s.identities.PartnersByLastFour(ctx, req.PartnerHalf, req.UserID)
	if err != nil {
		return Result{}, err
	}
	if len(partners) != 1 {
		// No match, or more than one account shares the suffix. Either way
		// the partner was not found, which counts as a guessing attempt.
		return s.guessFailed(ctx, req.UserID, st)
	}
	partner := partners[0]
	if !partner.SharingEnabled {
		// The partner was found, so this is not a guess and not throttled.
		s.transition(req.UserID, st, stateFailed)
		return failure(ReasonPartnerNotSharing), nil
	}

	key, err := s.keys.ActiveKey(ctx, req.KeyType)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			s.transition(req.UserID, st, stateFailed)
			return failure(ReasonDiscountKeyNotFound), nil
		}
		return Result{}, err
	}

	st = s.transition(req.UserID, st, stateCheckingLedger)
	code := req.OwnHalf + req.PartnerHalf
	usage := &models.ReferralUsage{
		Code:            code,
		RedeemerUserID:  req.UserID,
		PartnerUserID:   partner.UserID,
		DiscountKeyType: key.KeyType,
	}
	if err := s.ledger.Record(ctx, usage); err != nil {
		if errors.Is(err, ErrCodeAlreadyUsed) {
			// Structurally valid, simply spent. Not a throttle event.
			s.transition(req.UserID, st, stateFailed)
			return failure(ReasonCodeAlreadyUsed), nil
		}
		return Result{}, fmt.Errorf("ledger insert for code %s: %w", code, err)
	}

	if err := s.throttle.Reset(ctx, req.UserID); err != nil {
		// The redemption stands; the stale counter only delays a lockout.
		utils.LogError("Failed to reset throttle after redemption for user %d: %v", req.UserID, err)
	}

	st = s.transition(req.UserID, st, stateApplying)
	if err := s.cart.Apply(ctx, req.UserID, req.Item, key.KeyType, key.Percentage); err != nil {
		// The ledger row is already committed. Fail loudly so the gap is
		// visible to operators instead of silently reporting success.
		utils.LogError("Discount apply failed after ledger insert, code %s, user %d: %v", code, req.UserID, err)
		return Result{}, fmt.Errorf("apply discount for code %s: %w", code, err)
	}

	s.transition(req.UserID, st, stateSucceeded)
	return Result{
		Succeeded:  true,
		Code:       code,
		KeyType:    key.KeyType,
		Percentage: key.Percentage,
	}, nil
}

// guessFailed records a throttle failure for a mismatched half and reports
// InvalidCode. Once the counter reaches the ceiling the next attempt is
// blocked up front with AttemptsExceeded.
func (s *Service) guessFailed(ctx context.Context, userID uint, st state) (Result, error) {
	count, err := s.throttle.RecordFailure(ctx, userID)
	if err != nil {
		return Result{}, err
	}
	utils.LogInfo("Redemption guess failed for user %d, attempt %d of %d", userID, count, MaxFailedAttempts)
	s.transition(userID, st, stateFailed)
	return failure(ReasonInvalidCode), nil
}

func (s *Service) transition(userID uint, from, to state) state {
	utils.LogDebug("Redemption state for user %d: %s -> %s", userID, from, to)
	return to
}
