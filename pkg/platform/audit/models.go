package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with legal/regulatory significance:
	// investor onboarding, role changes, seizures, policy changes.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers rejected privileged operations and pauses.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine token movements.
	CategoryOperations EventCategory = "operations"
)

// Outcome records whether the audited call committed.
type Outcome string

const (
	OutcomeCommitted Outcome = "committed"
	OutcomeRejected  Outcome = "rejected"
)

// Event is emitted once per mutating ledger call, whether it committed or
// was rejected. Keep it transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        uuid.UUID
	Category  EventCategory
	Timestamp time.Time
	Action    string
	// Actor is the hex address of the caller.
	Actor string
	// Subjects are the hex addresses the call acted on, in call order
	// (from, to for transfers and seizures).
	Subjects   []string
	InvestorID string
	Amount     string
	Outcome    Outcome
	// Reason is the caller-supplied reason on commit (burn, seize, lock) or
	// the rejection message otherwise.
	Reason    string
	RequestID string
}

// HasSubject reports whether addr is one of the event's subjects or its actor.
func (e Event) HasSubject(addr string) bool {
	if e.Actor == addr {
		return true
	}
	for _, s := range e.Subjects {
		if s == addr {
			return true
		}
	}
	return false
}

type AuditEvent string

const (
	// Trust events
	EventRoleSet AuditEvent = "role_set"

	// Identity events
	EventInvestorRegistered AuditEvent = "investor_registered"
	EventWalletAdded        AuditEvent = "wallet_added"
	EventCountrySet         AuditEvent = "country_set"
	EventAttributeSet       AuditEvent = "attribute_set"

	// Token events
	EventTokensIssued       AuditEvent = "tokens_issued"
	EventTokensIssuedLocked AuditEvent = "tokens_issued_locked"
	EventTransfer           AuditEvent = "transfer"
	EventBurned             AuditEvent = "burned"
	EventSeized             AuditEvent = "seized"
	EventPaused             AuditEvent = "paused"
	EventUnpaused           AuditEvent = "unpaused"
	EventIssuanceToggled    AuditEvent = "issuance_toggled"

	// Policy events
	EventCountryCompliance     AuditEvent = "country_compliance_set"
	EventMaxHoldersSet         AuditEvent = "max_holders_set"
	EventTransactionLimitsSet  AuditEvent = "transaction_limits_set"
	EventCompliancePolicyReset AuditEvent = "compliance_policy_set"
)

// eventCategories maps each audit event to its category.
var eventCategories = map[AuditEvent]EventCategory{
	EventRoleSet:               CategoryCompliance,
	EventInvestorRegistered:    CategoryCompliance,
	EventWalletAdded:           CategoryCompliance,
	EventCountrySet:            CategoryCompliance,
	EventAttributeSet:          CategoryCompliance,
	EventBurned:                CategoryCompliance,
	EventSeized:                CategoryCompliance,
	EventCountryCompliance:     CategoryCompliance,
	EventMaxHoldersSet:         CategoryCompliance,
	EventTransactionLimitsSet:  CategoryCompliance,
	EventCompliancePolicyReset: CategoryCompliance,

	EventPaused:          CategorySecurity,
	EventUnpaused:        CategorySecurity,
	EventIssuanceToggled: CategorySecurity,

	EventTokensIssued:       CategoryOperations,
	EventTokensIssuedLocked: CategoryOperations,
	EventTransfer:           CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

func (e AuditEvent) String() string { return string(e) }

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Lister is implemented by stores that can read events back.
type Lister interface {
	// ListRecent returns up to limit events, oldest first.
	ListRecent(ctx context.Context, limit int) ([]Event, error)
	// ListBySubject returns every event whose actor or subjects include addr.
	ListBySubject(ctx context.Context, addr string) ([]Event, error)
}
