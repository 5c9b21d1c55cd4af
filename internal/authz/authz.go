// Package authz holds the ownership rules for every protected resource
// in one flat table, keyed by (resource kind, operation). Handlers ask
// Allowed and translate a deny to 403 or 404 per endpoint convention;
// the rules themselves are pure comparisons.
package authz

// Kind identifies the resource type a rule applies to.
type Kind string

const (
	KindAd      Kind = "ad"
	KindMessage Kind = "message"
	KindAccount Kind = "account"
)

// Operation identifies what the actor wants to do.
type Operation string

const (
	OpUpdate       Operation = "update"
	OpDelete       Operation = "delete"
	OpToggleActive Operation = "toggle_active"
	OpMarkRead     Operation = "mark_read"
)

// Actor is the minimal view of the acting account the rules need.
type Actor struct {
	ID      uint
	IsStaff bool
}

// Resource carries the identity fields the rules compare against. Only
// the fields relevant to the kind need to be set.
type Resource struct {
	Kind        Kind
	OwnerID     uint // ads
	SenderID    uint // messages
	RecipientID uint // messages
	AccountID   uint // account operations
}

type ruleKey struct {
	kind Kind
	op   Operation
}

type rule func(a Actor, r Resource) bool

func ownerOnly(a Actor, r Resource) bool       { return a.ID == r.OwnerID }
func recipientOnly(a Actor, r Resource) bool   { return a.ID == r.RecipientID }
func participantOnly(a Actor, r Resource) bool { return a.ID == r.SenderID || a.ID == r.RecipientID }
func selfOrStaff(a Actor, r Resource) bool     { return a.ID == r.AccountID || a.IsStaff }

// The whole authorization policy. Favorites are absent on purpose:
// favorite queries are always filtered by the acting user, so there is
// no separate decision to make.
var rules = map[ruleKey]rule{
	{KindAd, OpUpdate}:        ownerOnly,
	{KindAd, OpDelete}:        ownerOnly,
	{KindAd, OpToggleActive}:  ownerOnly,
	{KindMessage, OpMarkRead}: recipientOnly,
	{KindMessage, OpDelete}:   participantOnly,
	{KindAccount, OpDelete}:   selfOrStaff,
}

// Allowed evaluates the rule for (resource kind, operation). Unknown
// pairs deny.
func Allowed(actor Actor, res Resource, op Operation) bool {
	r, ok := rules[ruleKey{res.Kind, op}]
	if !ok {
		return false
	}
	return r(actor, res)
}
