package models

// ListingStatus is the lifecycle state of a listing (listingstatus enum)
type ListingStatus string

const (
	ListingStatusDraft    ListingStatus = "draft"
	ListingStatusActive   ListingStatus = "active"
	ListingStatusSold     ListingStatus = "sold"
	ListingStatusArchived ListingStatus = "archived"
)

// OfferStatus is the state of a buyer's offer (offerstatus enum)
type OfferStatus string

const (
	OfferStatusPending   OfferStatus = "pending"
	OfferStatusAccepted  OfferStatus = "accepted"
	OfferStatusRejected  OfferStatus = "rejected"
	OfferStatusWithdrawn OfferStatus = "withdrawn"
	OfferStatusExpired   OfferStatus = "expired"
)

// NegotiationStatus is the state of a negotiation session (negotiationstatus enum)
type NegotiationStatus string

const (
	NegotiationStatusOpen      NegotiationStatus = "open"
	NegotiationStatusClosed    NegotiationStatus = "closed"
	NegotiationStatusCancelled NegotiationStatus = "cancelled"
)

// SwapStatus is the state of a swap proposal (swapstatus enum)
type SwapStatus string

const (
	SwapStatusProposed  SwapStatus = "proposed"
	SwapStatusAccepted  SwapStatus = "accepted"
	SwapStatusRejected  SwapStatus = "rejected"
	SwapStatusCompleted SwapStatus = "completed"
	SwapStatusCancelled SwapStatus = "cancelled"
)

// TransactionStatus is the state of a payment transaction (transactionstatus enum)
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusSucceeded TransactionStatus = "succeeded"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusRefunded  TransactionStatus = "refunded"
)

// Enum describes a PostgreSQL enum type created by the initial migration
type Enum struct {
	Name   string
	Values []string
}

// Enums returns the enum types of the schema with their values in declaration order
func Enums() []Enum {
	return []Enum{
		{Name: "listingstatus", Values: []string{
			string(ListingStatusDraft), string(ListingStatusActive), string(ListingStatusSold), string(ListingStatusArchived),
		}},
		{Name: "offerstatus", Values: []string{
			string(OfferStatusPending), string(OfferStatusAccepted), string(OfferStatusRejected),
			string(OfferStatusWithdrawn), string(OfferStatusExpired),
		}},
		{Name: "negotiationstatus", Values: []string{
			string(NegotiationStatusOpen), string(NegotiationStatusClosed), string(NegotiationStatusCancelled),
		}},
		{Name: "swapstatus", Values: []string{
			string(SwapStatusProposed), string(SwapStatusAccepted), string(SwapStatusRejected),
			string(SwapStatusCompleted), string(SwapStatusCancelled),
		}},
		{Name: "transactionstatus", Values: []string{
			string(TransactionStatusPending), string(TransactionStatusSucceeded),
			string(TransactionStatusFailed), string(TransactionStatusRefunded),
		}},
	}
}
