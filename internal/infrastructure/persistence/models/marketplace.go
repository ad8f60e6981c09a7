package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserModel is a registered platform user
type UserModel struct {
	BaseModel
	Email          string  `gorm:"type:varchar(255);not null;uniqueIndex:ix_users_email"`
	Username       string  `gorm:"type:varchar(50);not null;uniqueIndex:ix_users_username"`
	HashedPassword string  `gorm:"type:varchar(255);not null"`
	FullName       *string `gorm:"type:varchar(255)"`
	IsActive       bool    `gorm:"not null;default:true"`
	IsSuperuser    bool    `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ListingModel is a product listing offered by a seller
type ListingModel struct {
	BaseModel
	Title       string          `gorm:"type:varchar(200);not null;index:ix_listings_title"`
	Description *string         `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Currency    string          `gorm:"type:varchar(3);not null;default:'USD'"`
	Status      ListingStatus   `gorm:"type:listingstatus;not null;default:'active'"`
	SellerID    uuid.UUID       `gorm:"type:uuid;not null;index:ix_listings_seller_id"`
	RegionID    uuid.UUID       `gorm:"type:uuid;not null"`
	CategoryID  uuid.UUID       `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (ListingModel) TableName() string {
	return "listings"
}

// OfferModel is an offer submitted by a buyer for a listing
type OfferModel struct {
	BaseModel
	Amount    decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Status    OfferStatus     `gorm:"type:offerstatus;not null;default:'pending'"`
	ListingID uuid.UUID       `gorm:"type:uuid;not null;index:ix_offers_listing_id"`
	BuyerID   uuid.UUID       `gorm:"type:uuid;not null;index:ix_offers_buyer_id"`
}

// TableName returns the table name for GORM
func (OfferModel) TableName() string {
	return "offers"
}

// NegotiationModel is a negotiation session linked to one offer
type NegotiationModel struct {
	BaseModel
	Status      NegotiationStatus `gorm:"type:negotiationstatus;not null;default:'open'"`
	LastMessage *string           `gorm:"type:text"`
	ChannelID   *string           `gorm:"type:varchar(120);index:ix_negotiations_channel_id"`
	OfferID     uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex"`
	ListingID   uuid.UUID         `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (NegotiationModel) TableName() string {
	return "negotiations"
}

// SwapModel is a swap proposal between two users about a listing
type SwapModel struct {
	BaseModel
	Status         SwapStatus `gorm:"type:swapstatus;not null;default:'proposed'"`
	Notes          *string    `gorm:"type:text"`
	ChannelID      *string    `gorm:"type:varchar(120);index:ix_swaps_channel_id"`
	ListingID      uuid.UUID  `gorm:"type:uuid;not null;index:ix_swaps_listing_id"`
	InitiatorID    uuid.UUID  `gorm:"type:uuid;not null"`
	CounterpartyID uuid.UUID  `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (SwapModel) TableName() string {
	return "swaps"
}

// TransactionModel is a payment transaction for a listing
type TransactionModel struct {
	BaseModel
	Amount                  decimal.Decimal   `gorm:"type:numeric(10,2);not null"`
	Currency                string            `gorm:"type:varchar(3);not null;default:'USD'"`
	Status                  TransactionStatus `gorm:"type:transactionstatus;not null;default:'pending'"`
	Provider                string            `gorm:"type:varchar(50);not null;default:'stripe'"`
	ProviderPaymentIntentID *string           `gorm:"type:varchar(120);index:ix_transactions_provider_payment_intent_id"`
	ListingID               *uuid.UUID        `gorm:"type:uuid"`
	BuyerID                 *uuid.UUID        `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "transactions"
}
