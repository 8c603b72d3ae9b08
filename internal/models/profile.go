package models

// RedemptionPreference is how a user prefers to redeem card rewards.
type RedemptionPreference string

const (
	RedeemCashBack        RedemptionPreference = "cash_back"
	RedeemTravelTransfer  RedemptionPreference = "travel_transfer"
	RedeemStatementCredit RedemptionPreference = "statement_credit"
	RedeemGiftCards       RedemptionPreference = "gift_cards"
	RedeemMerchandise     RedemptionPreference = "merchandise"
	RedeemTravelPortal    RedemptionPreference = "travel_portal"
)

// AgeGroup is an ordered demographic band.
type AgeGroup string

const (
	Age18To25 AgeGroup = "18-25"
	Age26To35 AgeGroup = "26-35"
	Age36To50 AgeGroup = "36-50"
	Age51To65 AgeGroup = "51-65"
	Age65Plus AgeGroup = "65+"
)

// LocationType classifies where a user lives.
type LocationType string

const (
	LocationUrban    LocationType = "urban"
	LocationSuburban LocationType = "suburban"
	LocationRural    LocationType = "rural"
)

// UserProfile is one synthetic user. Profiles are created in a single batch
// by the profile generator and are read-only afterwards.
type UserProfile struct {
	UserID               string
	Archetype            string
	MonthlyBudget        float64
	Cards                []string
	RedemptionPreference RedemptionPreference
	AgeGroup             AgeGroup
	LocationType         LocationType
}

// UserCard is one row of the exploded user-to-card ownership mapping.
type UserCard struct {
	UserID               string
	CardID               string
	RedemptionPreference RedemptionPreference
}
