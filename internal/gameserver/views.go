package gameserver

import (
	"time"

	"github.com/cory-johannsen/angler/internal/game/cast"
	"github.com/cory-johannsen/angler/internal/game/economy"
	"github.com/cory-johannsen/angler/internal/game/player"
	"github.com/cory-johannsen/angler/internal/game/ruleset"
)

// NicknameView confirms a nickname assignment.
type NicknameView struct {
	Nickname string
}

// LocationView confirms a ground change.
type LocationView struct {
	Location string
	Bait     string
	BaitHeld int
}

// CastView describes a started cast.
type CastView struct {
	Location string
	Seconds  int
	Bait     string
	BaitLeft int
	ReadyAt  time.Time
}

// ReelView describes a resolved cast.
type ReelView struct {
	cast.Catch
	Bait     string
	BaitLeft int
	Level    int
	Exp      int
	Next     int
	Title    string
	// Occupied and Capacity are the bag state after the reel.
	Occupied int
	Capacity int
}

// PurchaseView describes a completed purchase.
type PurchaseView struct {
	Item       string
	Kind       string
	Quantity   int
	Payment    economy.Payment
	Held       int
	Equipped   bool
	Gold       int
	Restricted int
}

// SaleView describes a single sale.
type SaleView struct {
	Item     string
	Fish     *player.Fish
	Quantity int
	Refund   int
	Held     int
	Gold     int
}

// PendingSaleView describes a staged sell-all.
type PendingSaleView struct {
	Fish  []player.Fish
	Total int
}

// SettledSaleView describes a confirmed or cancelled sell-all.
type SettledSaleView struct {
	Count int
	Total int
	Gold  int
}

// EquipView confirms a rod change.
type EquipView struct {
	Rod      string
	Previous string
}

// BoosterView describes an activated booster.
type BoosterView struct {
	Item  string
	Uses  int
	Bonus float64
	Held  int
}

// ChemicalLightView describes an armed chemical light.
type ChemicalLightView struct {
	Tag   int
	Item  string
	Grade ruleset.Grade
	Bonus float64
	Held  int
}

// AttendanceView describes a daily attendance reward.
type AttendanceView struct {
	Reward int
	Title  string
	Gold   int
}

// NewbieView describes a newbie bonus grant.
type NewbieView struct {
	Granted    int
	Restricted int
	UsesLeft   int
}

// StatusView is a read-only summary of the player.
type StatusView struct {
	Nickname      string
	Title         string
	Level         int
	Exp           int
	Next          int
	Gold          int
	Restricted    int
	Location      string
	Rod           string
	BoosterUses   int
	ChemicalLight int
	Casting       bool
	CastLocation  string
	Remaining     int
	Attended      bool
	Occupied      int
	Capacity      int
	Hour          Hour
	Night         bool
}

// Holding is one consumable stack in the bag.
type Holding struct {
	Name     string
	Quantity int
	Slots    int
}

// BagView is a read-only listing of the bag.
type BagView struct {
	Occupied    int
	Capacity    int
	Fish        []player.Fish
	Consumables []Holding
	Rods        []string
	Equipped    string
	// Missing lists consumables the player holds none of.
	Missing []string
}

// RecordsView holds the smallest and largest catches.
type RecordsView struct {
	Smallest *player.Fish
	Largest  *player.Fish
}

// ShopEntry is one priced item.
type ShopEntry struct {
	ruleset.Item
	Held  int
	Owned bool
}

// ShopView is the price list with the player's holdings.
type ShopView struct {
	Entries    []ShopEntry
	Gold       int
	Restricted int
}
