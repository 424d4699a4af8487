// Package gameserver runs chat turns: it resolves commands, applies them to
// the player record through the engine, renders replies and persists the
// result.
package gameserver

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/cory-johannsen/angler/internal/game/cast"
	"github.com/cory-johannsen/angler/internal/game/command"
	"github.com/cory-johannsen/angler/internal/game/dice"
	"github.com/cory-johannsen/angler/internal/game/economy"
	"github.com/cory-johannsen/angler/internal/game/fishing"
	"github.com/cory-johannsen/angler/internal/game/inventory"
	"github.com/cory-johannsen/angler/internal/game/player"
	"github.com/cory-johannsen/angler/internal/game/progression"
	"github.com/cory-johannsen/angler/internal/game/ruleset"
)

// MaxNicknameLength is the longest accepted nickname in runes.
const MaxNicknameLength = 12

var bagFullHints = []string{
	"/전부판매 또는 /판매 [번호] 로 물고기를 팔아 칸을 비우세요",
	"/집어제사용 으로 보유한 집어제를 사용하면 칸이 비워집니다",
}

// Engine exposes every player operation. Each operation either succeeds and
// returns a view, or returns a *GameError and leaves the player untouched.
// Engine holds no per-player state; callers serialize turns per player.
type Engine struct {
	rules  *ruleset.Rules
	bag    *inventory.Bag
	prices *economy.Table
	levels *progression.Tracker
	casts  *cast.Machine
	clock  Clock
	logger *zap.Logger
}

// NewEngine wires the game components over rules.
//
// Precondition: rules must be validated; src, clock and logger must be non-nil.
func NewEngine(rules *ruleset.Rules, src dice.Source, clock Clock, logger *zap.Logger) *Engine {
	bag := inventory.NewBag(rules)
	resolver := fishing.NewEngine(rules, src, logger.Named("fishing"))
	return &Engine{
		rules:  rules,
		bag:    bag,
		prices: economy.NewTable(rules),
		levels: progression.NewTracker(rules),
		casts:  cast.NewMachine(rules, bag, resolver),
		clock:  clock,
		logger: logger,
	}
}

// Rules returns the active rule set.
func (e *Engine) Rules() *ruleset.Rules { return e.rules }

// Clock returns the engine clock.
func (e *Engine) Clock() Clock { return e.clock }

// NewPlayer creates a default record for id.
func (e *Engine) NewPlayer(id string) *player.Player {
	return player.New(id, e.rules.StartingRod, e.clock.Now())
}

// Prepare repairs a loaded record so every invariant holds.
func (e *Engine) Prepare(p *player.Player) {
	p.Normalize(e.rules.StartingRod)
	progression.Normalize(p)
}

// SetNickname assigns the immutable nickname.
func (e *Engine) SetNickname(p *player.Player, name string) (NicknameView, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n == 0 || n > MaxNicknameLength || strings.HasPrefix(name, "/") {
		return NicknameView{}, validation(ErrInvalidNickname,
			fmt.Sprintf("닉네임은 1~%d자로 입력해 주세요.", MaxNicknameLength), "예) /닉네임 낚시왕")
	}
	if err := p.SetNickname(name); err != nil {
		return NicknameView{}, conflict(err, "닉네임은 이미 설정되어 변경할 수 없습니다.")
	}
	return NicknameView{Nickname: name}, nil
}

// SetLocation moves the player to a fishing ground.
func (e *Engine) SetLocation(p *player.Player, name string) (LocationView, error) {
	loc, ok := e.rules.Location(strings.TrimSpace(name))
	if !ok {
		return LocationView{}, validation(ErrUnknownLocation,
			fmt.Sprintf("'%s'은(는) 없는 장소입니다.", name),
			"형식: /장소 ["+strings.Join(e.rules.LocationNames(), "|")+"]")
	}
	if p.IsCasting() {
		return LocationView{}, conflict(ErrCasting, "캐스팅 중에는 장소를 바꿀 수 없습니다.", "/릴감기 후 다시 시도하세요.")
	}
	p.Location = loc.Name
	return LocationView{Location: loc.Name, Bait: loc.Bait, BaitHeld: p.Quantity(loc.Bait)}, nil
}

// StartCast begins a cast. An empty location uses the player's current ground.
func (e *Engine) StartCast(p *player.Player, location string, seconds int) (CastView, error) {
	cs, err := e.casts.Start(p, location, seconds, e.clock.Now())
	if err != nil {
		return CastView{}, e.castError(p, location, err)
	}
	loc, _ := e.rules.Location(cs.Location)
	e.logger.Info("cast started",
		zap.String("uid", p.ID),
		zap.String("location", cs.Location),
		zap.Int("seconds", cs.Seconds),
	)
	return CastView{
		Location: cs.Location,
		Seconds:  cs.Seconds,
		Bait:     loc.Bait,
		BaitLeft: p.Quantity(loc.Bait),
		ReadyAt:  cs.ReadyAt(),
	}, nil
}

func (e *Engine) castError(p *player.Player, location string, err error) error {
	switch {
	case errors.Is(err, cast.ErrInvalidDuration):
		return validation(err, fmt.Sprintf("캐스팅 시간은 %d~%d초 사이로 입력해 주세요.",
			e.rules.MinCastSeconds, e.rules.MaxCastSeconds), "예) /낚시 15s")
	case errors.Is(err, cast.ErrAlreadyCasting):
		return conflict(err, "이미 캐스팅 중입니다.", "/릴감기 후 다시 시도하세요.")
	case errors.Is(err, cast.ErrNoLocation):
		return validation(err, "먼저 장소를 설정하세요.",
			"/장소 ["+strings.Join(e.rules.LocationNames(), "|")+"]")
	case errors.Is(err, cast.ErrUnknownLocation):
		return validation(err, fmt.Sprintf("'%s'은(는) 없는 장소입니다.", location))
	case errors.Is(err, inventory.ErrBagFull):
		return exhausted(err, fmt.Sprintf("가방이 가득 찼습니다. (%d/%d칸)",
			e.bag.OccupiedSlots(p), e.bag.Capacity()), bagFullHints...)
	case errors.Is(err, cast.ErrNoBait):
		name := location
		if name == "" {
			name = p.Location
		}
		loc, _ := e.rules.Location(name)
		return exhausted(err, fmt.Sprintf("%s이(가) 없습니다. %s에서는 %s이(가) 필요합니다.", loc.Bait, loc.Name, loc.Bait),
			fmt.Sprintf("/구매 %s 10개", loc.Bait))
	default:
		return validation(err, "캐스팅할 수 없습니다.")
	}
}

// Reel resolves the outstanding cast at the current clock time.
func (e *Engine) Reel(p *player.Player) (ReelView, error) {
	c, err := e.casts.Reel(p, e.clock.Now())
	if errors.Is(err, cast.ErrNotCasting) {
		return ReelView{}, conflict(err, "캐스팅 기록이 없습니다.", "예) /낚시 15s")
	}
	if err != nil {
		return ReelView{}, err
	}
	loc, _ := e.rules.Location(c.Outcome.Location)
	e.logger.Info("cast reeled",
		zap.String("uid", p.ID),
		zap.String("species", c.Outcome.Species),
		zap.Int("length", c.Outcome.Length),
		zap.String("grade", string(c.Outcome.Grade)),
		zap.Bool("success", c.Outcome.Success),
		zap.Bool("early", c.Early),
		zap.Bool("bag_full", c.BagFull),
	)
	return ReelView{
		Catch:    c,
		Bait:     loc.Bait,
		BaitLeft: p.Quantity(loc.Bait),
		Level:    p.Level,
		Exp:      p.Exp,
		Next:     progression.RequiredExperience(p.Level),
		Title:    e.levels.Title(p.Level),
		Occupied: e.bag.OccupiedSlots(p),
		Capacity: e.bag.Capacity(),
	}, nil
}

// BagFullHints returns the remediation hints for a full bag.
func BagFullHints() []string { return slices.Clone(bagFullHints) }

// Buy purchases qty units of item. Rods are bought singly, equipped on
// purchase and never occupy bag slots.
func (e *Engine) Buy(p *player.Player, item string, qty int) (PurchaseView, error) {
	it, ok := e.rules.Item(item)
	if !ok {
		return PurchaseView{}, e.unknownItem(item)
	}
	if qty < 1 {
		return PurchaseView{}, validation(ErrInvalidQuantity, "수량은 1 이상이어야 합니다.")
	}
	if it.Kind == ruleset.KindRod {
		return e.buyRod(p, it, qty)
	}

	if it.Kind == ruleset.KindBait {
		room := max(0, e.rules.BaitCap-p.Quantity(it.Name))
		if qty > room {
			return PurchaseView{}, exhausted(ErrBaitCapReached,
				fmt.Sprintf("%s은(는) 최대 %d개까지 보유할 수 있습니다. (현재 %d개, 추가 가능 %d개)",
					it.Name, e.rules.BaitCap, p.Quantity(it.Name), room))
		}
	}
	if e.rules.SlotPolicyFor(it.Name) == ruleset.SlotPerUnit && qty > e.bag.Free(p) {
		return PurchaseView{}, exhausted(inventory.ErrBagFull,
			fmt.Sprintf("가방 공간이 부족합니다. (%d/%d칸, 추가 가능 %d개)", e.bag.OccupiedSlots(p), e.bag.Capacity(), e.bag.Free(p)),
			bagFullHints...)
	}
	if !e.bag.CanAdd(p, inventory.Change{Item: it.Name, Quantity: qty}) {
		return PurchaseView{}, exhausted(inventory.ErrBagFull,
			fmt.Sprintf("가방 공간이 부족합니다. (%d/%d칸)", e.bag.OccupiedSlots(p), e.bag.Capacity()),
			bagFullHints...)
	}
	cost, err := e.prices.Cost(it.Name, qty)
	if errors.Is(err, economy.ErrQuantityTooLarge) {
		return PurchaseView{}, validation(ErrInvalidQuantity, "구매 수량이 너무 많습니다.")
	}
	if err != nil {
		return PurchaseView{}, e.unknownItem(item)
	}
	pay, err := e.prices.Split(it.Name, cost, p.RestrictedGold, p.Gold)
	if err != nil {
		return PurchaseView{}, e.insufficient(p, it, cost)
	}

	if _, _, err := e.bag.AddConsumable(p, it.Name, qty); err != nil {
		return PurchaseView{}, exhausted(err, "가방 공간이 부족합니다.", bagFullHints...)
	}
	p.RestrictedGold -= pay.Restricted
	p.Gold -= pay.General
	e.logger.Info("item bought",
		zap.String("uid", p.ID),
		zap.String("item", it.Name),
		zap.Int("quantity", qty),
		zap.Int("restricted", pay.Restricted),
		zap.Int("general", pay.General),
	)
	return PurchaseView{
		Item:       it.Name,
		Kind:       it.Kind,
		Quantity:   qty,
		Payment:    pay,
		Held:       p.Quantity(it.Name),
		Gold:       p.Gold,
		Restricted: p.RestrictedGold,
	}, nil
}

func (e *Engine) buyRod(p *player.Player, it ruleset.Item, qty int) (PurchaseView, error) {
	if qty != 1 {
		return PurchaseView{}, validation(ErrInvalidQuantity, "낚싯대는 한 번에 1개만 구매할 수 있습니다.")
	}
	if p.OwnsRod(it.Name) {
		return PurchaseView{}, conflict(ErrRodOwned, fmt.Sprintf("%s은(는) 이미 보유 중입니다.", it.Name),
			fmt.Sprintf("/장착 %s", it.Name))
	}
	pay, err := e.prices.Split(it.Name, it.Price, p.RestrictedGold, p.Gold)
	if err != nil {
		return PurchaseView{}, e.insufficient(p, it, it.Price)
	}
	p.RestrictedGold -= pay.Restricted
	p.Gold -= pay.General
	p.Rods = append(p.Rods, it.Name)
	p.Rod = it.Name
	e.logger.Info("rod bought", zap.String("uid", p.ID), zap.String("rod", it.Name))
	return PurchaseView{
		Item:       it.Name,
		Kind:       it.Kind,
		Quantity:   1,
		Payment:    pay,
		Held:       1,
		Equipped:   true,
		Gold:       p.Gold,
		Restricted: p.RestrictedGold,
	}, nil
}

func (e *Engine) insufficient(p *player.Player, it ruleset.Item, cost int) error {
	have := p.Gold
	if it.Restricted {
		have += p.RestrictedGold
	}
	hints := []string{"/전부판매 로 물고기를 팔아 골드를 모으세요"}
	if !it.Restricted && p.RestrictedGold > 0 {
		hints = append(hints, "제한골드는 미끼 구매에만 사용할 수 있습니다")
	}
	return exhausted(economy.ErrInsufficientFunds,
		fmt.Sprintf("골드가 부족합니다. (필요 %d, 사용 가능 %d)", cost, have), hints...)
}

func (e *Engine) unknownItem(name string) error {
	names := make([]string, 0, len(e.rules.Items))
	for _, it := range e.rules.Items {
		names = append(names, it.Name)
	}
	var hints []string
	if guess, ok := command.Closest(name, names); ok {
		hints = append(hints, fmt.Sprintf("혹시 '%s'을(를) 찾으시나요?", guess))
	}
	hints = append(hints, "/상점 으로 목록을 확인하세요")
	return validation(ErrUnknownItem, fmt.Sprintf("'%s'은(는) 없는 상품입니다.", name), hints...)
}

// Sell sells a bag fish by 1-based slot number, or qty units of a
// consumable or a rod by name. Refunds go to general currency.
func (e *Engine) Sell(p *player.Player, ref string, qty int) (SaleView, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		return e.sellFish(p, n)
	}
	it, ok := e.rules.Item(ref)
	if !ok {
		return SaleView{}, e.unknownItem(ref)
	}
	if qty < 1 {
		return SaleView{}, validation(ErrInvalidQuantity, "수량은 1 이상이어야 합니다.")
	}
	if it.Kind == ruleset.KindRod {
		return e.sellRod(p, it, qty)
	}
	held := p.Quantity(it.Name)
	if held < qty {
		return SaleView{}, exhausted(ErrNotEnoughItems,
			fmt.Sprintf("%s을(를) %d개 보유 중입니다. (판매 요청 %d개)", it.Name, held, qty))
	}
	refund, err := e.prices.Refund(it.Name, qty)
	if err != nil {
		return SaleView{}, e.unknownItem(ref)
	}
	if _, _, err := e.bag.AddConsumable(p, it.Name, -qty); err != nil {
		return SaleView{}, err
	}
	p.Gold += refund
	e.logger.Info("item sold", zap.String("uid", p.ID), zap.String("item", it.Name), zap.Int("quantity", qty), zap.Int("refund", refund))
	return SaleView{Item: it.Name, Quantity: qty, Refund: refund, Held: p.Quantity(it.Name), Gold: p.Gold}, nil
}

func (e *Engine) sellFish(p *player.Player, slot int) (SaleView, error) {
	if slot < 1 || slot > len(p.Bag) {
		return SaleView{}, validation(inventory.ErrSlotOutOfRange,
			fmt.Sprintf("%d번 칸에 물고기가 없습니다.", slot), "/가방 으로 번호를 확인하세요")
	}
	f, err := e.bag.RemoveFish(p, slot-1)
	if err != nil {
		return SaleView{}, err
	}
	p.Gold += f.Price
	e.logger.Info("fish sold", zap.String("uid", p.ID), zap.String("fish", f.Name), zap.Int("price", f.Price))
	return SaleView{Item: f.Name, Fish: &f, Quantity: 1, Refund: f.Price, Gold: p.Gold}, nil
}

func (e *Engine) sellRod(p *player.Player, it ruleset.Item, qty int) (SaleView, error) {
	if qty != 1 {
		return SaleView{}, validation(ErrInvalidQuantity, "낚싯대는 1개씩만 판매할 수 있습니다.")
	}
	if !p.OwnsRod(it.Name) {
		return SaleView{}, exhausted(ErrRodNotOwned, fmt.Sprintf("%s을(를) 보유하고 있지 않습니다.", it.Name))
	}
	if len(p.Rods) <= 1 {
		return SaleView{}, conflict(ErrLastRod, "마지막 낚싯대는 판매할 수 없습니다.")
	}
	if p.Rod == it.Name {
		return SaleView{}, conflict(ErrRodEquipped, "장착 중인 낚싯대는 판매할 수 없습니다.", "/장착 [다른 낚싯대]")
	}
	refund, err := e.prices.Refund(it.Name, 1)
	if err != nil {
		return SaleView{}, e.unknownItem(it.Name)
	}
	p.Rods = slices.DeleteFunc(slices.Clone(p.Rods), func(r string) bool { return r == it.Name })
	p.Gold += refund
	e.logger.Info("rod sold", zap.String("uid", p.ID), zap.String("rod", it.Name), zap.Int("refund", refund))
	return SaleView{Item: it.Name, Quantity: 1, Refund: refund, Gold: p.Gold}, nil
}

// SellAll stages every bag fish for sale; ConfirmSale settles it.
func (e *Engine) SellAll(p *player.Player) (PendingSaleView, error) {
	if len(p.Bag) == 0 {
		return PendingSaleView{}, exhausted(ErrNoFish, "판매할 물고기가 없습니다.")
	}
	ids := make([]string, 0, len(p.Bag))
	total := 0
	for _, f := range p.Bag {
		ids = append(ids, f.ID)
		total += f.Price
	}
	p.PendingSale = &player.PendingSale{FishIDs: ids, Total: total}
	return PendingSaleView{Fish: slices.Clone(p.Bag), Total: total}, nil
}

// ConfirmSale sells the staged fish still in the bag.
func (e *Engine) ConfirmSale(p *player.Player) (SettledSaleView, error) {
	if p.PendingSale == nil {
		return SettledSaleView{}, conflict(ErrNoPendingSale, "확인할 판매 요청이 없습니다.", "/전부판매 를 먼저 입력하세요")
	}
	staged := p.PendingSale.FishIDs
	keep := make([]player.Fish, 0, len(p.Bag))
	count, total := 0, 0
	for _, f := range p.Bag {
		if slices.Contains(staged, f.ID) {
			count++
			total += f.Price
			continue
		}
		keep = append(keep, f)
	}
	p.Bag = keep
	p.Gold += total
	p.PendingSale = nil
	e.logger.Info("sale confirmed", zap.String("uid", p.ID), zap.Int("count", count), zap.Int("total", total))
	return SettledSaleView{Count: count, Total: total, Gold: p.Gold}, nil
}

// CancelSale discards the staged sale.
func (e *Engine) CancelSale(p *player.Player) (SettledSaleView, error) {
	if p.PendingSale == nil {
		return SettledSaleView{}, conflict(ErrNoPendingSale, "취소할 판매 요청이 없습니다.")
	}
	n := len(p.PendingSale.FishIDs)
	p.PendingSale = nil
	return SettledSaleView{Count: n, Gold: p.Gold}, nil
}

// Equip switches the equipped rod.
func (e *Engine) Equip(p *player.Player, rod string) (EquipView, error) {
	rod = strings.TrimSpace(rod)
	if _, ok := e.rules.Rod(rod); !ok {
		return EquipView{}, e.unknownItem(rod)
	}
	if !p.OwnsRod(rod) {
		return EquipView{}, exhausted(ErrRodNotOwned, fmt.Sprintf("%s을(를) 보유하고 있지 않습니다.", rod),
			fmt.Sprintf("/구매 %s", rod))
	}
	if p.Rod == rod {
		return EquipView{}, conflict(ErrRodEquipped, fmt.Sprintf("이미 %s을(를) 장착 중입니다.", rod))
	}
	prev := p.Rod
	p.Rod = rod
	return EquipView{Rod: rod, Previous: prev}, nil
}

// UseBooster consumes one booster unit and activates it for its configured uses.
func (e *Engine) UseBooster(p *player.Player) (BoosterView, error) {
	b := e.rules.Booster
	if p.Buffs.BoosterUses > 0 {
		return BoosterView{}, conflict(ErrBoosterActive,
			fmt.Sprintf("%s 효과가 이미 적용 중입니다. (남은 %d회)", b.Item, p.Buffs.BoosterUses))
	}
	if p.Quantity(b.Item) < 1 {
		return BoosterView{}, exhausted(ErrNotEnoughItems, fmt.Sprintf("%s이(가) 없습니다.", b.Item),
			fmt.Sprintf("/구매 %s 1개", b.Item))
	}
	if _, _, err := e.bag.AddConsumable(p, b.Item, -1); err != nil {
		return BoosterView{}, err
	}
	p.Buffs.BoosterUses = b.Uses
	return BoosterView{Item: b.Item, Uses: b.Uses, Bonus: b.Bonus, Held: p.Quantity(b.Item)}, nil
}

// UseChemicalLight arms the chemical light with the given tag for the next
// resolved cast. It is only usable inside the night window.
func (e *Engine) UseChemicalLight(p *player.Player, tag int) (ChemicalLightView, error) {
	cl, ok := e.rules.ChemicalLight(tag)
	if !ok {
		return ChemicalLightView{}, validation(ErrUnknownItem, "케미라이트 등급은 1, 2, 3 중 하나입니다.", "예) /케미라이트 사용 1")
	}
	now := e.clock.Now()
	if !e.rules.NightWindow.Contains(now.Hour()) {
		return ChemicalLightView{}, validation(ErrNotNight,
			fmt.Sprintf("케미라이트는 밤(%02d:00~%02d:00)에만 사용할 수 있습니다.",
				e.rules.NightWindow.StartHour, e.rules.NightWindow.EndHour))
	}
	if p.Buffs.ChemicalLight != 0 {
		return ChemicalLightView{}, conflict(ErrChemicalLightReady, "이미 사용한 케미라이트가 다음 낚시를 기다리고 있습니다.")
	}
	if p.Quantity(cl.Item) < 1 {
		return ChemicalLightView{}, exhausted(ErrNotEnoughItems, fmt.Sprintf("%s이(가) 없습니다.", cl.Item),
			fmt.Sprintf("/구매 %s 1개", cl.Item))
	}
	if _, _, err := e.bag.AddConsumable(p, cl.Item, -1); err != nil {
		return ChemicalLightView{}, err
	}
	p.Buffs.ChemicalLight = cl.Tag
	return ChemicalLightView{Tag: cl.Tag, Item: cl.Item, Grade: cl.Grade, Bonus: cl.Bonus, Held: p.Quantity(cl.Item)}, nil
}

// Attendance grants the daily reward once per local calendar day.
func (e *Engine) Attendance(p *player.Player) (AttendanceView, error) {
	today := DayKey(e.clock.Now())
	if p.AttendanceLast == today {
		return AttendanceView{}, conflict(ErrAlreadyAttended, "오늘은 이미 출석하셨습니다.")
	}
	tier := e.levels.Tier(p.Level)
	p.AttendanceLast = today
	p.Gold += tier.AttendanceReward
	return AttendanceView{Reward: tier.AttendanceReward, Title: tier.Title, Gold: p.Gold}, nil
}

// NewbieChance grants restricted currency to lowest-tier players with no
// money, at most the configured number of times per local day.
func (e *Engine) NewbieChance(p *player.Player) (NewbieView, error) {
	tier := e.levels.Tier(p.Level)
	if !tier.NewbieEligible {
		return NewbieView{}, validation(ErrNotEligible, fmt.Sprintf("초보자찬스는 %s 전용입니다.", e.rules.LevelTiers[0].Title))
	}
	if p.Balance() > 0 {
		return NewbieView{}, conflict(ErrHasBalance, "잔액이 0일 때만 받을 수 있습니다.")
	}
	today := DayKey(e.clock.Now())
	used := 0
	if p.Newbie.Date == today {
		used = p.Newbie.Count
	}
	limit := e.rules.Newbie.DailyLimit
	if used >= limit {
		return NewbieView{}, exhausted(ErrDailyLimit, fmt.Sprintf("오늘은 이미 %d회 모두 사용했습니다.", limit))
	}
	grant := min(e.rules.Newbie.Grant, max(0, e.rules.RestrictedCap-p.RestrictedGold))
	p.RestrictedGold += grant
	p.Newbie = player.NewbieUsage{Date: today, Count: used + 1}
	return NewbieView{Granted: grant, Restricted: p.RestrictedGold, UsesLeft: limit - used - 1}, nil
}

// Status returns a read-only summary.
func (e *Engine) Status(p *player.Player) StatusView {
	now := e.clock.Now()
	v := StatusView{
		Nickname:      p.Nickname,
		Title:         e.levels.Title(p.Level),
		Level:         p.Level,
		Exp:           p.Exp,
		Next:          progression.RequiredExperience(p.Level),
		Gold:          p.Gold,
		Restricted:    p.RestrictedGold,
		Location:      p.Location,
		Rod:           p.Rod,
		BoosterUses:   p.Buffs.BoosterUses,
		ChemicalLight: p.Buffs.ChemicalLight,
		Casting:       p.IsCasting(),
		Remaining:     cast.Remaining(p, now),
		Attended:      p.AttendanceLast == DayKey(now),
		Occupied:      e.bag.OccupiedSlots(p),
		Capacity:      e.bag.Capacity(),
		Hour:          Hour(now.Hour()),
		Night:         e.rules.NightWindow.Contains(now.Hour()),
	}
	if p.Casting != nil {
		v.CastLocation = p.Casting.Location
	}
	return v
}

// Bag returns a read-only listing of the bag.
func (e *Engine) Bag(p *player.Player) BagView {
	v := BagView{
		Occupied: e.bag.OccupiedSlots(p),
		Capacity: e.bag.Capacity(),
		Fish:     slices.Clone(p.Bag),
		Rods:     slices.Clone(p.Rods),
		Equipped: p.Rod,
	}
	for _, it := range e.rules.Items {
		if it.Kind == ruleset.KindRod {
			continue
		}
		qty := p.Quantity(it.Name)
		if qty == 0 {
			v.Missing = append(v.Missing, it.Name)
			continue
		}
		slots := e.bag.SlotsFor(it.Name, qty)
		v.Consumables = append(v.Consumables, Holding{Name: it.Name, Quantity: qty, Slots: slots})
	}
	return v
}

// Records returns the smallest and largest catches.
func (e *Engine) Records(p *player.Player) RecordsView {
	return RecordsView{Smallest: p.Records.Smallest, Largest: p.Records.Largest}
}

// Shop returns the price list with the player's holdings.
func (e *Engine) Shop(p *player.Player) ShopView {
	items := e.prices.Items()
	v := ShopView{Entries: make([]ShopEntry, 0, len(items)), Gold: p.Gold, Restricted: p.RestrictedGold}
	for _, it := range items {
		v.Entries = append(v.Entries, ShopEntry{Item: it, Held: p.Quantity(it.Name), Owned: p.OwnsRod(it.Name)})
	}
	return v
}
