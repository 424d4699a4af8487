package gameserver

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/cory-johannsen/angler/internal/game/player"
	"github.com/cory-johannsen/angler/internal/game/ruleset"
)

// Fixed replies that do not depend on player state.
const (
	WelcomeText = "🎣 낚시 RPG에 오신 것을 환영합니다!\n닉네임을 먼저 설정해 주세요.\n예) /닉네임 낚시왕"
	RetryText   = "⚠️ 일시적인 오류가 발생했습니다. 잠시 후 다시 시도해 주세요."
)

// Renderer formats engine views as chat text. Lines are separated by "\n";
// line transports translate separators themselves.
type Renderer struct {
	rules *ruleset.Rules
	p     *message.Printer
}

// NewRenderer creates a Renderer that formats numbers for Korean readers.
//
// Precondition: rules must be non-nil.
func NewRenderer(rules *ruleset.Rules) *Renderer {
	return &Renderer{rules: rules, p: message.NewPrinter(language.Korean)}
}

// Gold formats an amount as "💰1,234".
func (r *Renderer) Gold(n int) string {
	return r.p.Sprintf("💰%d", n)
}

// Money formats both balances on one line.
func (r *Renderer) Money(gold, restricted int) string {
	return fmt.Sprintf("Gold: %s | 제한골드: %s", r.Gold(gold), r.Gold(restricted))
}

func (r *Renderer) locationChoices() string {
	return strings.Join(r.rules.LocationNames(), "|")
}

// Error renders a GameError with its hints.
func (r *Renderer) Error(ge *GameError) string {
	var b strings.Builder
	b.WriteString("⚠️ ")
	b.WriteString(ge.Message)
	for _, h := range ge.Hints {
		b.WriteString("\n💡 ")
		b.WriteString(h)
	}
	return b.String()
}

// Suggestion renders a reply for an unrecognized command.
func (r *Renderer) Suggestion(input, guess string, ok bool) string {
	if ok {
		return fmt.Sprintf("⚠️ '%s'은(는) 없는 명령어입니다.\n💡 혹시 '%s'을(를) 입력하려고 하셨나요?", input, guess)
	}
	return fmt.Sprintf("⚠️ '%s'은(는) 없는 명령어입니다.\n💡 '/' 로 사용법을 확인하세요.", input)
}

// Usage renders a malformed-argument reply.
func (r *Renderer) Usage(usage string) string {
	return "⚠️ 형식: " + usage
}

// Guide renders the usage guide shown on the home screen.
func (r *Renderer) Guide() string {
	lines := []string{
		"🎣 낚시 RPG 사용법",
		fmt.Sprintf("1) /장소 [%s] ← 먼저 장소를 설정하세요", r.locationChoices()),
		fmt.Sprintf("2) /낚시 [%d~%d]s ← 해당 초 만큼 캐스팅 (예: /낚시 15s)", r.rules.MinCastSeconds, r.rules.MaxCastSeconds),
		"3) 시간이 끝나면 /릴감기 로 결과 확인",
		"4) /기록 → 잡아본 물고기 확인",
		"",
		"🏪 상점 이용 방법",
		"/상점 → 상점 목록 보기",
		"/구매 [이름] [갯수] → 예: /구매 지렁이 10개, /구매 케미라이트1등급 1개",
		fmt.Sprintf("/판매 [이름] [수량] → 되팔기(구매가의 %d%%)", int(r.rules.RefundRate*100)),
		"/판매 [번호] → 가방의 물고기 판매, /전부판매 → 물고기 전부 판매",
		"",
		"(출석/보너스)",
		"/출석 → 출석 보상 받기",
		fmt.Sprintf("/초보자찬스 → %s 전용 보너스(1일 %d회, 잔액 0일 때만 수령)",
			r.rules.LevelTiers[0].Title, r.rules.Newbie.DailyLimit),
		"/집어제사용, /케미라이트 [1|2|3] → 버프 사용",
	}
	return strings.Join(lines, "\n")
}

// Home renders the home screen: status, bag, attendance, cast state, guide.
func (r *Renderer) Home(s StatusView, bag BagView) string {
	blocks := []string{
		"[상태]\n" + r.statusLines(s),
		r.Bag(bag),
		r.attendanceBlock(s),
		r.castBlock(s),
		r.Guide(),
	}
	return strings.Join(blocks, "\n\n")
}

func (r *Renderer) statusLines(s StatusView) string {
	loc := s.Location
	if loc == "" {
		loc = "미설정"
	}
	lines := []string{
		fmt.Sprintf("%s %s | Lv.%d  Exp:%d/%d", s.Title, s.Nickname, s.Level, s.Exp, s.Next),
		r.Money(s.Gold, s.Restricted),
		fmt.Sprintf("장소: %s | 장착 낚싯대: %s", loc, s.Rod),
	}
	if s.BoosterUses > 0 {
		lines = append(lines, fmt.Sprintf("집어제 효과: 남은 %d회", s.BoosterUses))
	}
	if s.ChemicalLight > 0 {
		lines = append(lines, fmt.Sprintf("케미라이트%d등급 대기중", s.ChemicalLight))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) attendanceBlock(s StatusView) string {
	if s.Attended {
		return "[출석]\n오늘은 이미 출석하셨습니다."
	}
	return "[출석]\n오늘 출석을 아직 하지 않으셨습니다.\n✅ /출석 입력하면 보상 골드를 받을 수 있습니다."
}

func (r *Renderer) castBlock(s StatusView) string {
	if !s.Casting {
		return "[낚시 상태]\n🎣 현재 낚시중이 아닙니다.\n예) /장소 민물 → /낚시 15s → 시간이 지나면 /릴감기"
	}
	if s.Remaining > 0 {
		return fmt.Sprintf("[낚시 상태]\n⏳ %s에서 낚시중 (남은 시간: %d초)", s.CastLocation, s.Remaining)
	}
	return fmt.Sprintf("[낚시 상태]\n⏰ %s에서 입질이 왔습니다! /릴감기 로 확인하세요.", s.CastLocation)
}

// Status renders the status screen.
func (r *Renderer) Status(s StatusView) string {
	blocks := []string{
		"[상태]\n" + r.statusLines(s) + fmt.Sprintf("\n가방: %d/%d칸", s.Occupied, s.Capacity),
		r.attendanceBlock(s),
		r.castBlock(s),
	}
	night := "낮 시간"
	if s.Night {
		night = "밤 시간 (케미라이트 사용 가능)"
	}
	blocks = append(blocks, fmt.Sprintf("[시간]\n%s %s · %s", s.Hour, s.Hour.Period(), night))
	return strings.Join(blocks, "\n\n")
}

// Bag renders the bag listing.
func (r *Renderer) Bag(v BagView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[가방]\n%d/%d칸 사용중\n", v.Occupied, v.Capacity)
	n := 0
	for _, f := range v.Fish {
		n++
		fmt.Fprintf(&b, "%d. %s\n", n, r.fishLine(f))
	}
	for _, h := range v.Consumables {
		for i := 0; i < h.Slots; i++ {
			n++
			if h.Slots == 1 {
				fmt.Fprintf(&b, "%d. %s (%d개)\n", n, h.Name, h.Quantity)
			} else {
				fmt.Fprintf(&b, "%d. %s\n", n, h.Name)
			}
		}
	}
	for ; n < v.Capacity; n++ {
		fmt.Fprintf(&b, "%d. 비어있음\n", n+1)
	}
	fmt.Fprintf(&b, "\n낚싯대: %s (장착: %s)", strings.Join(v.Rods, ", "), v.Equipped)
	if len(v.Missing) > 0 {
		fmt.Fprintf(&b, "\n보유하지 않은 물품: %s", strings.Join(v.Missing, ", "))
	}
	return b.String()
}

func (r *Renderer) fishLine(f player.Fish) string {
	return fmt.Sprintf("%s %dcm (%s) - %s", f.Name, f.Length, f.Grade, r.Gold(f.Price))
}

// Records renders the catch records.
func (r *Renderer) Records(v RecordsView) string {
	if v.Smallest == nil && v.Largest == nil {
		return "[기록]\n아직 잡은 물고기가 없습니다."
	}
	lines := []string{"[기록]"}
	if v.Smallest != nil {
		lines = append(lines, "📏 최소: "+r.recordLine(*v.Smallest))
	}
	if v.Largest != nil {
		lines = append(lines, "🏆 최대: "+r.recordLine(*v.Largest))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) recordLine(f player.Fish) string {
	return fmt.Sprintf("%s (%s, %s)", r.fishLine(f), f.Location, DayKey(f.CaughtAt))
}

// Shop renders the price list.
func (r *Renderer) Shop(v ShopView) string {
	var b strings.Builder
	b.WriteString("[상점]\n")
	for _, e := range v.Entries {
		fmt.Fprintf(&b, "• %s %s", e.Name, r.Gold(e.Price))
		if e.Restricted {
			b.WriteString(" (제한골드 사용 가능)")
		}
		switch {
		case e.Kind == ruleset.KindRod && e.Owned:
			b.WriteString(" [보유]")
		case e.Held > 0:
			fmt.Fprintf(&b, " [보유 %d개]", e.Held)
		}
		b.WriteString("\n")
	}
	b.WriteString(r.Money(v.Gold, v.Restricted))
	b.WriteString("\n예) /구매 지렁이 10개")
	return b.String()
}

// Nickname renders a nickname confirmation.
func (r *Renderer) Nickname(v NicknameView) string {
	return fmt.Sprintf("닉네임이 '%s'(으)로 설정되었습니다.\n이제 '/' 로 홈 화면을 확인해 보세요.", v.Nickname)
}

// Location renders a location change.
func (r *Renderer) Location(v LocationView) string {
	return fmt.Sprintf("장소를 '%s'(으)로 설정했습니다.\n필요 미끼: %s (보유 %d개)", v.Location, v.Bait, v.BaitHeld)
}

// Cast renders a started cast.
func (r *Renderer) Cast(v CastView) string {
	return fmt.Sprintf("🎣 %s에서 %d초 캐스팅 시작!\n✅ %s 1개 사용됨 (남은 %s: %d개)\n시간이 끝나면 자동으로 결과가 나옵니다. (/릴감기)",
		v.Location, v.Seconds, v.Bait, v.Bait, v.BaitLeft)
}

// Reel renders a resolved cast.
func (r *Renderer) Reel(v ReelView) string {
	o := v.Outcome
	lines := []string{"뭔가가 걸렸다 !!"}
	if v.Early {
		lines = append(lines, fmt.Sprintf("⏱️ 너무 일찍 릴을 감았습니다. (%d초 경과)", v.Elapsed))
	}
	switch {
	case !o.Success:
		lines = append(lines, fmt.Sprintf("🎣 %s %dcm (%s)을(를) 놓쳤습니다... 다시 도전해 보세요!", o.Species, o.Length, o.Grade))
	case v.BagFull:
		lines = append(lines, fmt.Sprintf("🎣 %s %dcm (%s)을(를) 낚았지만 가방이 가득 차 놓아주었습니다.", o.Species, o.Length, o.Grade))
		for _, h := range bagFullHints {
			lines = append(lines, "💡 "+h)
		}
	default:
		lines = append(lines,
			fmt.Sprintf("🎣 %s %dcm (%s) 낚음!", o.Species, o.Length, o.Grade),
			fmt.Sprintf("💰 판매가 %s | +%d Exp", r.Gold(o.Price), o.Exp),
		)
	}
	lines = append(lines, fmt.Sprintf("📊 성공 확률 %.2f%%", o.Breakdown.Final))
	if v.LevelsGained > 0 {
		lines = append(lines, fmt.Sprintf("🎉 레벨 업! Lv.%d %s", v.Level, v.Title))
	}
	if v.ChemicalLightUsed {
		lines = append(lines, "💡 케미라이트 효과가 사용되었습니다.")
	}
	if v.BoosterUsesLeft > 0 {
		lines = append(lines, fmt.Sprintf("🧪 집어제 효과 남은 %d회", v.BoosterUsesLeft))
	}
	lines = append(lines,
		fmt.Sprintf("Lv.%d Exp:%d/%d | 가방 %d/%d칸 | 남은 %s: %d개", v.Level, v.Exp, v.Next, v.Occupied, v.Capacity, v.Bait, v.BaitLeft))
	return strings.Join(lines, "\n")
}

// Purchase renders a completed purchase.
func (r *Renderer) Purchase(v PurchaseView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ %s %d개 구매 완료!\n", v.Item, v.Quantity)
	if v.Payment.Restricted > 0 {
		fmt.Fprintf(&b, "결제: 제한골드 %s + Gold %s\n", r.Gold(v.Payment.Restricted), r.Gold(v.Payment.General))
	} else {
		fmt.Fprintf(&b, "결제: Gold %s\n", r.Gold(v.Payment.General))
	}
	if v.Equipped {
		fmt.Fprintf(&b, "🎣 %s을(를) 장착했습니다.\n", v.Item)
	} else {
		fmt.Fprintf(&b, "보유: %d개\n", v.Held)
	}
	b.WriteString(r.Money(v.Gold, v.Restricted))
	return b.String()
}

// Sale renders a single sale.
func (r *Renderer) Sale(v SaleView) string {
	if v.Fish != nil {
		return fmt.Sprintf("✅ %s 판매 완료! +%s\nGold: %s", r.fishLine(*v.Fish), r.Gold(v.Refund), r.Gold(v.Gold))
	}
	return fmt.Sprintf("✅ %s %d개 판매 완료! +%s\n남은 수량: %d개 | Gold: %s",
		v.Item, v.Quantity, r.Gold(v.Refund), v.Held, r.Gold(v.Gold))
}

// PendingSale renders a staged sell-all.
func (r *Renderer) PendingSale(v PendingSaleView) string {
	var b strings.Builder
	b.WriteString("[전부판매]\n")
	for i, f := range v.Fish {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r.fishLine(f))
	}
	fmt.Fprintf(&b, "합계: %s\n/판매확인 으로 판매하거나 /판매취소 로 취소하세요.", r.Gold(v.Total))
	return b.String()
}

// SaleConfirmed renders a settled sell-all.
func (r *Renderer) SaleConfirmed(v SettledSaleView) string {
	return fmt.Sprintf("✅ 물고기 %d마리 판매 완료! +%s\nGold: %s", v.Count, r.Gold(v.Total), r.Gold(v.Gold))
}

// SaleCancelled renders a discarded sell-all.
func (r *Renderer) SaleCancelled(SettledSaleView) string {
	return "판매 요청을 취소했습니다."
}

// Equip renders a rod change.
func (r *Renderer) Equip(v EquipView) string {
	return fmt.Sprintf("🎣 %s을(를) 장착했습니다. (이전: %s)", v.Rod, v.Previous)
}

// Booster renders an activated booster.
func (r *Renderer) Booster(v BoosterView) string {
	return fmt.Sprintf("🧪 %s 사용! 다음 %d회 낚시 확률 +%g%%\n남은 %s: %d개", v.Item, v.Uses, v.Bonus, v.Item, v.Held)
}

// ChemicalLight renders an armed chemical light.
func (r *Renderer) ChemicalLight(v ChemicalLightView) string {
	return fmt.Sprintf("💡 %s 사용! 다음 낚시에서 %s 확률 +%g%%\n남은 %s: %d개", v.Item, v.Grade, v.Bonus, v.Item, v.Held)
}

// Attendance renders a daily attendance reward.
func (r *Renderer) Attendance(v AttendanceView) string {
	return fmt.Sprintf("✅ 출석 완료! (%s) +%s\nGold: %s", v.Title, r.Gold(v.Reward), r.Gold(v.Gold))
}

// Newbie renders a newbie grant.
func (r *Renderer) Newbie(v NewbieView) string {
	return fmt.Sprintf("🎁 초보자찬스! 제한골드 +%s\n제한골드: %s | 오늘 남은 횟수: %d회",
		r.Gold(v.Granted), r.Gold(v.Restricted), v.UsesLeft)
}
