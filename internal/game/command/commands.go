// Package command provides the command registry, parser, and built-in command definitions.
package command

// Categories for organizing commands.
const (
	CategoryFishing = "fishing"
	CategoryShop    = "shop"
	CategoryBonus   = "bonus"
	CategoryInfo    = "info"
	CategorySystem  = "system"
)

// Handler identifiers mapping commands to engine operations.
const (
	HandlerHome          = "home"
	HandlerNickname      = "nickname"
	HandlerLocation      = "location"
	HandlerCast          = "cast"
	HandlerReel          = "reel"
	HandlerStatus        = "status"
	HandlerBag           = "bag"
	HandlerRecords       = "records"
	HandlerShop          = "shop"
	HandlerBuy           = "buy"
	HandlerSell          = "sell"
	HandlerSellAll       = "sell_all"
	HandlerConfirmSale   = "confirm_sale"
	HandlerCancelSale    = "cancel_sale"
	HandlerEquip         = "equip"
	HandlerBooster       = "booster"
	HandlerChemicalLight = "chemical_light"
	HandlerAttendance    = "attendance"
	HandlerNewbie        = "newbie"
)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage is the argument synopsis shown in help.
	Usage string
	// Help is the short help text displayed to players.
	Help string
	// Category groups the command.
	Category string
	// Handler maps to the engine operation.
	Handler string
}

// BuiltinCommands returns all built-in commands for the game.
func BuiltinCommands() []Command {
	return []Command{
		{Name: "/", Aliases: []string{"홈", "home", "메뉴", "/홈", "/도움말"}, Help: "홈 화면과 사용법", Category: CategorySystem, Handler: HandlerHome},
		{Name: "/닉네임", Usage: "[이름]", Help: "닉네임 설정 (이후 변경 불가)", Category: CategorySystem, Handler: HandlerNickname},

		{Name: "/장소", Usage: "[바다|민물]", Help: "낚시 장소 설정", Category: CategoryFishing, Handler: HandlerLocation},
		{Name: "/낚시", Aliases: []string{"/캐스팅"}, Usage: "[1~60]s", Help: "해당 초 만큼 캐스팅", Category: CategoryFishing, Handler: HandlerCast},
		{Name: "/릴감기", Aliases: []string{"/릴"}, Help: "캐스팅 결과 확인", Category: CategoryFishing, Handler: HandlerReel},
		{Name: "/집어제사용", Aliases: []string{"/집어제"}, Help: "집어제 사용", Category: CategoryFishing, Handler: HandlerBooster},
		{Name: "/케미라이트", Aliases: []string{"/케미라이트사용"}, Usage: "사용 [1|2|3]", Help: "케미라이트 사용 (밤에만)", Category: CategoryFishing, Handler: HandlerChemicalLight},

		{Name: "/상태", Aliases: []string{"/내정보"}, Help: "내 상태 보기", Category: CategoryInfo, Handler: HandlerStatus},
		{Name: "/가방", Aliases: []string{"/인벤"}, Help: "가방 보기", Category: CategoryInfo, Handler: HandlerBag},
		{Name: "/기록", Help: "잡아본 물고기 기록", Category: CategoryInfo, Handler: HandlerRecords},

		{Name: "/상점", Help: "상점 목록 보기", Category: CategoryShop, Handler: HandlerShop},
		{Name: "/구매", Usage: "[이름] [갯수]", Help: "아이템 구매", Category: CategoryShop, Handler: HandlerBuy},
		{Name: "/판매", Aliases: []string{"/아이템판매"}, Usage: "[번호|이름] [수량]", Help: "되팔기 (구매가의 50%)", Category: CategoryShop, Handler: HandlerSell},
		{Name: "/전부판매", Help: "가방의 물고기 전부 판매", Category: CategoryShop, Handler: HandlerSellAll},
		{Name: "/판매확인", Help: "전부판매 확정", Category: CategoryShop, Handler: HandlerConfirmSale},
		{Name: "/판매취소", Help: "전부판매 취소", Category: CategoryShop, Handler: HandlerCancelSale},
		{Name: "/장착", Usage: "[낚싯대]", Help: "보유한 낚싯대 장착", Category: CategoryShop, Handler: HandlerEquip},

		{Name: "/출석", Help: "출석 보상 받기", Category: CategoryBonus, Handler: HandlerAttendance},
		{Name: "/초보자찬스", Help: "낚린이 전용 보너스", Category: CategoryBonus, Handler: HandlerNewbie},
	}
}
