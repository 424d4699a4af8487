package ruleset

// Default returns the canonical rule set. Every call returns a fresh copy.
//
// Postcondition: Default().Validate() == nil.
func Default() *Rules {
	return &Rules{
		Capacity:            5,
		BaitCap:             100,
		RestrictedCap:       1000,
		StartingRod:         "철제 낚싯대",
		MinCastSeconds:      1,
		MaxCastSeconds:      60,
		TimeBonusSaturation: 60,
		ProbabilityCeiling:  95,
		EarlyReelPenalty:    -80,
		RefundRate:          0.5,
		NightWindow:         NightWindow{StartHour: 20, EndHour: 5},
		SlotPolicies: map[string]SlotPolicy{
			KindBait:          SlotPerType,
			KindBooster:       SlotPerUnit,
			KindChemicalLight: SlotPerUnit,
			KindRod:           SlotNone,
		},
		Items: []Item{
			{Name: "지렁이", Kind: KindBait, Price: 10, Restricted: true},
			{Name: "떡밥", Kind: KindBait, Price: 10, Restricted: true},
			{Name: "집어제", Kind: KindBooster, Price: 2000},
			{Name: "케미라이트1등급", Kind: KindChemicalLight, Price: 1000},
			{Name: "케미라이트2등급", Kind: KindChemicalLight, Price: 350},
			{Name: "케미라이트3등급", Kind: KindChemicalLight, Price: 200},
			{Name: "철제 낚싯대", Kind: KindRod, Price: 5000},
			{Name: "강화 낚싯대", Kind: KindRod, Price: 20000},
			{Name: "프로 낚싯대", Kind: KindRod, Price: 100000},
			{Name: "레전드 낚싯대", Kind: KindRod, Price: 500000},
		},
		Rods: []Rod{
			{Name: "철제 낚싯대", Bonus: map[Grade]float64{}},
			{Name: "강화 낚싯대", Bonus: map[Grade]float64{GradeSmall: 2, GradeMedium: 1}},
			{Name: "프로 낚싯대", Bonus: map[Grade]float64{GradeSmall: -2, GradeMedium: 3, GradeLarge: 1}},
			{Name: "레전드 낚싯대", Bonus: map[Grade]float64{GradeSmall: -5, GradeMedium: 5, GradeLarge: 3}},
		},
		Locations: []Location{
			{
				Name: "바다",
				Bait: "지렁이",
				Species: map[Grade][]Species{
					GradeSmall: {
						{Name: "전갱이", MinLength: 15, MaxLength: 30},
						{Name: "고등어", MinLength: 20, MaxLength: 40},
						{Name: "멸치", MinLength: 5, MaxLength: 15},
					},
					GradeMedium: {
						{Name: "참돔", MinLength: 30, MaxLength: 70},
						{Name: "광어", MinLength: 35, MaxLength: 80},
					},
					GradeLarge: {
						{Name: "참다랑어", MinLength: 100, MaxLength: 250},
						{Name: "돛새치", MinLength: 150, MaxLength: 300},
					},
				},
			},
			{
				Name: "민물",
				Bait: "떡밥",
				Species: map[Grade][]Species{
					GradeSmall: {
						{Name: "붕어", MinLength: 10, MaxLength: 30},
						{Name: "피라미", MinLength: 5, MaxLength: 15},
						{Name: "버들치", MinLength: 5, MaxLength: 12},
					},
					GradeMedium: {
						{Name: "잉어", MinLength: 30, MaxLength: 80},
						{Name: "메기", MinLength: 30, MaxLength: 70},
					},
					GradeLarge: {
						{Name: "철갑상어", MinLength: 100, MaxLength: 200},
						{Name: "대물 가물치", MinLength: 60, MaxLength: 100},
					},
				},
			},
		},
		Grades: []GradeRule{
			{Grade: GradeSmall, Weight: 9899, TimeBonusCap: 10, BinBase: []float64{6, 5, 4, 3, 2}, PriceMultiplier: 2, ExpMultiplier: 1},
			{Grade: GradeMedium, Weight: 100, TimeBonusCap: 5, BinBase: []float64{3, 2.5, 2, 1.5, 1}, PriceMultiplier: 10, ExpMultiplier: 4},
			{Grade: GradeLarge, Weight: 1, TimeBonusCap: 2, BinBase: []float64{1, 0.8, 0.6, 0.4, 0.2}, PriceMultiplier: 50, ExpMultiplier: 20},
		},
		SizeBins: []int{40, 30, 18, 9, 3},
		Booster:  Booster{Item: "집어제", Bonus: 5, Uses: 10},
		ChemicalLights: []ChemicalLight{
			{Tag: 1, Item: "케미라이트1등급", Grade: GradeLarge, Bonus: 10},
			{Tag: 2, Item: "케미라이트2등급", Grade: GradeMedium, Bonus: 8},
			{Tag: 3, Item: "케미라이트3등급", Grade: GradeSmall, Bonus: 5},
		},
		LevelTiers: []LevelTier{
			{MinLevel: 1, Title: "낚린이", Bonus: map[Grade]float64{GradeSmall: 1}, AttendanceReward: 100, NewbieEligible: true},
			{MinLevel: 31, Title: "낚시인", Bonus: map[Grade]float64{GradeSmall: 3, GradeMedium: 1}, AttendanceReward: 300},
			{MinLevel: 71, Title: "프로낚시인", Bonus: map[Grade]float64{GradeSmall: 5, GradeMedium: 2, GradeLarge: 0.5}, AttendanceReward: 1000},
			{MinLevel: 100, Title: "강태공", Bonus: map[Grade]float64{GradeSmall: 8, GradeMedium: 3, GradeLarge: 1}, AttendanceReward: 3000},
		},
		Combo:  Combo{Rods: []string{"레전드 낚싯대"}, MinSeconds: 50, Shift: 300},
		Newbie: Newbie{DailyLimit: 2, Grant: 100},
	}
}
