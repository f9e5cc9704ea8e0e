package game

// EntryCheck 进入地点的判定结果
type EntryCheck string

const (
	EntryAllowed       EntryCheck = "allowed"
	EntryAlreadyThere  EntryCheck = "already_there"
	EntryAlreadyPassed EntryCheck = "already_passed"
)

// CanEnter 判断玩家能否进入目标地点，先检查当前地点再检查已通过地点
func CanEnter(p *PlayerState, target Location) EntryCheck {
	if p.IsAt(target.ID) {
		return EntryAlreadyThere
	}
	if p.Passed.Has(target.ID) {
		return EntryAlreadyPassed
	}
	return EntryAllowed
}

// EnterLocation 进入地点并开始新的遭遇
func EnterLocation(p *PlayerState, target Location) {
	id := target.ID
	p.CurrentLocation = &id
	p.CurrentBossHP = target.BossHP
}

// BonusInfo 击败首领获得的奖励
type BonusInfo struct {
	Applied  bool `json:"applied"`
	HPBonus  int  `json:"hp_bonus"`
	DmgBonus int  `json:"dmg_bonus"`
	MaxHP    int  `json:"max_hp"`
	Damage   int  `json:"damage"`
}

// OnBossDefeated 记录通过地点并结算奖励，同一地点只结算一次
func OnBossDefeated(p *PlayerState, loc Location) BonusInfo {
	applied := p.Passed.Add(loc.ID)
	info := BonusInfo{Applied: applied}
	if applied {
		p.MaxHP += loc.HPBonus
		p.Damage += loc.DmgBonus
		info.HPBonus = loc.HPBonus
		info.DmgBonus = loc.DmgBonus
	}

	p.CurrentHP = p.MaxHP
	p.CurrentBossHP = 0
	info.MaxHP = p.MaxHP
	info.Damage = p.Damage
	return info
}

// CheckWin 已通过全部地点时返回true
func CheckWin(p *PlayerState, total int) bool {
	return total > 0 && p.Passed.Len() == total
}
