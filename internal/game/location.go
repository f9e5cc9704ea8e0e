package game

import (
	"sort"
	"strconv"
	"strings"
)

// LocationID 地点ID
type LocationID uint

// Location 地点及其首领，种子写入后只读
type Location struct {
	ID       LocationID `json:"id"`
	Name     string     `json:"name"`
	BossName string     `json:"boss_name"`
	BossHP   int        `json:"boss_hp"`
	BossDmg  int        `json:"boss_dmg"`
	HPBonus  int        `json:"hp_bonus"`
	DmgBonus int        `json:"dmg_bonus"`
}

// LocationSet 地点ID集合
type LocationSet map[LocationID]struct{}

// NewLocationSet 创建地点集合
func NewLocationSet(ids ...LocationID) LocationSet {
	s := make(LocationSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has 判断是否包含
func (s LocationSet) Has(id LocationID) bool {
	_, ok := s[id]
	return ok
}

// Add 加入集合，返回是否为新元素
func (s LocationSet) Add(id LocationID) bool {
	if s.Has(id) {
		return false
	}
	s[id] = struct{}{}
	return true
}

// Len 集合大小
func (s LocationSet) Len() int {
	return len(s)
}

// IDs 升序返回全部ID
func (s LocationSet) IDs() []LocationID {
	ids := make([]LocationID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Clone 复制集合
func (s LocationSet) Clone() LocationSet {
	c := make(LocationSet, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}

// LocationRef 玩家输入的地点引用：数字按ID查找，否则按名称查找
type LocationRef struct {
	ByID bool
	ID   LocationID
	Name string
}

// ParseLocationRef 解析地点引用
func ParseLocationRef(raw string) LocationRef {
	raw = strings.TrimSpace(raw)
	if raw != "" && isDigits(raw) {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			// 超出范围的数字不可能对应任何地点
			return LocationRef{ByID: true}
		}
		return LocationRef{ByID: true, ID: LocationID(id)}
	}
	return LocationRef{Name: raw}
}

// String 返回引用的原始形式
func (r LocationRef) String() string {
	if r.ByID {
		return strconv.FormatUint(uint64(r.ID), 10)
	}
	return r.Name
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
