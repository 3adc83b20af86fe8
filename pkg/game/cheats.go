package game

// CheatID 作弊项标识
type CheatID string

const (
	CheatTileNumbers                CheatID = "TileNumbers"
	CheatDisturbingElementsHiding   CheatID = "DisturbingElementsHiding"
	CheatDisturbingElementsImmunity CheatID = "DisturbingElementsImmunity"
)

// Cheat 一项作弊
// 启用后计时器按 ElapseFactor 加速，每步的扣分按 IncrementFactor 放大
type Cheat struct {
	ID              CheatID
	ElapseFactor    float64
	IncrementFactor int
	IsActive        bool
}

// newCheats 创建全部作弊项，初始均未启用
func newCheats() map[CheatID]*Cheat {
	return map[CheatID]*Cheat{
		CheatTileNumbers:                {ID: CheatTileNumbers, ElapseFactor: 5, IncrementFactor: 4},
		CheatDisturbingElementsHiding:   {ID: CheatDisturbingElementsHiding, ElapseFactor: 3, IncrementFactor: 2},
		CheatDisturbingElementsImmunity: {ID: CheatDisturbingElementsImmunity, ElapseFactor: 1.5, IncrementFactor: 2},
	}
}
