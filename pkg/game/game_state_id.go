package game

// StateID 游戏流程状态
// 数值与存档和 HUD 无关，只用于比较先后（Ready 之后的状态才允许干扰元素消失）
type StateID int

const (
	StateUndefined StateID = iota
	StateLoading
	StateLoaded
	StateStarting
	StateStarted
	StateReady
	StateRunning
	StateGameOver
	StatePaused
)

func (s StateID) String() string {
	switch s {
	case StateUndefined:
		return "Undefined"
	case StateLoading:
		return "Loading"
	case StateLoaded:
		return "Loaded"
	case StateStarting:
		return "Starting"
	case StateStarted:
		return "Started"
	case StateReady:
		return "Ready"
	case StateRunning:
		return "Running"
	case StateGameOver:
		return "GameOver"
	case StatePaused:
		return "Paused"
	}
	return "Unknown"
}

// AllowsTermination 该状态下干扰元素可以因离开安全区而消失
func (s StateID) AllowsTermination() bool {
	return s >= StateReady && s != StateGameOver
}
