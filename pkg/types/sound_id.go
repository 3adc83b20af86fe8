package types

// SoundID 音效标识
type SoundID string

const (
	SoundMove          SoundID = "MoveSound"
	SoundScramble      SoundID = "ScrambleSound"
	SoundSolved        SoundID = "SolvedSound"
	SoundGameOver      SoundID = "GameOverSound"
	SoundScorpionBurst SoundID = "ScorpionBurstSound"
)
