package flappy

// Session is the per-game state every behaviour reads and mutates.
// Each running game owns one; nothing about a round lives in package state.
type Session struct {
	Started   bool // First flap happened; pipes start moving
	GameOver  bool
	Paused    bool
	Points    int
	Ticks     int // Simulated ticks since the first flap
	HighScore int // Best stored score, provided by the host
}

// reset clears the round, carrying the best score forward.
func (s *Session) reset() {
	*s = Session{HighScore: s.Best()}
}

// Best returns the larger of the stored high score and the current points.
func (s *Session) Best() int {
	return max(s.HighScore, s.Points)
}
