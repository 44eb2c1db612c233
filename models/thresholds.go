package models

// Threshold maps a level to the minimum cumulative XP required to hold it.
type Threshold struct {
	Level Level
	MinXP int
}

// Thresholds is the fixed level ladder, ascending by XP and terminating in
// Master. Loaded once, never mutated.
var Thresholds = []Threshold{
	{NumericLevel(1), 0},
	{NumericLevel(2), 5},
	{NumericLevel(3), 10},
	{NumericLevel(4), 25},
	{NumericLevel(5), 50},
	{NumericLevel(6), 75},
	{NumericLevel(7), 100},
	{NumericLevel(8), 150},
	{NumericLevel(9), 200},
	{NumericLevel(10), 300},
	{Master, 500},
}

// LevelForXP returns the greatest threshold level whose XP requirement is at
// most xp.
func LevelForXP(xp int) Level {
	level := Thresholds[0].Level
	for _, t := range Thresholds {
		if xp >= t.MinXP {
			level = t.Level
		}
	}
	return level
}

// XPToNext returns the XP remaining until the next threshold, or 0 at the
// top of the ladder.
func XPToNext(xp int) int {
	for _, t := range Thresholds {
		if t.MinXP > xp {
			return t.MinXP - xp
		}
	}
	return 0
}
