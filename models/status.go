package models

import "time"

// Status is a point-in-time snapshot of the bot lifecycle. BotName is only
// meaningful while running; StartTime is nil when stopped.
type Status struct {
	IsRunning bool       `json:"isRunning"`
	BotName   string     `json:"botName"`
	StartTime *time.Time `json:"startTime"`
}
