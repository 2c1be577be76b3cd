package constants

import "time"

// Surface geometry: each terminal cell covers CellWidth x CellHeight world points.
// Terminal cells are roughly twice as tall as wide, so the aspect is kept 1:2.
const (
	CellWidth  = 8.0
	CellHeight = 16.0
)

// UI text
const (
	WinText             = "You Win!"
	PermissionAlertText = "permission required"
	StatusBarHeight     = 1
)

// Audio cue shaping
const (
	BumpSoundDuration = 90 * time.Millisecond
	BumpSoundAttack   = 5 * time.Millisecond
	BumpSoundRelease  = 60 * time.Millisecond

	ChimeNoteDuration = 140 * time.Millisecond
	ChimeAttack       = 5 * time.Millisecond
	ChimeRelease      = 110 * time.Millisecond
)
