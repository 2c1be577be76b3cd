// Package permission models platform capability requests made when the game
// screen mounts. Answers never change game mechanics; a refusal only raises an alert.
package permission

import (
	"context"
	"fmt"
	"strings"
)

// Kind names a capability
type Kind int

const (
	Camera Kind = iota
)

func (k Kind) String() string {
	switch k {
	case Camera:
		return "camera"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Status is the outcome of a request
type Status int

const (
	Undetermined Status = iota
	Granted
	Denied
)

func (s Status) String() string {
	switch s {
	case Granted:
		return "granted"
	case Denied:
		return "denied"
	default:
		return "undetermined"
	}
}

// Requester asks the platform for a capability
type Requester interface {
	Request(ctx context.Context, kind Kind) (Status, error)
}

// Static answers every request with a fixed status
type Static Status

func (s Static) Request(ctx context.Context, _ Kind) (Status, error) {
	if err := ctx.Err(); err != nil {
		return Undetermined, err
	}
	return Status(s), nil
}

// Asker shows a yes/no question to the player and waits for the answer
type Asker interface {
	Ask(ctx context.Context, question string) (bool, error)
}

// Prompt asks the player through an Asker
type Prompt struct {
	Asker Asker
}

func (p Prompt) Request(ctx context.Context, kind Kind) (Status, error) {
	ok, err := p.Asker.Ask(ctx, fmt.Sprintf("Allow %s access?", kind))
	if err != nil {
		return Undetermined, fmt.Errorf("ask %s permission: %w", kind, err)
	}
	if ok {
		return Granted, nil
	}
	return Denied, nil
}

// Mode selects a requester from configuration
type Mode string

const (
	ModePrompt  Mode = "prompt"
	ModeGranted Mode = "granted"
	ModeDenied  Mode = "denied"
)

// ParseMode accepts prompt, granted or denied (case-insensitive)
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModePrompt, ModeGranted, ModeDenied:
		return m, nil
	default:
		return "", fmt.Errorf("unknown permission mode %q (want prompt, granted or denied)", s)
	}
}

// NewRequester builds the requester for mode; asker is used only for prompt
func NewRequester(mode Mode, asker Asker) (Requester, error) {
	switch mode {
	case ModeGranted:
		return Static(Granted), nil
	case ModeDenied:
		return Static(Denied), nil
	case ModePrompt:
		if asker == nil {
			return nil, fmt.Errorf("prompt permission mode needs an asker")
		}
		return Prompt{Asker: asker}, nil
	default:
		return nil, fmt.Errorf("unknown permission mode %q", mode)
	}
}

// Outcome is the settled result of a mount-time request
type Outcome struct {
	Kind   Kind
	Status Status
	Err    error
}

// NeedsAlert reports whether the player must be warned
func (o Outcome) NeedsAlert() bool {
	return o.Status != Granted
}

// RequestAsync runs the request in its own goroutine and delivers exactly one
// Outcome on the returned channel
func RequestAsync(ctx context.Context, r Requester, kind Kind) <-chan Outcome {
	out := make(chan Outcome, 1)
	go func() {
		st, err := r.Request(ctx, kind)
		out <- Outcome{Kind: kind, Status: st, Err: err}
	}()
	return out
}
