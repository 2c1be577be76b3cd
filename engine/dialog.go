package engine

import "context"

// dialog is a yes/no question waiting for the player
type dialog struct {
	question string
	answer   chan bool
}

// Ask shows question as a modal dialog and blocks until the player answers.
// It implements permission.Asker; safe to call from any goroutine.
func (e *Engine) Ask(ctx context.Context, question string) (bool, error) {
	d := &dialog{question: question, answer: make(chan bool, 1)}

	select {
	case e.dialogs <- d:
	case <-ctx.Done():
		return false, ctx.Err()
	}

	select {
	case ok := <-d.answer:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// answer settles the front dialog
func (e *Engine) answer(ok bool) {
	if len(e.pending) == 0 {
		return
	}
	d := e.pending[0]
	e.pending = e.pending[1:]
	d.answer <- ok
	e.updateOverlay()
}
