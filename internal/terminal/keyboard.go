package terminal

import (
	"bufio"
	"context"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/mahakarkout/AttentionTest/internal/schedule"
)

// Keyboard turns lines typed on a terminal into loop events. A bare Enter
// is a reaction while reactions are enabled; everything else is passed on
// as a command.
type Keyboard struct {
	log     *zap.Logger
	poster  schedule.Poster
	enabled bool // only touched on the loop goroutine

	react   func()
	command func(cmd string)
}

// NewKeyboard posts every input line to poster.
func NewKeyboard(log *zap.Logger, poster schedule.Poster) *Keyboard {
	return &Keyboard{
		log:     log,
		poster:  poster,
		react:   func() {},
		command: func(string) {},
	}
}

// Bind sets the handlers. It must be called before Listen.
func (k *Keyboard) Bind(react func(), command func(cmd string)) {
	k.react = react
	k.command = command
}

func (k *Keyboard) EnableReaction() {
	k.enabled = true
}

func (k *Keyboard) DisableReaction() {
	k.enabled = false
}

// Listen reads lines from r until it is exhausted or ctx is done. When the
// input ends, the command "eof" is delivered.
func (k *Keyboard) Listen(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if !k.poster.Post(func() { k.handle(line) }) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		k.log.Error("Failed to read terminal input", zap.Error(err))
		return err
	}
	k.poster.Post(func() { k.command("eof") })
	return nil
}

func (k *Keyboard) handle(line string) {
	if line == "" && k.enabled {
		k.react()
		return
	}
	k.command(line)
}
