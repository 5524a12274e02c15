package playback

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
)

// Command is a player control
type Command int

const (
	CmdNone Command = iota
	CmdPause
	CmdNext
	CmdPrev
	CmdRestart
	CmdEnd
	CmdQuit
)

var (
	styleWall   = tcell.StyleDefault.Foreground(tcell.ColorGray).Background(tcell.ColorBlack)
	styleFloor  = tcell.StyleDefault.Foreground(tcell.ColorDarkCyan).Background(tcell.ColorBlack)
	styleStairs = tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorBlack).Bold(true)
	styleStatus = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
)

// Player steps through frames on a tcell screen
type Player struct {
	screen tcell.Screen
	frames []Frame
	delay  time.Duration
	title  string

	pos    int
	paused bool
}

// NewPlayer creates a player. The caller owns the screen and finalizes it.
func NewPlayer(screen tcell.Screen, frames []Frame, delay time.Duration, title string) *Player {
	if delay <= 0 {
		delay = 40 * time.Millisecond
	}
	return &Player{screen: screen, frames: frames, delay: delay, title: title}
}

// Position returns the index of the frame on screen
func (p *Player) Position() int {
	return p.pos
}

// Paused reports whether automatic advance is stopped
func (p *Player) Paused() bool {
	return p.paused
}

// Run plays until the user quits or ctx is cancelled. Playback holds on the
// last frame until then.
func (p *Player) Run(ctx context.Context) error {
	if len(p.frames) == 0 {
		return nil
	}

	done := make(chan struct{})
	defer close(done)
	events := make(chan tcell.Event)
	go func() {
		for {
			ev := p.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(p.delay)
	defer ticker.Stop()

	p.Draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if p.Apply(commandForKey(ev.Key(), ev.Rune())) {
					return nil
				}
			case *tcell.EventResize:
				p.screen.Sync()
			}
		case <-ticker.C:
			if p.paused || p.pos >= len(p.frames)-1 {
				continue
			}
			p.pos++
		}
		p.Draw()
	}
}

// Apply changes the player state. It returns true on quit.
func (p *Player) Apply(cmd Command) bool {
	last := len(p.frames) - 1
	switch cmd {
	case CmdQuit:
		return true
	case CmdPause:
		p.paused = !p.paused
	case CmdNext:
		p.paused = true
		p.pos = min(p.pos+1, last)
	case CmdPrev:
		p.paused = true
		p.pos = max(p.pos-1, 0)
	case CmdRestart:
		p.pos = 0
		p.paused = false
	case CmdEnd:
		p.pos = last
	}
	return false
}

func commandForKey(key tcell.Key, r rune) Command {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return CmdQuit
	case tcell.KeyLeft:
		return CmdPrev
	case tcell.KeyRight:
		return CmdNext
	case tcell.KeyHome:
		return CmdRestart
	case tcell.KeyEnd:
		return CmdEnd
	case tcell.KeyRune:
		switch r {
		case 'q', 'Q':
			return CmdQuit
		case ' ':
			return CmdPause
		case 'r', 'R':
			return CmdRestart
		case 'h':
			return CmdPrev
		case 'l':
			return CmdNext
		case 'e':
			return CmdEnd
		}
	}
	return CmdNone
}

// Draw renders the current frame and the status line
func (p *Player) Draw() {
	p.screen.Clear()
	f := p.frames[p.pos]
	for y, row := range f.Rows {
		x := 0
		for _, r := range row {
			p.screen.SetContent(x, y, r, nil, glyphStyle(r))
			x++
		}
	}

	state := "playing"
	if p.paused {
		state = "paused"
	}
	status := fmt.Sprintf(" %s  %d/%d %-10s %-7s  space pause  ←→ step  r restart  q quit ",
		p.title, f.Index+1, len(p.frames), f.Label, state)
	for x, r := range []rune(status) {
		p.screen.SetContent(x, f.Height, r, nil, styleStatus)
	}
	p.screen.Show()
}

func glyphStyle(r rune) tcell.Style {
	switch r {
	case '.':
		return styleFloor
	case '<', '>':
		return styleStairs
	default:
		return styleWall
	}
}
