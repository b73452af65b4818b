package demo

import (
	"context"
	"fmt"
	"sync"

	"github.com/msto63/gecli/foundation/cli/argument"
	"github.com/msto63/gecli/foundation/cli/session"
	gclog "github.com/msto63/gecli/foundation/core/log"
)

// Color is an 8 bit per channel RGB value
type Color struct {
	R, G, B uint8
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// LED is a simulated RGB LED shared by every session
type LED struct {
	mu    sync.RWMutex
	color Color
}

// Set changes the colour
func (l *LED) Set(c Color) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.color = c
}

// Color returns the current colour
func (l *LED) Color() Color {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.color
}

// Wheel maps an angle on the colour wheel to a fully saturated colour.
// 0 is red, 120 green and 240 blue; angles wrap at 360.
func Wheel(angle uint16) Color {
	h := int(angle % 360)
	sector := h / 60
	// rising and falling edges within the sector, 0..255
	rise := uint8((h % 60) * 255 / 60)
	fall := 255 - rise

	switch sector {
	case 0:
		return Color{255, rise, 0}
	case 1:
		return Color{fall, 255, 0}
	case 2:
		return Color{0, 255, rise}
	case 3:
		return Color{0, fall, 255}
	case 4:
		return Color{rise, 0, 255}
	default:
		return Color{255, 0, fall}
	}
}

func (a *App) rgbSet(ctx context.Context, args *argument.Arguments) {
	c := Color{args.Uint8(0), args.Uint8(1), args.Uint8(2)}
	a.led.Set(c)
	a.logger.Debug("LED colour set", gclog.Fields{"color": c.String()})
	fmt.Fprintf(session.Output(ctx), "rgb %s\r\n", c)
}

func (a *App) rgbGet(ctx context.Context, _ *argument.Arguments) {
	c := a.led.Color()
	fmt.Fprintf(session.Output(ctx), "r=%d g=%d b=%d (%s)\r\n", c.R, c.G, c.B, c)
}

func (a *App) rgbWheel(ctx context.Context, args *argument.Arguments) {
	c := Wheel(args.Uint16(0))
	a.led.Set(c)
	fmt.Fprintf(session.Output(ctx), "rgb %s\r\n", c)
}
