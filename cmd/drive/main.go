package main

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kedfre/portfolio-sub000/internal/physics"
	"github.com/kedfre/portfolio-sub000/internal/shared/logger"
	"github.com/kedfre/portfolio-sub000/internal/vehicle"
)

// keyHold works around terminals reporting key presses but not releases:
// an action stays held for a short window after its last press.
const keyHold = 150 * time.Millisecond

const (
	tickRate     = 60
	metersPerCol = 0.5
	metersPerRow = 1.0
)

type heldKeys struct {
	up, down, left, right, brake, boost time.Time
}

func (h *heldKeys) actions(now time.Time) vehicle.Actions {
	held := func(t time.Time) bool { return now.Sub(t) < keyHold }
	return vehicle.Actions{
		Up: held(h.up), Down: held(h.down),
		Left: held(h.left), Right: held(h.right),
		Brake: held(h.brake), Boost: held(h.boost),
	}
}

func main() {
	log := logger.New("drive")
	variant := "coupe"
	if len(os.Args) > 1 {
		variant = os.Args[1]
	}
	opts, err := vehicle.ProfileFor(variant)
	if err != nil {
		log.Fatalf("%v", err)
	}

	world := physics.NewWorld(physics.DefaultOptions())
	controller, err := vehicle.NewController(world, opts, log)
	if err != nil {
		log.Fatalf("vehicle construction failed: %v", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("screen init: %v", err)
	}
	defer screen.Fini()
	screen.HideCursor()

	events := make(chan tcell.Event, 32)
	go func() {
		for {
			events <- screen.PollEvent()
		}
	}()

	keys := &heldKeys{}
	ticker := time.NewTicker(time.Second / tickRate)
	defer ticker.Stop()
	dt := 1.0 / float64(tickRate)

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventKey:
				now := time.Now()
				switch ev.Key() {
				case tcell.KeyEscape, tcell.KeyCtrlC:
					return
				case tcell.KeyUp:
					keys.up = now
				case tcell.KeyDown:
					keys.down = now
				case tcell.KeyLeft:
					keys.left = now
				case tcell.KeyRight:
					keys.right = now
				default:
					switch ev.Rune() {
					case 'q':
						return
					case ' ':
						keys.brake = now
					case 'b':
						keys.boost = now
					case 'r':
						controller.Reset()
					}
				}
			}

		case <-ticker.C:
			controller.Tick(keys.actions(time.Now()), vehicle.Joystick{}, dt)
			world.Step(dt)
			draw(screen, controller)
		}
	}
}

func draw(screen tcell.Screen, c *vehicle.Controller) {
	screen.Clear()
	width, height := screen.Size()
	plain := tcell.StyleDefault
	carStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	wheelStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)

	// World origin at screen center; camera fixed.
	pos := c.Chassis().Position
	cx := width/2 + int(pos[0]/metersPerCol)
	cy := height/2 - int(pos[1]/metersPerRow)

	for _, w := range c.Vehicle().Wheels {
		wx := width/2 + int(w.WorldPosition[0]/metersPerCol)
		wy := height/2 - int(w.WorldPosition[1]/metersPerRow)
		glyph := 'o'
		if !w.InContact {
			glyph = '.'
		}
		setCell(screen, wx, wy, glyph, wheelStyle)
	}
	setCell(screen, cx, cy, headingGlyph(c.Angle()), carStyle)

	hud := fmt.Sprintf(" speed %5.2f m/s  steering %+5.2f rad  heading %+5.2f  %s ",
		c.Speed(), c.Steering(), c.Angle(), c.UprightState())
	for i, r := range hud {
		setCell(screen, i, 0, r, plain.Reverse(true))
	}
	help := " arrows drive | space brake | b boost | r reset | q quit "
	for i, r := range help {
		setCell(screen, i, height-1, r, plain)
	}
	screen.Show()
}

// headingGlyph picks an arrow for the nearest heading octant.
func headingGlyph(angle float64) rune {
	glyphs := []rune{'→', '↗', '↑', '↖', '←', '↙', '↓', '↘'}
	octant := int(math.Round(angle/(math.Pi/4))) % 8
	if octant < 0 {
		octant += 8
	}
	return glyphs[octant]
}

func setCell(screen tcell.Screen, x, y int, r rune, style tcell.Style) {
	width, height := screen.Size()
	if x < 0 || y < 0 || x >= width || y >= height {
		return
	}
	screen.SetContent(x, y, r, nil, style)
}
