package led

// Group is a row of LEDs where at most one is lit, used to show which
// printed band of a multi-scale dial is active.
type Group struct {
	leds     []*LED
	selected int
}

func NewGroup(leds ...*LED) *Group {
	return &Group{leds: leds, selected: -1}
}

// Select lights LED i and turns the others off. An index outside the group
// turns them all off.
func (g *Group) Select(i int) {
	if i == g.selected {
		return
	}
	for n, l := range g.leds {
		if n == i {
			l.On()
		} else {
			l.Off()
		}
	}
	if i < 0 || i >= len(g.leds) {
		i = -1
	}
	g.selected = i
}

// Selected returns the lit LED index or -1.
func (g *Group) Selected() int {
	return g.selected
}

func (g *Group) Len() int {
	return len(g.leds)
}
