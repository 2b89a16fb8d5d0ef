package ui

// Glyphs are the runes the chart draws entities with. Any zero field
// falls back to the built-in Unicode set.
type Glyphs struct {
	Star       rune
	StarBright rune
	Orbit      rune
	Connector  rune
	DomainFill rune
	DomainRim  rune
	Tiers      []rune // by tier index, last entry repeats
	TierRim    rune
	Node       rune
	NodeDone   rune
	NodeLocked rune
	Hologram   []rune // faint to strong
	Junction   rune
	Card       rune
}

// UnicodeGlyphs is the default glyph set.
func UnicodeGlyphs() Glyphs {
	return Glyphs{
		Star:       '·',
		StarBright: '✦',
		Orbit:      '·',
		Connector:  '•',
		DomainFill: '░',
		DomainRim:  '▒',
		Tiers:      []rune{'◉', '◎', '◍', '◌', '○'},
		TierRim:    '∘',
		Node:       '◇',
		NodeDone:   '◆',
		NodeLocked: '⊘',
		Hologram:   []rune{'░', '▒', '▓'},
		Junction:   '⊕',
		Card:       '★',
	}
}

// ASCIIGlyphs is a fallback for terminals without Unicode fonts.
func ASCIIGlyphs() Glyphs {
	return Glyphs{
		Star:       '.',
		StarBright: '*',
		Orbit:      '.',
		Connector:  '-',
		DomainFill: ':',
		DomainRim:  '#',
		Tiers:      []rune{'@', 'O', 'o'},
		TierRim:    '.',
		Node:       'o',
		NodeDone:   '*',
		NodeLocked: 'x',
		Hologram:   []rune{'.', ':', '%'},
		Junction:   '+',
		Card:       '*',
	}
}

// withFallback fills unset glyphs from the Unicode set.
func (g Glyphs) withFallback() Glyphs {
	def := UnicodeGlyphs()
	fill := func(r *rune, d rune) {
		if *r == 0 {
			*r = d
		}
	}
	fill(&g.Star, def.Star)
	fill(&g.StarBright, def.StarBright)
	fill(&g.Orbit, def.Orbit)
	fill(&g.Connector, def.Connector)
	fill(&g.DomainFill, def.DomainFill)
	fill(&g.DomainRim, def.DomainRim)
	fill(&g.TierRim, def.TierRim)
	fill(&g.Node, def.Node)
	fill(&g.NodeDone, def.NodeDone)
	fill(&g.NodeLocked, def.NodeLocked)
	fill(&g.Junction, def.Junction)
	fill(&g.Card, def.Card)
	if len(g.Tiers) == 0 {
		g.Tiers = def.Tiers
	}
	if len(g.Hologram) == 0 {
		g.Hologram = def.Hologram
	}
	return g
}

// tier returns the glyph for tier index t.
func (g Glyphs) tier(t int) rune {
	if t < 0 {
		t = 0
	}
	if t >= len(g.Tiers) {
		t = len(g.Tiers) - 1
	}
	return g.Tiers[t]
}

// hologram returns the shade for alpha in (0, 1].
func (g Glyphs) hologram(alpha float64) rune {
	i := int(alpha * float64(len(g.Hologram)))
	return g.Hologram[clampInt(i, 0, len(g.Hologram)-1)]
}
