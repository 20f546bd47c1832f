package study

// Deck is the flashcard viewer state: the current card and which face is shown.
// Navigation is clamped to the deck bounds and always returns to the front face.
type Deck struct {
	cards   []Flashcard
	index   int
	flipped bool
}

// NewDeck creates a viewer positioned on the front of the first card.
func NewDeck(cards []Flashcard) *Deck {
	return &Deck{cards: cards}
}

// Len returns the number of cards.
func (d *Deck) Len() int { return len(d.cards) }

// Index returns the zero-based position of the current card.
func (d *Deck) Index() int { return d.index }

// Flipped reports whether the answer side is shown.
func (d *Deck) Flipped() bool { return d.flipped }

// Current returns the current card, or false for an empty deck.
func (d *Deck) Current() (Flashcard, bool) {
	if len(d.cards) == 0 {
		return Flashcard{}, false
	}
	return d.cards[d.index], true
}

// Flip toggles between question and answer.
func (d *Deck) Flip() {
	if len(d.cards) == 0 {
		return
	}
	d.flipped = !d.flipped
}

// Next advances one card. It is a no-op on the last card.
func (d *Deck) Next() bool {
	if d.index >= len(d.cards)-1 {
		return false
	}
	d.index++
	d.flipped = false
	return true
}

// Previous goes back one card. It is a no-op on the first card.
func (d *Deck) Previous() bool {
	if d.index == 0 {
		return false
	}
	d.index--
	d.flipped = false
	return true
}

// Progress returns the fraction of the deck reached, in (0, 1].
func (d *Deck) Progress() float64 {
	if len(d.cards) == 0 {
		return 0
	}
	return float64(d.index+1) / float64(len(d.cards))
}
