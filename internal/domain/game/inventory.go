package game

// Inventory is the item store the simulation reads and writes through. The core never touches
// raw storage.
type Inventory interface {
	HasItem(item Item, qty int) bool
	AddItem(item Item, qty int)
	RemoveItem(item Item, qty int) bool
	HasIngredients(cost Cost) bool
	RemoveIngredients(cost Cost) bool
}

// Cost maps an item to the quantity a recipe consumes.
type Cost map[Item]int

// Bag is the fixed-size counts implementation of Inventory.
type Bag struct {
	counts [itemCount]int
}

func NewBag() *Bag { return &Bag{} }

func (b *Bag) Quantity(item Item) int {
	if !item.Valid() {
		return 0
	}
	return b.counts[item]
}

func (b *Bag) HasItem(item Item, qty int) bool {
	return item.Valid() && b.counts[item] >= qty
}

func (b *Bag) AddItem(item Item, qty int) {
	if !item.Valid() || qty <= 0 {
		return
	}
	b.counts[item] += qty
}

func (b *Bag) RemoveItem(item Item, qty int) bool {
	if qty <= 0 || !b.HasItem(item, qty) {
		return false
	}
	b.counts[item] -= qty
	return true
}

func (b *Bag) HasIngredients(cost Cost) bool {
	for item, qty := range cost {
		if !b.HasItem(item, qty) {
			return false
		}
	}
	return true
}

// RemoveIngredients is all-or-nothing: nothing is removed unless every entry is covered.
func (b *Bag) RemoveIngredients(cost Cost) bool {
	if !b.HasIngredients(cost) {
		return false
	}
	for item, qty := range cost {
		b.counts[item] -= qty
	}
	return true
}

// Counts returns a name-keyed copy for views and snapshots.
func (b *Bag) Counts() map[string]int {
	out := make(map[string]int, itemCount)
	for i := Item(0); i < itemCount; i++ {
		out[i.String()] = b.counts[i]
	}
	return out
}

// Load replaces the contents from a name-keyed map. Unknown names are ignored.
func (b *Bag) Load(counts map[string]int) {
	b.counts = [itemCount]int{}
	for name, qty := range counts {
		if item, ok := ParseItem(name); ok && qty > 0 {
			b.counts[item] = qty
		}
	}
}
