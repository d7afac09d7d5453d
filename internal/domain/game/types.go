package game

import "math"

// Item is every stackable thing an inventory can hold.
type Item int

const (
	ItemApple Item = iota
	ItemGrass
	ItemStone
	ItemWood
	ItemGold
	ItemAxe
	ItemPickaxe
	ItemSword
	ItemBow
	ItemShield
	ItemHealthPotion

	itemCount
)

var itemNames = [itemCount]string{
	ItemApple:        "apple",
	ItemGrass:        "grass",
	ItemStone:        "stone",
	ItemWood:         "wood",
	ItemGold:         "gold",
	ItemAxe:          "axe",
	ItemPickaxe:      "pickaxe",
	ItemSword:        "sword",
	ItemBow:          "bow",
	ItemShield:       "shield",
	ItemHealthPotion: "health_potion",
}

func (i Item) String() string {
	if i < 0 || i >= itemCount {
		return "unknown"
	}
	return itemNames[i]
}

func (i Item) Valid() bool { return i >= 0 && i < itemCount }

// AllItems lists items in declaration order.
func AllItems() []Item {
	out := make([]Item, 0, itemCount)
	for i := Item(0); i < itemCount; i++ {
		out = append(out, i)
	}
	return out
}

func ParseItem(s string) (Item, bool) {
	for i, name := range itemNames {
		if name == s {
			return Item(i), true
		}
	}
	return 0, false
}

// Tool occupies a loadout slot. ToolNone marks an empty slot.
type Tool int

const (
	ToolNone Tool = iota
	ToolHand
	ToolAxe
	ToolPickaxe
	ToolSword
	ToolBow
	ToolShield
)

var toolNames = map[Tool]string{
	ToolNone:    "",
	ToolHand:    "hand",
	ToolAxe:     "axe",
	ToolPickaxe: "pickaxe",
	ToolSword:   "sword",
	ToolBow:     "bow",
	ToolShield:  "shield",
}

func (t Tool) String() string { return toolNames[t] }

func ParseTool(s string) (Tool, bool) {
	for t, name := range toolNames {
		if name == s && t != ToolNone {
			return t, true
		}
	}
	return ToolNone, false
}

// ToolForItem reports the loadout tool a crafted item turns into.
func ToolForItem(i Item) (Tool, bool) {
	switch i {
	case ItemAxe:
		return ToolAxe, true
	case ItemPickaxe:
		return ToolPickaxe, true
	case ItemSword:
		return ToolSword, true
	case ItemBow:
		return ToolBow, true
	case ItemShield:
		return ToolShield, true
	default:
		return ToolNone, false
	}
}

type ResourceType int

const (
	ResourceApple ResourceType = iota
	ResourceGrass
	ResourceStone
	ResourceWood
	ResourceGold
)

func (r ResourceType) Item() Item {
	switch r {
	case ResourceApple:
		return ItemApple
	case ResourceGrass:
		return ItemGrass
	case ResourceStone:
		return ItemStone
	case ResourceWood:
		return ItemWood
	default:
		return ItemGold
	}
}

func (r ResourceType) String() string { return r.Item().String() }

// MaxHealth is the number of harvest points a fresh resource of this type has.
func (r ResourceType) MaxHealth() float64 {
	switch r {
	case ResourceStone:
		return 3
	case ResourceWood:
		return 2
	case ResourceGold:
		return 5
	default:
		return 1
	}
}

// WalkOver reports whether contact alone collects the resource.
func (r ResourceType) WalkOver() bool { return r.MaxHealth() == 1 }

type EnemyType int

const (
	EnemySlime EnemyType = iota
	EnemyBat
	EnemySkeleton
	EnemyGoblin
)

var enemyNames = map[EnemyType]string{
	EnemySlime:    "slime",
	EnemyBat:      "bat",
	EnemySkeleton: "skeleton",
	EnemyGoblin:   "goblin",
}

func (e EnemyType) String() string { return enemyNames[e] }

type StructureType int

const (
	StructureCampfire StructureType = iota
	StructureFence
	StructureTower
	StructureTrap
)

var structureNames = map[StructureType]string{
	StructureCampfire: "campfire",
	StructureFence:    "fence",
	StructureTower:    "tower",
	StructureTrap:     "trap",
}

func (s StructureType) String() string { return structureNames[s] }

func ParseStructureType(s string) (StructureType, bool) {
	for t, name := range structureNames {
		if name == s {
			return t, true
		}
	}
	return 0, false
}

type Direction int

const (
	DirDown Direction = iota
	DirUp
	DirLeft
	DirRight
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "down"
	}
}

// Bounds is the play area. Entities are clamped inside it.
type Bounds struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Box is an axis-aligned bounding box with its origin at the top-left corner.
type Box struct {
	X, Y, W, H float64
}

func (b Box) CenterX() float64 { return b.X + b.W/2 }
func (b Box) CenterY() float64 { return b.Y + b.H/2 }

func (b Box) Overlaps(o Box) bool {
	return o.X < b.X+b.W && o.X+o.W > b.X && o.Y < b.Y+b.H && o.Y+o.H > b.Y
}

func centerDistance(a, b Box) float64 {
	return math.Hypot(a.CenterX()-b.CenterX(), a.CenterY()-b.CenterY())
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Rand is the randomness the simulation draws from. *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}
