package game

// Recipe turns a set of ingredients into one unit of Result.
type Recipe struct {
	Name   string
	Result Item
	Cost   Cost
}

var recipes = []Recipe{
	{Name: "axe", Result: ItemAxe, Cost: Cost{ItemStone: 2, ItemWood: 3}},
	{Name: "pickaxe", Result: ItemPickaxe, Cost: Cost{ItemStone: 3, ItemWood: 2}},
	{Name: "sword", Result: ItemSword, Cost: Cost{ItemStone: 2, ItemWood: 2, ItemGold: 1}},
	{Name: "bow", Result: ItemBow, Cost: Cost{ItemWood: 5, ItemGrass: 3}},
	{Name: "shield", Result: ItemShield, Cost: Cost{ItemWood: 3, ItemStone: 2}},
	{Name: "health_potion", Result: ItemHealthPotion, Cost: Cost{ItemApple: 5, ItemGrass: 3}},
}

func Recipes() []Recipe {
	out := make([]Recipe, len(recipes))
	copy(out, recipes)
	return out
}

func RecipeAt(index int) (Recipe, bool) {
	if index < 0 || index >= len(recipes) {
		return Recipe{}, false
	}
	return recipes[index], true
}

func CanCraft(inv Inventory, index int) bool {
	r, ok := RecipeAt(index)
	return ok && inv.HasIngredients(r.Cost)
}

// Craft consumes the ingredients of recipe index and adds its result. Invalid indexes and short
// inventories leave everything untouched.
func Craft(inv Inventory, index int) (Item, bool) {
	r, ok := RecipeAt(index)
	if !ok || !inv.HasIngredients(r.Cost) {
		return 0, false
	}
	if !inv.RemoveIngredients(r.Cost) {
		return 0, false
	}
	inv.AddItem(r.Result, 1)
	return r.Result, true
}
