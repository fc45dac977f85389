package server

import (
	"sort"

	"ashvale/server/internal/grid"
)

// ItemType aliases the grid's item identifier.
type ItemType = grid.ItemType

const (
	ItemTypeWood         ItemType = "wood"
	ItemTypeStone        ItemType = "stone"
	ItemTypePlank        ItemType = "plank"
	ItemTypeIronOre      ItemType = "iron_ore"
	ItemTypeIronIngot    ItemType = "iron_ingot"
	ItemTypeRope         ItemType = "rope"
	ItemTypeHealthPotion ItemType = "health_potion"
	ItemTypeCampfireKit  ItemType = "campfire_kit"
)

// ItemDefinition is the static metadata for one item kind.
type ItemDefinition struct {
	ID          ItemType
	Name        string
	Description string
	MaxStack    int
	BasePrice   int64
}

var itemCatalog = buildItemCatalog()

func buildItemCatalog() map[ItemType]ItemDefinition {
	defs := []ItemDefinition{
		{
			ID:          ItemTypeWood,
			Name:        "Wood",
			Description: "Rough-cut logs gathered from the valley forests.",
			MaxStack:    99,
			BasePrice:   2,
		},
		{
			ID:          ItemTypeStone,
			Name:        "Stone",
			Description: "Quarried stone suited for walls and foundations.",
			MaxStack:    99,
			BasePrice:   5,
		},
		{
			ID:          ItemTypePlank,
			Name:        "Plank",
			Description: "Milled lumber ready for construction.",
			MaxStack:    50,
			BasePrice:   6,
		},
		{
			ID:          ItemTypeIronOre,
			Name:        "Iron Ore",
			Description: "Unrefined ore streaked with iron.",
			MaxStack:    50,
			BasePrice:   8,
		},
		{
			ID:          ItemTypeIronIngot,
			Name:        "Iron Ingot",
			Description: "Smelted iron ready for the forge.",
			MaxStack:    20,
			BasePrice:   25,
		},
		{
			ID:          ItemTypeRope,
			Name:        "Rope",
			Description: "Braided fiber rope, essential for scaffolding.",
			MaxStack:    30,
			BasePrice:   4,
		},
		{
			ID:          ItemTypeHealthPotion,
			Name:        "Lesser Healing Potion",
			Description: "Restores a small amount of health when consumed.",
			MaxStack:    10,
			BasePrice:   40,
		},
		{
			ID:          ItemTypeCampfireKit,
			Name:        "Campfire Kit",
			Description: "Everything needed to raise a camp in the wilds.",
			MaxStack:    5,
			BasePrice:   60,
		},
	}

	catalog := make(map[ItemType]ItemDefinition, len(defs))
	for _, def := range defs {
		catalog[def.ID] = def
	}
	return catalog
}

// ItemDefinitionFor fetches the definition for a given item type.
func ItemDefinitionFor(itemType ItemType) (ItemDefinition, bool) {
	def, ok := itemCatalog[itemType]
	return def, ok
}

// ItemDefinitions returns the list of definitions sorted by identifier.
func ItemDefinitions() []ItemDefinition {
	defs := make([]ItemDefinition, 0, len(itemCatalog))
	for _, def := range itemCatalog {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool {
		return defs[i].ID < defs[j].ID
	})
	return defs
}

type staticCatalog struct{}

// TryGetMaxStack satisfies grid.Catalog over the static item catalog.
// Unknown item types report ok=false so grids fail closed.
func (staticCatalog) TryGetMaxStack(itemType ItemType) (int, bool) {
	def, ok := itemCatalog[itemType]
	if !ok || def.MaxStack <= 0 {
		return 0, false
	}
	return def.MaxStack, true
}

// Catalog returns the item metadata lookup backing every grid.
func Catalog() grid.Catalog {
	return staticCatalog{}
}
