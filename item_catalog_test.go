package server

import "testing"

func TestItemDefinitionsAreWellFormed(t *testing.T) {
	defs := ItemDefinitions()
	if len(defs) == 0 {
		t.Fatalf("expected a non-empty catalog")
	}
	for i, def := range defs {
		if def.ID == "" || def.Name == "" {
			t.Fatalf("definition %d missing identity: %+v", i, def)
		}
		if def.MaxStack <= 0 {
			t.Fatalf("%s has non-positive max stack %d", def.ID, def.MaxStack)
		}
		if def.BasePrice < 0 {
			t.Fatalf("%s has negative base price %d", def.ID, def.BasePrice)
		}
		if i > 0 && defs[i-1].ID >= def.ID {
			t.Fatalf("definitions not sorted: %s before %s", defs[i-1].ID, def.ID)
		}
	}
}

func TestItemDefinitionFor(t *testing.T) {
	def, ok := ItemDefinitionFor(ItemTypeHealthPotion)
	if !ok {
		t.Fatalf("expected health potion definition")
	}
	if def.MaxStack != 10 {
		t.Fatalf("expected health potion max stack 10, got %d", def.MaxStack)
	}
	if _, ok := ItemDefinitionFor("moon_cheese"); ok {
		t.Fatalf("expected unknown item to report ok=false")
	}
}

func TestCatalogFailsClosedForUnknownItems(t *testing.T) {
	catalog := Catalog()
	if max, ok := catalog.TryGetMaxStack(ItemTypeWood); !ok || max != 99 {
		t.Fatalf("expected wood max stack 99, got %d ok=%v", max, ok)
	}
	if _, ok := catalog.TryGetMaxStack("moon_cheese"); ok {
		t.Fatalf("expected unknown item to fail closed")
	}
}
