package systems

import "testing"

func TestSystemRegistry_IDsInTickOrder(t *testing.T) {
	reg := NewSystemRegistry()
	ids := reg.IDs()

	want := []string{
		StageInput, StagePlayer, StagePickup, StageAttack, StageSpawn, StageAdvance,
		StageCollision, StageRecruit, StageCompact, StagePhase, StageSnapshot, StageTelemetry,
	}
	if len(ids) != len(want) {
		t.Fatalf("IDs = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("IDs[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestSystemRegistry_Categories(t *testing.T) {
	reg := NewSystemRegistry()

	cats := reg.Categories()
	want := []string{"host", "core", "combat", "economy", "internal"}
	if len(cats) != len(want) {
		t.Fatalf("Categories = %v, want %v", cats, want)
	}
	for i := range want {
		if cats[i] != want[i] {
			t.Errorf("Categories[%d] = %q, want %q", i, cats[i], want[i])
		}
	}

	total := 0
	for _, cat := range cats {
		stages := reg.ByCategory(cat)
		if len(stages) == 0 {
			t.Errorf("category %q has no stages", cat)
		}
		for _, info := range stages {
			if info.Category != cat {
				t.Errorf("stage %q listed under %q", info.ID, cat)
			}
		}
		total += len(stages)
	}
	if total != len(reg.All()) {
		t.Errorf("categories cover %d stages, want %d", total, len(reg.All()))
	}

	combat := reg.ByCategory("combat")
	if len(combat) != 2 || combat[0].ID != StageAttack || combat[1].ID != StageCollision {
		t.Errorf("combat stages = %+v", combat)
	}
}

func TestSystemRegistry_GetName(t *testing.T) {
	reg := NewSystemRegistry()
	if got := reg.GetName(StageRecruit); got != "Recruit" {
		t.Errorf("GetName(recruit) = %q, want Recruit", got)
	}
	if got := reg.GetName("unknown"); got != "unknown" {
		t.Errorf("GetName(unknown) = %q, want the id back", got)
	}
}
