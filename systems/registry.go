package systems

// Stage IDs, in tick order. The perf collector keys its timings by these.
const (
	StageInput     = "input"
	StagePlayer    = "player"
	StagePickup    = "pickup"
	StageAttack    = "attack"
	StageSpawn     = "spawn"
	StageAdvance   = "advance"
	StageCollision = "collision"
	StageRecruit   = "recruit"
	StageCompact   = "compact"
	StagePhase     = "phase"
	StageSnapshot  = "snapshot"
	StageTelemetry = "telemetry"
)

// SystemInfo describes a tick stage for UI display.
type SystemInfo struct {
	ID          string // Internal identifier (used for perf tracking)
	Name        string // Display name
	Description string // What this stage does
	Category    string // Grouping (e.g., "core", "combat", "internal")
}

// SystemRegistry holds metadata about all tick stages.
// This centralizes stage naming so the HUD and perf tracker stay in sync.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with all known stages.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds the stages of one tick in execution order.
// Update this when adding new stages.
func (r *SystemRegistry) registerDefaults() {
	r.Register(SystemInfo{ID: StageInput, Name: "Input", Description: "Polls the key snapshot", Category: "host"})

	r.Register(SystemInfo{ID: StagePlayer, Name: "Player", Description: "Moves the player, applies trap slow", Category: "core"})
	r.Register(SystemInfo{ID: StagePickup, Name: "Pickup", Description: "Weapon pickup and beatdown start", Category: "core"})
	r.Register(SystemInfo{ID: StageAttack, Name: "Attack", Description: "Player hits on the boss", Category: "combat"})
	r.Register(SystemInfo{ID: StageSpawn, Name: "Spawn", Description: "Rolls the phase spawn table", Category: "core"})
	r.Register(SystemInfo{ID: StageAdvance, Name: "Advance", Description: "Moves hazards, projectiles and allies", Category: "core"})
	r.Register(SystemInfo{ID: StageCollision, Name: "Collision", Description: "Lethal contact, projectile and drone fights", Category: "combat"})
	r.Register(SystemInfo{ID: StageRecruit, Name: "Recruit", Description: "Spends score on allies", Category: "economy"})
	r.Register(SystemInfo{ID: StageCompact, Name: "Compact", Description: "Removes dead entities", Category: "core"})
	r.Register(SystemInfo{ID: StagePhase, Name: "Phase", Description: "Evaluates phase transitions", Category: "core"})

	r.Register(SystemInfo{ID: StageSnapshot, Name: "Snapshot", Description: "Copies state for the host", Category: "internal"})
	r.Register(SystemInfo{ID: StageTelemetry, Name: "Telemetry", Description: "Records window stats", Category: "internal"})
}

// Register adds a stage to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
	r.byID[info.ID] = info
}

// GetName returns the display name for a stage ID.
// Falls back to the ID itself if not found.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns all registered stages.
func (r *SystemRegistry) All() []SystemInfo {
	return r.systems
}

// ByCategory returns stages filtered by category.
func (r *SystemRegistry) ByCategory(category string) []SystemInfo {
	var result []SystemInfo
	for _, info := range r.systems {
		if info.Category == category {
			result = append(result, info)
		}
	}
	return result
}

// Categories returns all unique categories.
func (r *SystemRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, info := range r.systems {
		if !seen[info.Category] {
			seen[info.Category] = true
			cats = append(cats, info.Category)
		}
	}
	return cats
}

// IDs returns all stage IDs in registration order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}
