// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Spawn edges for hazard generators.
const (
	EdgeTop    = "top"
	EdgeLeft   = "left"
	EdgeRandom = "random"
)

// Recruit key selection modes.
const (
	RecruitChain    = "chain"
	RecruitRotation = "rotation"
)

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Arena     ArenaConfig     `yaml:"arena"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Player    PlayerConfig    `yaml:"player"`
	Boss      BossConfig      `yaml:"boss"`
	Weapon    WeaponConfig    `yaml:"weapon"`
	Economy   EconomyConfig   `yaml:"economy"`
	Phases    PhasesConfig    `yaml:"phases"`
	Spawn     SpawnConfig     `yaml:"spawn"`
	Hazards   HazardsConfig   `yaml:"hazards"`
	Allies    AlliesConfig    `yaml:"allies"`
	Recruit   RecruitConfig   `yaml:"recruit"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Audio     AudioConfig     `yaml:"audio"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// ArenaConfig holds the play area dimensions. Entities that leave it are removed.
type ArenaConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PhysicsConfig holds tick timing.
type PhysicsConfig struct {
	TicksPerSecond int `yaml:"ticks_per_second"`
}

// PlayerConfig holds the player's starting box and movement.
type PlayerConfig struct {
	StartX   float64 `yaml:"start_x"`
	StartY   float64 `yaml:"start_y"`
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Speed    float64 `yaml:"speed"`     // pixels per tick
	TrapSlow float64 `yaml:"trap_slow"` // speed multiplier while standing on a trap
}

// BossConfig holds the boss box and durability.
type BossConfig struct {
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	Health    float64 `yaml:"health"`
	HitDamage float64 `yaml:"hit_damage"` // damage per attacking tick
}

// WeaponConfig places the weapon pickup that ends the stealth phase.
type WeaponConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// EconomyConfig holds score and rage tuning.
type EconomyConfig struct {
	ScorePerHit     int     `yaml:"score_per_hit"`
	RagePerHit      int     `yaml:"rage_per_hit"`
	RageThreshold   int     `yaml:"rage_threshold"`
	RageBonusDamage float64 `yaml:"rage_bonus_damage"`
	ProjectileScore int     `yaml:"projectile_score"` // score per friendly projectile hit
	ProjectileRage  int     `yaml:"projectile_rage"`  // rage per friendly projectile hit
}

// PhasesConfig holds the terminal thresholds of the allies phase.
type PhasesConfig struct {
	UnionizeAllies   int     `yaml:"unionize_allies"`
	BecameBossHealth float64 `yaml:"became_boss_health"`
}

// SpawnRule is one row of a phase spawn table.
type SpawnRule struct {
	Kind   string  `yaml:"kind"`
	Chance float64 `yaml:"chance"` // per-tick Bernoulli probability
}

// SpawnConfig holds the per-phase spawn tables. Rows are evaluated in order.
type SpawnConfig struct {
	Stealth  []SpawnRule `yaml:"stealth"`
	Beatdown []SpawnRule `yaml:"beatdown"`
	Allies   []SpawnRule `yaml:"allies"`
}

// HazardConfig describes how one hostile kind is generated.
type HazardConfig struct {
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Edge     string  `yaml:"edge"`      // top, left or random
	SpeedMin float64 `yaml:"speed_min"` // equal min/max means a fixed speed
	SpeedMax float64 `yaml:"speed_max"`
	Lethal   bool    `yaml:"lethal"`
	Health   float64 `yaml:"health"` // 0 = not damageable
	TTL      int     `yaml:"ttl"`    // ticks before expiry, 0 = until it leaves the arena

	Penalty     int  `yaml:"penalty"`      // score lost on player contact when not lethal
	KillsAllies bool `yaml:"kills_allies"` // takes out one ally on contact
}

// HazardsConfig holds one generator per hostile kind.
type HazardsConfig struct {
	Mail      HazardConfig `yaml:"mail"`
	Paperwork HazardConfig `yaml:"paperwork"`
	Patrol    HazardConfig `yaml:"patrol"`
	Trap      HazardConfig `yaml:"trap"`
	Drone     HazardConfig `yaml:"drone"`
	Thrown    HazardConfig `yaml:"thrown"`
	Beam      HazardConfig `yaml:"beam"`
}

// AllyConfig describes one recruitable ally kind.
type AllyConfig struct {
	Cost         int     `yaml:"cost"`
	CostStep     int     `yaml:"cost_step"` // added to cost after each recruitment
	Health       float64 `yaml:"health"`
	Strength     float64 `yaml:"strength"` // damage dealt to drones per contact tick
	Speed        float64 `yaml:"speed"`
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	Ranged       bool    `yaml:"ranged"`
	Distracts    bool    `yaml:"distracts"`
	FireInterval int     `yaml:"fire_interval"` // ticks between shots for ranged allies
	BossDamage   float64 `yaml:"boss_damage"`   // boss health lost per contact tick
	BossScore    int     `yaml:"boss_score"`    // score per contact tick
}

// AlliesConfig holds the ally roster and shared combat values.
type AlliesConfig struct {
	Intern     AllyConfig `yaml:"intern"`
	Senior     AllyConfig `yaml:"senior"`
	Distractor AllyConfig `yaml:"distractor"`
	Rep        AllyConfig `yaml:"rep"`

	DroneDamage      float64 `yaml:"drone_damage"`    // ally health lost per drone contact tick
	DistractFactor   float64 `yaml:"distract_factor"` // drone speed multiplier while a distractor lives
	ProjectileSpeed  float64 `yaml:"projectile_speed"`
	ProjectileSize   float64 `yaml:"projectile_size"`
	ProjectileDamage float64 `yaml:"projectile_damage"`
}

// RecruitConfig decides which ally kind the recruit key hires.
//
// In chain mode every press walks Chain in order, drawing once per link and
// hiring the first kind whose draw falls below its chance; the last link is
// taken when no draw hits. In rotation mode presses cycle through Order.
type RecruitConfig struct {
	Mode  string        `yaml:"mode"`
	Chain []RecruitLink `yaml:"chain"`
	Order []string      `yaml:"order"`
}

// RecruitLink is one draw of the recruit chain.
type RecruitLink struct {
	Kind   string  `yaml:"kind"`
	Chance float64 `yaml:"chance"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // seconds of simulated time per CSV row
	PerfWindow  int     `yaml:"perf_window"`  // ticks averaged by the perf collector
}

// AudioConfig holds the sound cue settings used by the interactive hosts.
type AudioConfig struct {
	Enabled      bool    `yaml:"enabled"`
	SampleRate   int     `yaml:"sample_rate"`
	MasterVolume float64 `yaml:"master_volume"` // 0..1
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT       float64                  // seconds per tick
	ArenaW32 float32                  // Arena.Width as float32
	ArenaH32 float32                  // Arena.Height as float32
	Hazards  map[string]*HazardConfig // kind name -> generator
	Allies   map[string]*AllyConfig   // kind name -> ally stats
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.Physics.TicksPerSecond <= 0 {
		c.Physics.TicksPerSecond = 60
	}
	c.Derived.DT = 1.0 / float64(c.Physics.TicksPerSecond)
	c.Derived.ArenaW32 = float32(c.Arena.Width)
	c.Derived.ArenaH32 = float32(c.Arena.Height)

	c.Derived.Hazards = map[string]*HazardConfig{
		"mail":      &c.Hazards.Mail,
		"paperwork": &c.Hazards.Paperwork,
		"patrol":    &c.Hazards.Patrol,
		"trap":      &c.Hazards.Trap,
		"drone":     &c.Hazards.Drone,
		"thrown":    &c.Hazards.Thrown,
		"beam":      &c.Hazards.Beam,
	}
	c.Derived.Allies = map[string]*AllyConfig{
		"intern":     &c.Allies.Intern,
		"senior":     &c.Allies.Senior,
		"distractor": &c.Allies.Distractor,
		"rep":        &c.Allies.Rep,
	}

	for _, a := range c.Derived.Allies {
		if a.Ranged && a.FireInterval <= 0 {
			a.FireInterval = 1
		}
	}
}

// Validate reports every inconsistency in the configuration.
func (c *Config) Validate() error {
	var errs []error

	if c.Arena.Width <= 0 || c.Arena.Height <= 0 {
		errs = append(errs, fmt.Errorf("arena: size must be positive, got %vx%v", c.Arena.Width, c.Arena.Height))
	}
	if c.Player.Width <= 0 || c.Player.Height <= 0 {
		errs = append(errs, errors.New("player: size must be positive"))
	}
	if c.Player.TrapSlow < 0 || c.Player.TrapSlow > 1 {
		errs = append(errs, fmt.Errorf("player: trap_slow must be in [0,1], got %v", c.Player.TrapSlow))
	}
	if c.Boss.Width <= 0 || c.Boss.Height <= 0 {
		errs = append(errs, errors.New("boss: size must be positive"))
	}
	if c.Economy.RageThreshold <= 0 {
		errs = append(errs, fmt.Errorf("economy: rage_threshold must be positive, got %d", c.Economy.RageThreshold))
	}
	if c.Phases.UnionizeAllies <= 0 {
		errs = append(errs, fmt.Errorf("phases: unionize_allies must be positive, got %d", c.Phases.UnionizeAllies))
	}

	tables := map[string][]SpawnRule{
		"stealth":  c.Spawn.Stealth,
		"beatdown": c.Spawn.Beatdown,
		"allies":   c.Spawn.Allies,
	}
	for phase, rules := range tables {
		for i, r := range rules {
			if _, ok := c.Derived.Hazards[r.Kind]; !ok {
				errs = append(errs, fmt.Errorf("spawn.%s[%d]: unknown hazard kind %q", phase, i, r.Kind))
			}
			if r.Chance < 0 || r.Chance > 1 {
				errs = append(errs, fmt.Errorf("spawn.%s[%d]: chance must be in [0,1], got %v", phase, i, r.Chance))
			}
		}
	}

	for name, h := range c.Derived.Hazards {
		switch h.Edge {
		case EdgeTop, EdgeLeft, EdgeRandom:
		default:
			errs = append(errs, fmt.Errorf("hazards.%s: unknown edge %q", name, h.Edge))
		}
		if h.Width <= 0 || h.Height <= 0 {
			errs = append(errs, fmt.Errorf("hazards.%s: size must be positive", name))
		}
		if h.SpeedMax < h.SpeedMin {
			errs = append(errs, fmt.Errorf("hazards.%s: speed_max %v below speed_min %v", name, h.SpeedMax, h.SpeedMin))
		}
		if h.Penalty < 0 {
			errs = append(errs, fmt.Errorf("hazards.%s: penalty must not be negative, got %d", name, h.Penalty))
		}
	}

	for name, a := range c.Derived.Allies {
		if a.Cost < 0 || a.CostStep < 0 {
			errs = append(errs, fmt.Errorf("allies.%s: cost and cost_step must not be negative", name))
		}
		if a.Width <= 0 || a.Height <= 0 {
			errs = append(errs, fmt.Errorf("allies.%s: size must be positive", name))
		}
		if a.BossDamage < 0 || a.BossScore < 0 {
			errs = append(errs, fmt.Errorf("allies.%s: boss_damage and boss_score must not be negative", name))
		}
	}

	if c.Audio.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("audio: sample_rate must be positive, got %d", c.Audio.SampleRate))
	}
	if c.Audio.MasterVolume < 0 || c.Audio.MasterVolume > 1 {
		errs = append(errs, fmt.Errorf("audio: master_volume must be in [0,1], got %v", c.Audio.MasterVolume))
	}

	for i, name := range c.Recruit.Order {
		if _, ok := c.Derived.Allies[name]; !ok {
			errs = append(errs, fmt.Errorf("recruit.order[%d]: unknown ally kind %q", i, name))
		}
	}
	for i, link := range c.Recruit.Chain {
		if _, ok := c.Derived.Allies[link.Kind]; !ok {
			errs = append(errs, fmt.Errorf("recruit.chain[%d]: unknown ally kind %q", i, link.Kind))
		}
		if link.Chance < 0 || link.Chance > 1 {
			errs = append(errs, fmt.Errorf("recruit.chain[%d]: chance must be in [0,1], got %v", i, link.Chance))
		}
	}
	switch c.Recruit.Mode {
	case RecruitChain:
		if len(c.Recruit.Chain) == 0 {
			errs = append(errs, errors.New("recruit: chain mode needs at least one chain link"))
		}
	case RecruitRotation:
		if len(c.Recruit.Order) == 0 {
			errs = append(errs, errors.New("recruit: rotation mode needs a non-empty order"))
		}
	default:
		errs = append(errs, fmt.Errorf("recruit: unknown mode %q", c.Recruit.Mode))
	}

	return errors.Join(errs...)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
