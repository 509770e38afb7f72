package combat

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/shooter/internal/game/damage"
	"github.com/cory-johannsen/shooter/internal/game/fx"
	"github.com/cory-johannsen/shooter/internal/game/geom"
)

const (
	// AimTraceRange is the length of the ray cast from the crosshair.
	AimTraceRange = 50000.0
	// MuzzleExtension stretches the muzzle trace past the aim point.
	MuzzleExtension = 1.25

	HeadshotStunChance = 0.2
	BodyStunChance     = 0.1
)

// TraceHit is the first blocking result of a line trace.
type TraceHit struct {
	Blocking bool
	Location geom.Vec3
	Actor    damage.Actor
	// Region is the skeletal region struck, empty for static geometry.
	Region string
}

// WorldQuery is the collision capability the hit scanner depends on.
type WorldQuery interface {
	// ViewportRay returns the world ray through the crosshair. ok is false
	// when no viewport is available.
	ViewportRay() (origin, dir geom.Vec3, ok bool)
	// LineTrace returns the first blocking hit between start and end.
	LineTrace(start, end geom.Vec3) TraceHit
}

// HitTarget is an enemy as seen by the hit scanner.
type HitTarget interface {
	damage.Target
	HeadRegion() string
	SetStunChance(v float64)
	ShowHitNumber(amount float64, at geom.Vec3, headshot bool)
	BulletHit(at geom.Vec3)
}

// TargetResolver maps an enemy actor reference to its live controller.
type TargetResolver func(actor damage.Actor) (HitTarget, bool)

// TargetKind classifies what a shot struck.
type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetEnemy
	TargetOtherSurface
)

// String returns a human-readable target label.
func (k TargetKind) String() string {
	switch k {
	case TargetEnemy:
		return "enemy"
	case TargetOtherSurface:
		return "surface"
	default:
		return "none"
	}
}

// Shot is one fired round waiting for hit resolution.
type Shot struct {
	Instigator     damage.Actor
	WeaponID       string
	Muzzle         geom.Vec3
	Damage         float64
	HeadshotDamage float64
	MuzzleFlash    string
}

// HitOutcome is the result of resolving one Shot.
type HitOutcome struct {
	Struck         bool
	TargetKind     TargetKind
	Headshot       bool
	Damage         float64
	ImpactLocation geom.Vec3
}

// HitScanner resolves shots with a crosshair trace followed by a muzzle trace.
type HitScanner struct {
	world           WorldQuery
	targets         TargetResolver
	damage          damage.Channel
	presenter       fx.Presenter
	impactParticles string
	logger          *zap.Logger
}

// ScannerConfig bundles the collaborators of a HitScanner.
type ScannerConfig struct {
	World     WorldQuery
	Targets   TargetResolver
	Damage    damage.Channel
	Presenter fx.Presenter
	// ImpactParticles is spawned where a shot hits anything but an enemy.
	ImpactParticles string
	Logger          *zap.Logger
}

// NewHitScanner creates a HitScanner.
//
// Precondition: cfg.World must not be nil.
func NewHitScanner(cfg ScannerConfig) *HitScanner {
	if cfg.World == nil {
		panic("combat: NewHitScanner: World must not be nil")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Damage == nil {
		cfg.Damage = damage.NewDirect(cfg.Logger)
	}
	if cfg.Presenter == nil {
		cfg.Presenter = fx.Nop{}
	}
	if cfg.Targets == nil {
		cfg.Targets = func(damage.Actor) (HitTarget, bool) { return nil, false }
	}
	return &HitScanner{
		world:           cfg.World,
		targets:         cfg.Targets,
		damage:          cfg.Damage,
		presenter:       cfg.Presenter,
		impactParticles: cfg.ImpactParticles,
		logger:          cfg.Logger.Named("hitscan"),
	}
}

// AimPoint traces from the crosshair and returns the first blocking location,
// or the far end of the ray when nothing blocks.
//
// Postcondition: ok is false only when no viewport ray is available.
func (h *HitScanner) AimPoint() (geom.Vec3, bool) {
	origin, dir, ok := h.world.ViewportRay()
	if !ok {
		return geom.Vec3{}, false
	}
	end := origin.Add(dir.Normalize().Scale(AimTraceRange))
	if hit := h.world.LineTrace(origin, end); hit.Blocking {
		return hit.Location, true
	}
	return end, true
}

// Resolve runs both traces for shot and applies the result.
//
// Postcondition: only an enemy struck by the muzzle trace takes damage; every
// other outcome is cosmetic.
func (h *HitScanner) Resolve(shot Shot) HitOutcome {
	h.presenter.SpawnParticles(shot.MuzzleFlash, shot.Muzzle)

	aim, ok := h.AimPoint()
	if !ok {
		h.logger.Debug("no viewport ray; shot dropped", zap.String("weapon", shot.WeaponID))
		return HitOutcome{}
	}

	end := shot.Muzzle.Add(aim.Sub(shot.Muzzle).Scale(MuzzleExtension))
	hit := h.world.LineTrace(shot.Muzzle, end)
	if !hit.Blocking {
		h.presenter.SpawnParticles(h.impactParticles, aim)
		h.presenter.SpawnBeam(shot.Muzzle, aim)
		return HitOutcome{ImpactLocation: aim}
	}

	out := HitOutcome{Struck: true, TargetKind: TargetOtherSurface, ImpactLocation: hit.Location}
	h.presenter.SpawnBeam(shot.Muzzle, hit.Location)

	var target HitTarget
	if hit.Actor.Kind == damage.KindEnemy {
		target, _ = h.targets(hit.Actor)
	}
	if target == nil {
		h.presenter.SpawnParticles(h.impactParticles, hit.Location)
		return out
	}

	target.BulletHit(hit.Location)
	out.TargetKind = TargetEnemy
	out.Headshot = hit.Region != "" && hit.Region == target.HeadRegion()
	amount := shot.Damage
	if out.Headshot {
		target.SetStunChance(HeadshotStunChance)
		amount = shot.HeadshotDamage
	} else {
		target.SetStunChance(BodyStunChance)
	}
	out.Damage = h.damage.Apply(target, amount, shot.Instigator, shot.Instigator)
	target.ShowHitNumber(amount, hit.Location, out.Headshot)

	h.logger.Debug("shot resolved",
		zap.Stringer("target", hit.Actor),
		zap.Bool("headshot", out.Headshot),
		zap.Float64("damage", out.Damage),
	)
	return out
}
