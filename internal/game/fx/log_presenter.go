package fx

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/shooter/internal/game/damage"
	"github.com/cory-johannsen/shooter/internal/game/geom"
)

// LogPresenter writes every presentation request to a zap logger. The
// headless simulator uses it in place of a renderer.
type LogPresenter struct {
	logger *zap.Logger
}

// NewLogPresenter returns a LogPresenter writing at debug level.
//
// Postcondition: a nil logger is replaced by a no-op logger.
func NewLogPresenter(logger *zap.Logger) *LogPresenter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogPresenter{logger: logger.Named("fx")}
}

func vecField(key string, v geom.Vec3) zap.Field {
	return zap.Float64s(key, []float64{v.X, v.Y, v.Z})
}

func (p *LogPresenter) PlayMontage(actor damage.Actor, montage, section string, rate float64) {
	p.logger.Debug("montage",
		zap.Stringer("actor", actor),
		zap.String("montage", montage),
		zap.String("section", section),
		zap.Float64("rate", rate),
	)
}

func (p *LogPresenter) PauseAnimations(actor damage.Actor) {
	p.logger.Debug("pause animations", zap.Stringer("actor", actor))
}

func (p *LogPresenter) PlaySound(sound string, at geom.Vec3) {
	if sound == "" {
		return
	}
	p.logger.Debug("sound", zap.String("sound", sound), vecField("at", at))
}

func (p *LogPresenter) SpawnParticles(ref string, at geom.Vec3) {
	if ref == "" {
		return
	}
	p.logger.Debug("particles", zap.String("ref", ref), vecField("at", at))
}

func (p *LogPresenter) SpawnBeam(from, to geom.Vec3) {
	p.logger.Debug("beam", vecField("from", from), vecField("to", to))
}

func (p *LogPresenter) ShowHitNumber(enemy damage.Actor, amount float64, at geom.Vec3, headshot bool) {
	p.logger.Info("hit number",
		zap.Stringer("enemy", enemy),
		zap.Float64("amount", amount),
		zap.Bool("headshot", headshot),
		vecField("at", at),
	)
}

func (p *LogPresenter) SetHealthBarVisible(enemy damage.Actor, visible bool) {
	p.logger.Debug("health bar", zap.Stringer("enemy", enemy), zap.Bool("visible", visible))
}

func (p *LogPresenter) PulseItem(itemID string) {
	p.logger.Debug("item pulse", zap.String("item", itemID))
}
