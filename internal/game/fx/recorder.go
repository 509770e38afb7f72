package fx

import (
	"github.com/cory-johannsen/shooter/internal/game/damage"
	"github.com/cory-johannsen/shooter/internal/game/geom"
)

// Event is one recorded presentation request.
type Event struct {
	Op       string
	Actor    damage.Actor
	Name     string
	Section  string
	At       geom.Vec3
	To       geom.Vec3
	Amount   float64
	Headshot bool
	Visible  bool
}

// Recorder stores every request in order. Tests use it to assert on the
// cosmetic side effects of combat operations.
type Recorder struct {
	Events []Event
}

// Count returns the number of recorded events with the given op.
func (r *Recorder) Count(op string) int {
	n := 0
	for _, e := range r.Events {
		if e.Op == op {
			n++
		}
	}
	return n
}

// Last returns the most recent event with the given op and whether one exists.
func (r *Recorder) Last(op string) (Event, bool) {
	for i := len(r.Events) - 1; i >= 0; i-- {
		if r.Events[i].Op == op {
			return r.Events[i], true
		}
	}
	return Event{}, false
}

func (r *Recorder) PlayMontage(actor damage.Actor, montage, section string, rate float64) {
	r.Events = append(r.Events, Event{Op: "montage", Actor: actor, Name: montage, Section: section, Amount: rate})
}

func (r *Recorder) PauseAnimations(actor damage.Actor) {
	r.Events = append(r.Events, Event{Op: "pause", Actor: actor})
}

func (r *Recorder) PlaySound(sound string, at geom.Vec3) {
	r.Events = append(r.Events, Event{Op: "sound", Name: sound, At: at})
}

func (r *Recorder) SpawnParticles(ref string, at geom.Vec3) {
	r.Events = append(r.Events, Event{Op: "particles", Name: ref, At: at})
}

func (r *Recorder) SpawnBeam(from, to geom.Vec3) {
	r.Events = append(r.Events, Event{Op: "beam", At: from, To: to})
}

func (r *Recorder) ShowHitNumber(enemy damage.Actor, amount float64, at geom.Vec3, headshot bool) {
	r.Events = append(r.Events, Event{Op: "hit_number", Actor: enemy, Amount: amount, At: at, Headshot: headshot})
}

func (r *Recorder) SetHealthBarVisible(enemy damage.Actor, visible bool) {
	r.Events = append(r.Events, Event{Op: "health_bar", Actor: enemy, Visible: visible})
}

func (r *Recorder) PulseItem(itemID string) {
	r.Events = append(r.Events, Event{Op: "pulse", Name: itemID})
}
