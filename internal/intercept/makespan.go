package intercept

import (
	"fmt"

	"blockage-sim/internal/assignment"
	"blockage-sim/internal/common"
)

// Farthest describes the assigned unit whose trip to its slot takes longest.
// It bounds when the blocking line can be complete.
type Farthest struct {
	Unit  int          // index into the unit snapshot
	Start common.Point // (x_m0, y_m0)
	SlotX float64      // x_m, the lateral position of its slot
	Speed float64
	Time  float64 // makespan: travel time to the slot
}

// Makespan returns the farthest assigned unit: the one maximizing
// distance(unit, slot)/speed over pairs. Ties go to the lowest unit index.
func Makespan(units []common.PursuingUnit, slots []common.Point, pairs []assignment.Pair) (Farthest, error) {
	if len(pairs) == 0 {
		return Farthest{}, ErrEmptyAssignment
	}
	best := Farthest{Unit: -1}
	for _, p := range pairs {
		if p.Unit < 0 || p.Unit >= len(units) || p.Slot < 0 || p.Slot >= len(slots) {
			return Farthest{}, fmt.Errorf("pair %v out of range for %d units and %d slots", p, len(units), len(slots))
		}
		u := units[p.Unit]
		if u.Speed <= 0 {
			return Farthest{}, fmt.Errorf("%w: unit %d speed %.3f", ErrInvalidSpeed, p.Unit, u.Speed)
		}
		t := u.Loc.Distance(slots[p.Slot]) / u.Speed
		if best.Unit < 0 || t > best.Time || (t == best.Time && p.Unit < best.Unit) {
			best = Farthest{
				Unit:  p.Unit,
				Start: u.Loc,
				SlotX: slots[p.Slot].X,
				Speed: u.Speed,
				Time:  t,
			}
		}
	}
	return best, nil
}

// TimeTo returns how long the farthest unit needs to reach (SlotX, h).
func (f Farthest) TimeTo(h float64) float64 {
	return f.Start.Distance(common.Point{X: f.SlotX, Y: h}) / f.Speed
}

// CandidateHeight returns the height at which the farthest unit, heading for
// its slot column, meets agent: the line height at which that agent is caught
// exactly as the formation completes.
func CandidateHeight(f Farthest, agent common.MovingAgent) (float64, error) {
	return MeetingHeight(f.Start, f.Speed, common.Point{X: f.SlotX, Y: agent.Loc.Y}, agent.Speed)
}
