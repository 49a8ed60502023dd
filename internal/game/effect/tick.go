package effect

import "github.com/greyvale/encounter/internal/game/actor"

// Event is the clock signal driving duration ticking.
type Event string

const (
	// EventTurn fires at the end of a combatant's turn; decrements
	// rounds-duration effects.
	EventTurn Event = "turn"
	// EventRound fires at the end of a full combat round; decrements
	// minutes-duration effects.
	EventRound Event = "round"
)

// Tick decrements the remaining duration of ch's timed effects for the given
// event and removes those that expire, returning the removed effects so the
// caller can narrate them. Concentration and permanent effects are never
// auto-ticked.
//
// Postcondition: no returned effect remains on ch.
func Tick(ch *actor.Character, event Event) []*actor.ActiveEffect {
	var ticked actor.Duration
	switch event {
	case EventTurn:
		ticked = actor.DurationRounds
	case EventRound:
		ticked = actor.DurationMinutes
	default:
		return nil
	}

	var expired []*actor.ActiveEffect
	kept := ch.Effects[:0]
	for _, eff := range ch.Effects {
		if eff.Duration != ticked {
			kept = append(kept, eff)
			continue
		}
		eff.Remaining--
		if eff.Remaining <= 0 {
			expired = append(expired, eff)
			continue
		}
		kept = append(kept, eff)
	}
	ch.Effects = kept
	return expired
}
