package forcefield

import (
	"github.com/lixenwraith/forcefield/engine"
	"github.com/lixenwraith/forcefield/physics"
)

// Accepts reports whether the field may act on a, independent of position
func (f *Field) Accepts(a engine.Actor) bool {
	body := a.Physics()
	if body == nil {
		return false
	}
	return f.accepts(a, body)
}

func (f *Field) accepts(a engine.Actor, body physics.Body) bool {
	class := a.Class()
	if f.cfg.PlayerOnly && !class.Has(engine.ClassPlayer) {
		return false
	}
	if f.cfg.MonsterOnly && !class.Has(engine.ClassMonster) {
		return false
	}
	if f.cfg.UseWhitelist {
		// Exclusive mode inverts the list: members are the ones left alone
		if f.whiteList.Contains(a.UUID()) == f.cfg.ExclusiveMode {
			return false
		}
	}
	if f.cfg.IgnoreInactiveRagdolls && class.Has(engine.ClassRagdoll) && body.IsAtRest() {
		return false
	}
	return true
}
