package forcefield

import (
	"errors"
	"fmt"
	"math"

	"github.com/lixenwraith/forcefield/physics"
	"github.com/lixenwraith/forcefield/savegame"
	"github.com/lixenwraith/forcefield/vmath"
)

// ErrInvalidState reports a restored field whose values cannot be used
var ErrInvalidState = errors.New("forcefield: invalid saved state")

// maxSavedWhiteList bounds the whitelist count read back from a save
const maxSavedWhiteList = 1 << 16

// Save writes configuration, region and the live part of the whitelist
func (f *Field) Save(w *savegame.Writer) error {
	c := &f.cfg
	w.WriteUint8(uint8(c.Type))
	w.WriteUint8(uint8(c.ApplyType))
	w.WriteUint8(uint8(c.MagnitudeType))
	w.WriteFloat64(c.Magnitude)
	w.WriteVec3(c.Dir)
	w.WriteFloat64(c.RandomTorque)
	w.WriteFloat64(c.SphereMin)
	w.WriteFloat64(c.SphereMax)
	w.WriteFloat64(c.CylinderMin)
	w.WriteFloat64(c.CylinderMax)
	w.WriteFloat64(c.SwingMagnitude)
	w.WriteDuration(c.SwingPeriod)
	w.WriteFloat64(c.OldVelocityPct)
	w.WriteFloat64(c.OldVelocityProjPct)
	w.WriteFloat64(c.VelocityCompensationPct)
	w.WriteVec3(c.ParentLinearVelocity)
	w.WriteBool(c.PlayerOnly)
	w.WriteBool(c.MonsterOnly)
	w.WriteBool(c.UseWhitelist)
	w.WriteBool(c.ExclusiveMode)
	w.WriteBool(c.IgnoreInactiveRagdolls)
	w.WriteBool(c.Mode2D)
	w.WriteBool(c.WindMode)
	w.WriteFloat64(c.WindGust)
	w.WriteFloat64(c.WindGustFrequency)

	w.WriteBool(f.clip != nil)
	if f.clip != nil {
		w.WriteUint8(uint8(f.clip.Shape()))
		w.WriteVec3(f.clip.Extents())
		w.WriteVec3(f.clip.Origin())
		w.WriteMat3(f.clip.Axis())
	}

	ids := f.whiteList.IDs()
	live := ids[:0]
	for _, id := range ids {
		if _, ok := f.space.Lookup(id); ok {
			live = append(live, id)
		}
	}
	w.WriteUint32(uint32(len(live)))
	for _, id := range live {
		w.WriteUUID(id)
	}
	return w.Err()
}

// SavedState is a decoded and validated field state not yet applied
type SavedState struct {
	cfg       Config
	clip      *physics.ClipModel
	whiteList WhiteList
}

func (st *SavedState) Config() Config { return st.cfg }

// Restore replaces the field state with one written by Save
// Values are taken as saved, without the zone promotion Configure performs
// On error the field is unchanged
func (f *Field) Restore(r *savegame.Reader) error {
	st, err := f.DecodeState(r)
	if err != nil {
		return err
	}
	f.ApplyState(st)
	return nil
}

// DecodeState reads one field block without touching the field
func (f *Field) DecodeState(r *savegame.Reader) (*SavedState, error) {
	var c Config
	c.Type = FieldType(r.ReadUint8())
	c.ApplyType = ApplyType(r.ReadUint8())
	c.MagnitudeType = MagnitudeType(r.ReadUint8())
	c.Magnitude = r.ReadFloat64()
	c.Dir = r.ReadVec3()
	c.RandomTorque = r.ReadFloat64()
	c.SphereMin = r.ReadFloat64()
	c.SphereMax = r.ReadFloat64()
	c.CylinderMin = r.ReadFloat64()
	c.CylinderMax = r.ReadFloat64()
	c.SwingMagnitude = r.ReadFloat64()
	c.SwingPeriod = r.ReadDuration()
	c.OldVelocityPct = r.ReadFloat64()
	c.OldVelocityProjPct = r.ReadFloat64()
	c.VelocityCompensationPct = r.ReadFloat64()
	c.ParentLinearVelocity = r.ReadVec3()
	c.PlayerOnly = r.ReadBool()
	c.MonsterOnly = r.ReadBool()
	c.UseWhitelist = r.ReadBool()
	c.ExclusiveMode = r.ReadBool()
	c.IgnoreInactiveRagdolls = r.ReadBool()
	c.Mode2D = r.ReadBool()
	c.WindMode = r.ReadBool()
	c.WindGust = r.ReadFloat64()
	c.WindGustFrequency = r.ReadFloat64()

	var clip *physics.ClipModel
	if r.ReadBool() {
		shape := physics.Shape(r.ReadUint8())
		extents := r.ReadVec3()
		origin := r.ReadVec3()
		axis := r.ReadMat3()
		if r.Err() == nil {
			if err := validateClip(shape, extents, origin); err != nil {
				return nil, err
			}
		}
		clip = physics.NewClipModel(shape, extents)
		clip.SetPosition(origin, axis)
	}

	n := r.ReadCount(maxSavedWhiteList)
	var list WhiteList
	for range n {
		list.Add(r.ReadUUID())
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("restore field %q: %w", f.name, err)
	}
	if err := validateConfig(c); err != nil {
		return nil, err
	}
	return &SavedState{cfg: c, clip: clip, whiteList: list}, nil
}

// ApplyState commits a state from DecodeState
func (f *Field) ApplyState(st *SavedState) {
	f.cfg = st.cfg
	f.clip = st.clip
	f.whiteList = st.whiteList
	f.log.Debug().
		Stringer("type", st.cfg.Type).
		Stringer("apply", st.cfg.ApplyType).
		Int("whitelist", st.whiteList.Len()).
		Msg("field restored")
}

func validateConfig(c Config) error {
	switch {
	case !c.Type.Valid():
		return fmt.Errorf("%w: field type %d", ErrInvalidState, c.Type)
	case !c.ApplyType.Valid():
		return fmt.Errorf("%w: apply type %d", ErrInvalidState, c.ApplyType)
	case !c.MagnitudeType.Valid():
		return fmt.Errorf("%w: magnitude type %d", ErrInvalidState, c.MagnitudeType)
	case c.PlayerOnly && c.MonsterOnly:
		return fmt.Errorf("%w: player-only and monster-only both set", ErrInvalidState)
	case c.SwingPeriod < 0:
		return fmt.Errorf("%w: negative swing period", ErrInvalidState)
	}
	for _, v := range []float64{c.Magnitude, c.SphereMin, c.SphereMax, c.CylinderMin, c.CylinderMax, c.SwingMagnitude} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite magnitude or zone", ErrInvalidState)
		}
	}
	for _, p := range []float64{c.OldVelocityPct, c.OldVelocityProjPct, c.VelocityCompensationPct} {
		if p < 0 || p > 1 || math.IsNaN(p) {
			return fmt.Errorf("%w: weight %v outside [0,1]", ErrInvalidState, p)
		}
	}
	if !vmath.V3FIsFinite(c.Dir) || !vmath.V3FIsFinite(c.ParentLinearVelocity) {
		return fmt.Errorf("%w: non-finite vector", ErrInvalidState)
	}
	if c.SphereMin < 0 || c.SphereMin > c.SphereMax {
		return fmt.Errorf("%w: sphere zone [%v, %v]", ErrInvalidState, c.SphereMin, c.SphereMax)
	}
	if c.CylinderMin < 0 || c.CylinderMin > c.CylinderMax {
		return fmt.Errorf("%w: cylinder zone [%v, %v]", ErrInvalidState, c.CylinderMin, c.CylinderMax)
	}
	if math.IsNaN(c.WindGust) || math.IsInf(c.WindGust, 0) || c.WindGust < 0 {
		return fmt.Errorf("%w: wind gust %v", ErrInvalidState, c.WindGust)
	}
	if math.IsNaN(c.WindGustFrequency) || math.IsInf(c.WindGustFrequency, 0) || c.WindGustFrequency <= 0 {
		return fmt.Errorf("%w: wind gust frequency %v", ErrInvalidState, c.WindGustFrequency)
	}
	return nil
}

func validateClip(shape physics.Shape, extents, origin vmath.Vec3F) error {
	if !shape.Valid() {
		return fmt.Errorf("%w: clip shape %d", ErrInvalidState, shape)
	}
	if !vmath.V3FIsFinite(extents) || extents.X < 0 || extents.Y < 0 || extents.Z < 0 {
		return fmt.Errorf("%w: clip extents %v", ErrInvalidState, extents)
	}
	if !vmath.V3FIsFinite(origin) {
		return fmt.Errorf("%w: clip origin %v", ErrInvalidState, origin)
	}
	return nil
}
