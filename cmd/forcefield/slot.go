package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/lixenwraith/forcefield/savegame"
	"github.com/lixenwraith/forcefield/sim"
	"github.com/lixenwraith/forcefield/storage"
)

var errScenarioMismatch = errors.New("slot was saved from a different scenario")

// saveSlot serializes s and stores it under name, replacing an older slot
func (a *app) saveSlot(ctx context.Context, s *sim.Simulation, name string) (*storage.SaveSlot, error) {
	var buf bytes.Buffer
	w := savegame.NewWriter(&buf)
	if err := s.Save(w); err != nil {
		return nil, fmt.Errorf("serialize: %w", err)
	}

	store, err := a.openStore()
	if err != nil {
		return nil, err
	}
	defer store.Close()

	slot := &storage.SaveSlot{
		Name:     name,
		Scenario: a.scn.Name,
		Tick:     s.Tick(),
		SimTime:  s.Now(),
		Data:     buf.Bytes(),
	}
	if err := store.Put(ctx, slot); err != nil {
		return nil, err
	}
	a.log.Info().Str("slot", name).Int64("tick", slot.Tick).Int("bytes", slot.Size).Msg("saved")
	return slot, nil
}

// loadSlot restores s from the named slot
func (a *app) loadSlot(ctx context.Context, s *sim.Simulation, name string) (*storage.SaveSlot, error) {
	store, err := a.openStore()
	if err != nil {
		return nil, err
	}
	defer store.Close()

	slot, err := store.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if slot.Scenario != a.scn.Name {
		return nil, fmt.Errorf("%w: slot %q is from %q, loaded %q", errScenarioMismatch, name, slot.Scenario, a.scn.Name)
	}

	r, err := savegame.NewReader(bytes.NewReader(slot.Data))
	if err != nil {
		return nil, fmt.Errorf("slot %q: %w", name, err)
	}
	if err := s.Restore(r); err != nil {
		return nil, fmt.Errorf("slot %q: %w", name, err)
	}
	return slot, nil
}
