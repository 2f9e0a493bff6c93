package plugin

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestUIDDeterministic(t *testing.T) {
	tests := []struct {
		name     string
		pluginID string
	}{
		{name: "template", pluginID: "com.vst3go.template"},
		{name: "other vendor", pluginID: "com.mycompany.newplugin"},
		{name: "unicode", pluginID: "com.example.ŝablono"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := Info{ID: tt.pluginID}

			uid1 := info.UID()
			uid2 := info.UID()
			if uid1 != uid2 {
				t.Errorf("UID generation is not deterministic for %s", tt.pluginID)
			}
			if err := info.ValidateUID(); err != nil {
				t.Errorf("UID validation failed for %s: %v", tt.pluginID, err)
			}

			u := uuid.UUID(uid1)
			if u.Version() != 5 {
				t.Errorf("expected version 5 UUID, got %d", u.Version())
			}
			if u.Variant() != uuid.RFC4122 {
				t.Errorf("expected RFC4122 variant, got %s", u.Variant())
			}
		})
	}
}

func TestUIDUniqueness(t *testing.T) {
	plugins := []string{
		"com.company1.plugin1",
		"com.company1.plugin2",
		"com.company2.plugin1",
		"com.different.name",
	}

	uids := make(map[[16]byte]string)
	for _, id := range plugins {
		uid := Info{ID: id}.UID()
		if prev, ok := uids[uid]; ok {
			t.Errorf("UID collision between %s and %s", prev, id)
		}
		uids[uid] = id
	}
}

func TestValidateUIDEmpty(t *testing.T) {
	if err := (Info{}).ValidateUID(); !errors.Is(err, ErrEmptyID) {
		t.Errorf("ValidateUID() = %v, want ErrEmptyID", err)
	}
}

func TestNewEffect(t *testing.T) {
	info := NewEffect("com.vst3go.template", "template")
	if info.Kind != KindEffect {
		t.Errorf("Kind = %s, want effect", info.Kind)
	}
	if info.ShortName != "template" {
		t.Errorf("ShortName = %q, want template", info.ShortName)
	}
	if info.Has(FlagWantNewTick) {
		t.Error("new effect should not want ticks by default")
	}

	ticked := info.WantNewTick()
	if !ticked.Has(FlagWantNewTick) {
		t.Error("WantNewTick did not set the flag")
	}
	if info.Has(FlagWantNewTick) {
		t.Error("WantNewTick mutated the receiver")
	}
}

func TestKindString(t *testing.T) {
	if KindEffect.String() != "effect" || KindGenerator.String() != "generator" || Kind(9).String() != "unknown" {
		t.Error("unexpected Kind strings")
	}
}
