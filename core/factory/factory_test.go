package factory

import "testing"

type tier struct{ Limit int }

type tierConf struct {
	Limit int `json:"limit"`
}

func TestRegistryCreate(t *testing.T) {
	reg := NewRegistry[*tier]()
	reg.MustRegister("swap", func(conf map[string]any) (*tier, error) {
		var c tierConf
		if err := Decode(conf, &c); err != nil {
			return nil, err
		}
		return &tier{Limit: c.Limit}, nil
	})
	inst, err := reg.Create(ModuleConfig{Type: "swap", Conf: map[string]any{"limit": "3"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inst.Limit != 3 {
		t.Fatalf("expected 3 got %d", inst.Limit)
	}
	if _, err := reg.Create(ModuleConfig{Type: "swap", Conf: map[string]any{"bogus": 1}}); err == nil {
		t.Fatal("expected unknown key error")
	}
}

func TestRegistryErrors(t *testing.T) {
	reg := NewRegistry[int]()
	if err := reg.Register("x", func(map[string]any) (int, error) { return 1, nil }); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register("x", func(map[string]any) (int, error) { return 2, nil }); err == nil {
		t.Fatal("expected duplicate error")
	}
	if err := reg.Register("y", nil); err == nil {
		t.Fatal("expected nil factory error")
	}
	if _, err := reg.Create(ModuleConfig{Type: "missing"}); err == nil {
		t.Fatal("expected unknown type error")
	}
	if got := reg.Names(); len(got) != 1 || got[0] != "x" {
		t.Fatalf("unexpected names %v", got)
	}
}
