package address

import "testing"

func TestDeriveIsDeterministic(t *testing.T) {
	d := NewDeriver("deployment-seed")
	addr1, bump1 := d.Derive("role", []byte("manager"))
	addr2, bump2 := d.Derive("role", []byte("manager"))
	if addr1 != addr2 {
		t.Fatalf("same inputs produced different addresses: %s vs %s", addr1, addr2)
	}
	if bump1 != bump2 {
		t.Fatalf("same inputs produced different bumps: %d vs %d", bump1, bump2)
	}
}

func TestDeriveDistinguishesInputs(t *testing.T) {
	d := NewDeriver("deployment-seed")
	base, _ := d.Derive("role", []byte("manager"))

	cases := map[string]Address{}
	if addr, _ := d.Derive("role", []byte("auditor")); true {
		cases["different part"] = addr
	}
	if addr, _ := d.Derive("user_role", []byte("manager")); true {
		cases["different namespace"] = addr
	}
	// Length prefixing keeps ("ab","c") and ("a","bc") apart.
	if addr, _ := d.Derive("role", []byte("man"), []byte("ager")); true {
		cases["different field split"] = addr
	}
	for name, addr := range cases {
		if addr == base {
			t.Errorf("%s collided with base address", name)
		}
	}
}

func TestDeriveDependsOnSeed(t *testing.T) {
	a, _ := NewDeriver("seed-a").Derive("rbac_state")
	b, _ := NewDeriver("seed-b").Derive("rbac_state")
	if a == b {
		t.Fatal("different seeds produced the same address")
	}
}

func TestParseRoundTrip(t *testing.T) {
	d := NewDeriver("deployment-seed")
	addr, _ := d.Derive("role", []byte("manager"))
	parsed, err := Parse(addr.String())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed != addr {
		t.Fatalf("round trip mismatch: %s vs %s", parsed, addr)
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	if _, err := Parse("zz"); err == nil {
		t.Error("expected error for non-hex input")
	}
	if _, err := Parse("abcd"); err == nil {
		t.Error("expected error for short input")
	}
}
