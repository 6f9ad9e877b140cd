package combat

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestDamage(t *testing.T) {
	tests := map[string]struct {
		attack int
		armor  int
		exp    int
	}{
		"unarmored":           {attack: 5, armor: 0, exp: 5},
		"partially absorbed":  {attack: 5, armor: 3, exp: 2},
		"fully absorbed":      {attack: 5, armor: 5, exp: 1},
		"armor exceeds blow":  {attack: 2, armor: 10, exp: 1},
		"no attack still one": {attack: 0, armor: 0, exp: 1},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "damage", Damage(tt.attack, tt.armor), tt.exp)
		})
	}
}

func TestDamageVerb(t *testing.T) {
	testutil.AssertEqual(t, "low damage", DamageVerb(1), "scratches")
	testutil.AssertEqual(t, "mid damage", DamageVerb(10), "hits hard")
	testutil.AssertEqual(t, "over the ladder", DamageVerb(99), "obliterates")
}
