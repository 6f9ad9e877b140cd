package combat

// Damage computes what a landed attack deals against armor. Every landed
// attack deals at least 1, so heavily armored targets still wear down.
func Damage(attack, armor int) int {
	dmg := attack - armor
	if dmg < 1 {
		dmg = 1
	}
	return dmg
}

var damageMessages = []struct {
	maxDamage int
	verb3rd   string // "{attacker} {verb} {target}!"
}{
	{2, "scratches"},
	{4, "nicks"},
	{7, "hits"},
	{12, "hits hard"},
	{18, "pummels"},
	{25, "mauls"},
	{40, "devastates"},
}

// DamageVerb returns the 3rd person verb for a damage amount, used in
// event log messages.
func DamageVerb(damage int) string {
	for _, msg := range damageMessages {
		if damage <= msg.maxDamage {
			return msg.verb3rd
		}
	}
	return "obliterates"
}
