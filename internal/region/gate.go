package region

// Spawn gates. Both hash the key with 32-bit wrapping arithmetic and compare
// the hash modulo 100 against a threshold using strict less-than, so a roll of
// exactly the threshold does not spawn.
const (
	// SettlementThreshold is the percentage of regions carrying a settlement.
	SettlementThreshold = 15
	// PatrolThreshold is the percentage of regions seeding a hostile patrol.
	PatrolThreshold = 15
)

// SettlementRoll returns uint32(x*73856093 ^ z*19349663) % 100, computed
// with int32 multiplication that wraps on overflow.
func SettlementRoll(k Key) uint32 {
	return uint32(k.X*73856093^k.Z*19349663) % 100
}

// ShouldSpawnSettlement reports whether SettlementRoll(k) < SettlementThreshold.
func ShouldSpawnSettlement(k Key) bool {
	return SettlementRoll(k) < SettlementThreshold
}

// PatrolRoll returns uint32(x*1234567 ^ z*7654321) % 100, computed with int32
// multiplication that wraps on overflow.
func PatrolRoll(k Key) uint32 {
	return uint32(k.X*1234567^k.Z*7654321) % 100
}

// ShouldSpawnPatrol reports whether PatrolRoll(k) < PatrolThreshold.
func ShouldSpawnPatrol(k Key) bool {
	return PatrolRoll(k) < PatrolThreshold
}
