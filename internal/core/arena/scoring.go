package arena

// CanScore reports whether a target last scored at last may score again at now.
// Exactly cooldownMs elapsed is enough.
func CanScore(now int64, last OptTime, cooldownMs int64) bool {
	if !last.Valid {
		return true
	}
	return now-last.At >= cooldownMs
}
