package repository

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PageVerify clamps skip to >= 0 and limit to [1, MaxPageLimit], defaulting to DefaultPageLimit.
func PageVerify(skip, limit *int64) {
	if *skip < 0 {
		*skip = 0
	}
	if *limit <= 0 {
		*limit = DefaultPageLimit
	}
	if *limit > MaxPageLimit {
		*limit = MaxPageLimit
	}
}
