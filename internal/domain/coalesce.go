package domain

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// Float64WithDefault returns the first positive value, or the fallback.
func Float64WithDefault(fallback float64, vals ...float64) float64 {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return fallback
}

// IntWithDefault returns the first positive value, or the fallback.
func IntWithDefault(fallback int, vals ...int) int {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return fallback
}
