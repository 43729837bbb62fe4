package config

// CachedPackages returns the number of decoded package files held by l.
func (l *Loader) CachedPackages() int {
	return l.packages.Len()
}
