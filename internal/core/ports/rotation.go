package ports

// RotationTrigger decides whether the active file must be rotated.
type RotationTrigger interface {
	// ShouldRotate reports whether a file holding size bytes must be rotated.
	ShouldRotate(size int64) bool
}

// TransferPolicy moves the active file out of the way when it is rotated.
type TransferPolicy interface {
	// Perform renumbers the backups of activePath and, if recreateActive is
	// true, leaves an empty file at activePath. If the active file itself
	// cannot be moved Perform fails and activePath is left untouched.
	Perform(activePath string, recreateActive bool) error
}
