package markings

// UnsavedChanges is a ChangeDetector that compares the current version
// tokens with the tokens recorded at the last save or load.
type UnsavedChanges struct {
	savedLeft  string
	savedRight string
	dirty      bool
}

// NewUnsavedChanges returns a clean detector with no baseline.
func NewUnsavedChanges() *UnsavedChanges {
	return &UnsavedChanges{}
}

// CheckForUnsavedChanges implements ChangeDetector.
func (u *UnsavedChanges) CheckForUnsavedChanges(leftVersion, rightVersion string) {
	u.dirty = leftVersion != u.savedLeft || rightVersion != u.savedRight
}

// MarkSaved records the baseline versions.
func (u *UnsavedChanges) MarkSaved(leftVersion, rightVersion string) {
	u.savedLeft = leftVersion
	u.savedRight = rightVersion
	u.dirty = false
}

// Dirty reports whether the registries changed since the baseline.
func (u *UnsavedChanges) Dirty() bool {
	return u.dirty
}
