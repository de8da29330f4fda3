package anndata

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// FormatVersion is the on-disk format line whose element encodings this
// package writes.
const FormatVersion = "0.10.0"

// VersionDir returns the major.minor directory name fixtures of the given
// format version are grouped under, e.g. "0.10" for "0.10.9".
func VersionDir(version string) (string, error) {
	v, err := semver.NewVersion(version)
	if err != nil {
		return "", fmt.Errorf("format version %q: %w", version, err)
	}

	return fmt.Sprintf("%d.%d", v.Major(), v.Minor()), nil
}
