// Package publicdir lists the top-level children of the framework's public
// directory, producing the routing inputs for static asset rules.
package publicdir

import (
	"fmt"
	"os"
	"strings"

	"github.com/ds-destinationsolutions/cdk-nextjs/pkg/distconfig"
)

// List reads one directory level and returns one entry per child, in the
// stable order the directory listing yields. Dotfiles are skipped; they are
// editor and VCS artifacts, not servable assets.
func List(dir string) ([]distconfig.PublicEntry, error) {
	d := strings.TrimSpace(dir)
	if d == "" {
		return nil, fmt.Errorf("public dir is empty")
	}
	children, err := os.ReadDir(d)
	if err != nil {
		return nil, fmt.Errorf("read public dir %q: %w", d, err)
	}
	entries := make([]distconfig.PublicEntry, 0, len(children))
	for _, child := range children {
		name := child.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		entries = append(entries, distconfig.PublicEntry{
			Name:        name,
			IsDirectory: child.IsDir(),
		})
	}
	return entries, nil
}
