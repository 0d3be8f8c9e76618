package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

func CacheDir() string {
	tmpDir, err := os.UserCacheDir()
	if err != nil {
		tmpDir = os.TempDir()
	}
	return filepath.Join(tmpDir, "rustsec-vex")
}

// SplitList splits a comma separated flag value, dropping blanks and duplicates.
func SplitList(s string) []string {
	items := lo.Map(strings.Split(s, ","), func(item string, _ int) string {
		return strings.TrimSpace(item)
	})
	return lo.Uniq(lo.Compact(items))
}
