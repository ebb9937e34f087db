package git

import (
	"errors"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/secretgate/secretgate/internal/types"
)

// timeNow is swapped in tests for stable day math.
var timeNow = time.Now

// FileAgeDays returns how many whole days ago the oldest commit touching
// path landed, relative to the repository at root. Paths with no history
// and roots that are not repositories report zero with a nil error so the
// caller can keep the age modifier neutral.
func FileAgeDays(root, path string) (int, error) {
	validRoot, err := validateRoot(root)
	if err != nil {
		return 0, err
	}

	repo, err := gogit.PlainOpenWithOptions(validRoot, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return 0, nil
		}
		return 0, err
	}

	iter, err := repo.Log(&gogit.LogOptions{
		FileName: &path,
		Order:    gogit.LogOrderCommitterTime,
	})
	if err != nil {
		// Empty repository or unborn HEAD.
		return 0, nil
	}
	defer iter.Close()

	var oldest time.Time
	err = iter.ForEach(func(c *object.Commit) error {
		oldest = c.Committer.When
		return nil
	})
	if err != nil {
		return 0, err
	}
	if oldest.IsZero() {
		return 0, nil
	}

	days := int(timeNow().Sub(oldest).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return days, nil
}

// AnnotateHistory fills HistoryAgeDays on each finding from commit history,
// caching per path since findings commonly share files. Lookup failures
// leave the age at zero rather than failing the gate.
func AnnotateHistory(root string, findings []types.Finding) []types.Finding {
	ages := map[string]int{}
	out := make([]types.Finding, len(findings))
	for i, f := range findings {
		out[i] = f
		if f.HistoryAgeDays != 0 {
			continue
		}
		age, ok := ages[f.Path]
		if !ok {
			age, _ = FileAgeDays(root, f.Path)
			ages[f.Path] = age
		}
		out[i].HistoryAgeDays = age
	}
	return out
}
