// Package embedded ships the baseline topic catalog inside the binary.
// The reconciler seeds the remote collection from this catalog, so a
// fresh deployment converges to it without any external data file.
package embedded

import (
	_ "embed"
	"sync"

	"github.com/goccy/go-yaml"

	"github.com/phodsawiR/MedGuideApp2/pkg/catalogs"
	"github.com/phodsawiR/MedGuideApp2/pkg/errors"
)

//go:embed seed.yaml
var seedYAML []byte

var (
	once    sync.Once
	seed    catalogs.Topics
	loadErr error
)

// Topics parses the embedded seed catalog. The parse happens once; every
// call returns a fresh copy so callers cannot mutate the baseline.
func Topics() (catalogs.Topics, error) {
	once.Do(func() {
		var doc struct {
			Topics catalogs.Topics `yaml:"topics"`
		}
		if err := yaml.Unmarshal(seedYAML, &doc); err != nil {
			loadErr = errors.WrapParse("yaml", "seed.yaml", err)
			return
		}
		seed = doc.Topics
	})
	if loadErr != nil {
		return nil, loadErr
	}
	return seed.Copy(), nil
}

// MustTopics is Topics for initialization paths where a broken embedded
// catalog is unrecoverable.
func MustTopics() catalogs.Topics {
	topics, err := Topics()
	if err != nil {
		panic(err)
	}
	return topics
}
