package indypool

import (
	"os"
	"path/filepath"
	"strings"
)

// genesisLeaf is one discovered namespace directory paired with the
// genesis file found inside it.
type genesisLeaf struct {
	Namespace   string
	GenesisPath string
}

// discoverGenesisLeaves walks the two-level <root>/<namespace>/[<sub>/]<file>
// layout. Top-level dotfiles and non-directories are skipped.
func discoverGenesisLeaves(root, filename string) ([]genesisLeaf, error) {
	topEntries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var leaves []genesisLeaf
	for _, top := range topEntries {
		if strings.HasPrefix(top.Name(), ".") || !top.IsDir() {
			continue
		}
		if !namespaceSegment.MatchString(top.Name()) {
			continue
		}
		namespace := top.Name()
		nsPath := filepath.Join(root, namespace)

		direct := filepath.Join(nsPath, filename)
		if isFile(direct) {
			leaves = append(leaves, genesisLeaf{Namespace: namespace, GenesisPath: direct})
			continue
		}

		subEntries, err := os.ReadDir(nsPath)
		if err != nil {
			return nil, err
		}
		for _, sub := range subEntries {
			if !sub.IsDir() || !namespaceSegment.MatchString(sub.Name()) {
				continue
			}
			subPath := filepath.Join(nsPath, sub.Name(), filename)
			if isFile(subPath) {
				leaves = append(leaves, genesisLeaf{
					Namespace:   namespace + ":" + sub.Name(),
					GenesisPath: subPath,
				})
			}
		}
	}
	return leaves, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
