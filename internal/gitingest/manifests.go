package gitingest

import (
	"encoding/json"
	"path"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-git/go-git/v5/plumbing/object"
	"gopkg.in/ini.v1"

	"github.com/openteamsinc/opensourcescore.dev/internal/model"
)

var setupPyNameRe = regexp.MustCompile(`(?s)setup\(.*?name\s*=\s*(['"])(.*?)['"]`)

// pypiNormalize mirrors package_destinations.py's pypi_normalize: fold
// runs of -, _, . into a single hyphen and lowercase.
var pypiSeparatorRe = regexp.MustCompile(`[-_.]+`)

func pypiNormalize(name string) string {
	if name == "" {
		return ""
	}
	return strings.ToLower(pypiSeparatorRe.ReplaceAllString(name, "-"))
}

type pyprojectDoc struct {
	Project struct {
		Name string `toml:"name"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Name string `toml:"name"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

type packageJSONDoc struct {
	Name string `json:"name"`
}

// findPackageDestinations walks the tree for every manifest spec.md
// §4.D.5 names and emits one PackageDestination per discovered package
// name. A first tree walk collects, in walk order, every pyproject.toml
// name (+ typeshed stub special case), every setup.cfg name, and every
// package.json (npm) name; only if that walk found no PyPI name does a
// second walk read setup.py files. Grounded on package_destinations.py's
// get_all_pypackage_names, whose [project]/tool.poetry precedence this
// follows; the typeshed special case is not in that file and is added
// per spec.md §4.D.5.
func findPackageDestinations(tree *object.Tree) ([]model.PackageDestination, error) {
	var dests []model.PackageDestination
	foundPyPI := false

	err := tree.Files().ForEach(func(f *object.File) error {
		base := path.Base(f.Name)
		switch base {
		case "pyproject.toml":
			content, err := f.Contents()
			if err != nil {
				return nil
			}
			var doc pyprojectDoc
			if _, err := toml.Decode(content, &doc); err != nil {
				return nil
			}
			name := doc.Project.Name
			if name == "" {
				name = doc.Tool.Poetry.Name
			}
			if name != "" {
				dests = append(dests, model.PackageDestination{
					Name:         "pypi/" + pypiNormalize(name),
					ManifestPath: f.Name,
				})
				foundPyPI = true
			}
			if strings.EqualFold(name, "typeshed") {
				stubDests, err := findTypeshedStubs(tree)
				if err == nil {
					dests = append(dests, stubDests...)
				}
			}
		case "setup.cfg":
			cfg, err := ini.Load([]byte(mustContents(f)))
			if err != nil {
				return nil
			}
			name := cfg.Section("metadata").Key("name").String()
			if name != "" {
				dests = append(dests, model.PackageDestination{
					Name:         "pypi/" + pypiNormalize(name),
					ManifestPath: f.Name,
				})
				foundPyPI = true
			}
		case "package.json":
			content, err := f.Contents()
			if err != nil {
				return nil
			}
			var doc packageJSONDoc
			if err := json.Unmarshal([]byte(content), &doc); err != nil {
				return nil
			}
			if doc.Name != "" {
				dests = append(dests, model.PackageDestination{
					Name:         "npm/" + doc.Name,
					ManifestPath: f.Name,
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if foundPyPI {
		return dests, nil
	}

	// No [project]/[tool.poetry]/[metadata] name found anywhere: fall
	// back to scanning setup.py, per the precedence rule in
	// get_pypi_pypackage_names.
	err = tree.Files().ForEach(func(f *object.File) error {
		if path.Base(f.Name) != "setup.py" {
			return nil
		}
		content, err := f.Contents()
		if err != nil {
			return nil
		}
		m := setupPyNameRe.FindStringSubmatch(content)
		if m == nil {
			return nil
		}
		dests = append(dests, model.PackageDestination{
			Name:         "pypi/" + pypiNormalize(m[2]),
			ManifestPath: f.Name,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return dests, nil
}

// findTypeshedStubs implements the typeshed special case: when a
// pyproject.toml declares project name "typeshed", every
// stubs/<pkg>/METADATA.toml describes a types-only distribution that
// ships as pypi/types-<pkg>.
func findTypeshedStubs(tree *object.Tree) ([]model.PackageDestination, error) {
	var dests []model.PackageDestination
	err := tree.Files().ForEach(func(f *object.File) error {
		if path.Base(f.Name) != "METADATA.toml" {
			return nil
		}
		dir := path.Dir(f.Name)
		if path.Base(path.Dir(dir)) != "stubs" {
			return nil
		}
		stubDir := path.Base(dir)
		dests = append(dests, model.PackageDestination{
			Name:         "pypi/types-" + pypiNormalize(stubDir),
			ManifestPath: f.Name,
		})
		return nil
	})
	return dests, err
}

func mustContents(f *object.File) string {
	content, err := f.Contents()
	if err != nil {
		return ""
	}
	return content
}
