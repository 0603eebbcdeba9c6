package registry

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/openteamsinc/opensourcescore.dev/internal/model"
)

var (
	depNameRe        = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9._-]*)`)
	depExtrasRe      = regexp.MustCompile(`^\s*\[([^\]]*)\]`)
	depSpecifierRe   = regexp.MustCompile(`[><=!~]+[^,;\s]+`)
	depExtraMarkerRe = regexp.MustCompile(`extra\s*==\s*["']([^"']+)["']`)
)

// parsePyPIDependency parses one requires_dist line:
// `name (extras)? version_specifiers? (; environment_marker)?`
// per spec.md §4.B.1, ported from score/pypi/parse_deps.py's parse_dep with
// extras/environment_marker/extra_marker extraction added as the spec
// requires (the Python original only tracked an opaque "include_check"
// string, not a named extra_marker).
func parsePyPIDependency(line string) (model.Dependency, error) {
	mainPart, marker, hasMarker := strings.Cut(line, ";")
	mainPart = strings.TrimSpace(mainPart)
	if hasMarker {
		marker = strings.TrimSpace(marker)
	}

	m := depNameRe.FindStringSubmatch(mainPart)
	if m == nil {
		return model.Dependency{}, fmt.Errorf("registry: invalid dependency string %q", line)
	}
	name := m[1]
	rest := strings.TrimSpace(mainPart[len(name):])

	dep := model.Dependency{Name: name}

	if em := depExtrasRe.FindStringSubmatch(rest); em != nil {
		for _, e := range strings.Split(em[1], ",") {
			e = strings.TrimSpace(e)
			if e != "" {
				dep.Extras = append(dep.Extras, e)
			}
		}
		rest = strings.TrimSpace(rest[len(em[0]):])
	}

	if strings.HasPrefix(rest, "@") {
		// URL requirement (PEP 508 direct reference): no version specifiers.
		dep.Specifiers = []string{}
	} else if rest != "" {
		dep.Specifiers = depSpecifierRe.FindAllString(rest, -1)
	}
	if dep.Specifiers == nil {
		dep.Specifiers = []string{}
	}

	if hasMarker {
		dep.EnvironmentMarker = marker
		if mm := depExtraMarkerRe.FindStringSubmatch(marker); mm != nil {
			dep.ExtraMarker = mm[1]
		}
	}

	return dep, nil
}

// parsePyPIDependencies parses every line of requires_dist, skipping (not
// failing on) any line that doesn't match the grammar.
func parsePyPIDependencies(requiresDist []string) []model.Dependency {
	deps := make([]model.Dependency, 0, len(requiresDist))
	for _, line := range requiresDist {
		dep, err := parsePyPIDependency(line)
		if err != nil {
			continue
		}
		deps = append(deps, dep)
	}
	return deps
}

// parseNPMDependencies converts an npm "dependencies" map (name ->
// specifier string) into the shared Dependency shape.
func parseNPMDependencies(deps map[string]string) []model.Dependency {
	out := make([]model.Dependency, 0, len(deps))
	for name, specifier := range deps {
		specifiers := []string{}
		if specifier != "" {
			specifiers = append(specifiers, specifier)
		}
		out = append(out, model.Dependency{Name: name, Specifiers: specifiers})
	}
	return out
}

// parseCondaDependencies splits each "depends" string on its first
// whitespace run into (name, specifier), prefixing name with "{channel}/"
// per spec.md §4.B.
func parseCondaDependencies(channel string, depends []string) []model.Dependency {
	out := make([]model.Dependency, 0, len(depends))
	for _, d := range depends {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		fields := strings.Fields(d)
		name := channel + "/" + fields[0]
		specifiers := []string{}
		if len(fields) > 1 {
			specifiers = append(specifiers, strings.Join(fields[1:], " "))
		}
		out = append(out, model.Dependency{Name: name, Specifiers: specifiers})
	}
	return out
}
